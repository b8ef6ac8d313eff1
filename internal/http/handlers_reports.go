package http

import (
	"context"
	"net/http"
	"time"

	"kasa/internal/core"
	"kasa/internal/reports"
)

// ReportStore supplies the rows the report folds run over.
type ReportStore interface {
	ListLedgerEntries(ctx context.Context) ([]core.LedgerEntry, error)
	ListMembers(ctx context.Context) ([]core.Member, error)
	ListFees(ctx context.Context, month *time.Time) ([]core.MembershipFee, error)
	ListOrders(ctx context.Context) ([]core.SalesOrder, error)
	ListReimbursements(ctx context.Context) ([]core.Reimbursement, error)
	ListProducts(ctx context.Context) ([]core.Product, error)
	ListAllOrderItems(ctx context.Context) ([]core.SalesOrderItem, error)
	ListBankTransactions(ctx context.Context) ([]core.BankTransaction, error)
}

func (s *Server) handleListLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListLedgerEntries(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List ledger failed", "error", err)
		writeDomainError(w, err)
		return
	}
	resp := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, ledgerEntryJSON(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePnLReport(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListLedgerEntries(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "P&L report failed", "error", err)
		writeDomainError(w, err)
		return
	}
	rows := reports.ProfitAndLoss(entries)
	if wantsCSV(r) {
		data, err := reports.PnLCSV(rows)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeCSV(w, "pnl.csv", data)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleBalancesReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	fees, err := s.store.ListFees(ctx, nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	reimbs, err := s.store.ListReimbursements(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rows := reports.MemberBalances(members, fees, orders, reimbs)
	if wantsCSV(r) {
		data, err := reports.MemberBalancesCSV(rows)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeCSV(w, "balances.csv", data)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCashflowReport(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListLedgerEntries(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Cashflow report failed", "error", err)
		writeDomainError(w, err)
		return
	}
	rows := reports.MonthlyCashflow(entries)
	if wantsCSV(r) {
		data, err := reports.CashflowCSV(rows)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeCSV(w, "cashflow.csv", data)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleInventoryReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	items, err := s.store.ListAllOrderItems(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rows := reports.Inventory(products, items)
	if wantsCSV(r) {
		data, err := reports.InventoryCSV(rows)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeCSV(w, "inventory.csv", data)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
