package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kasa/internal/core"
)

// PaymentStore covers fee payments, reimbursements and cash expenses.
type PaymentStore interface {
	MarkFeePaid(ctx context.Context, feeID int64, method string, payDate time.Time) (core.LedgerEntry, error)
	ListFees(ctx context.Context, month *time.Time) ([]core.MembershipFee, error)
	CreateReimbursement(ctx context.Context, r core.Reimbursement) (core.Reimbursement, error)
	MarkReimbursementPaid(ctx context.Context, id int64, method string, payDate time.Time) (core.LedgerEntry, error)
	ListReimbursements(ctx context.Context) ([]core.Reimbursement, error)
	CreateCashExpense(ctx context.Context, e core.CashExpense) (core.CashExpense, core.LedgerEntry, error)
	ListCashExpenses(ctx context.Context) ([]core.CashExpense, error)
}

// PaymentService orchestrates payment flows. Every successful payment
// produces a durable ledger entry; the feed mirror is best effort.
type PaymentService struct {
	store     PaymentStore
	publisher LedgerPublisher
}

func NewPaymentService(store PaymentStore, publisher LedgerPublisher) *PaymentService {
	return &PaymentService{store: store, publisher: publisher}
}

func (s *PaymentService) PayFee(ctx context.Context, feeID int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	entry, err := s.store.MarkFeePaid(ctx, feeID, method, payDate)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("pay fee %d: %w", feeID, err)
	}
	s.publish(ctx, entry)
	return entry, nil
}

func (s *PaymentService) ListFees(ctx context.Context, month *time.Time) ([]core.MembershipFee, error) {
	return s.store.ListFees(ctx, month)
}

func (s *PaymentService) CreateReimbursement(ctx context.Context, r core.Reimbursement) (core.Reimbursement, error) {
	if err := r.Validate(); err != nil {
		return core.Reimbursement{}, err
	}
	created, err := s.store.CreateReimbursement(ctx, r)
	if err != nil {
		return core.Reimbursement{}, fmt.Errorf("create reimbursement: %w", err)
	}
	return created, nil
}

func (s *PaymentService) PayReimbursement(ctx context.Context, id int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	entry, err := s.store.MarkReimbursementPaid(ctx, id, method, payDate)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("pay reimbursement %d: %w", id, err)
	}
	s.publish(ctx, entry)
	return entry, nil
}

func (s *PaymentService) ListReimbursements(ctx context.Context) ([]core.Reimbursement, error) {
	return s.store.ListReimbursements(ctx)
}

// CreateCashExpense saves the expense and its ledger entry in one
// transaction.
func (s *PaymentService) CreateCashExpense(ctx context.Context, e core.CashExpense) (core.CashExpense, error) {
	if err := e.Validate(); err != nil {
		return core.CashExpense{}, err
	}
	created, entry, err := s.store.CreateCashExpense(ctx, e)
	if err != nil {
		return core.CashExpense{}, fmt.Errorf("create cash expense: %w", err)
	}
	s.publish(ctx, entry)
	return created, nil
}

func (s *PaymentService) ListCashExpenses(ctx context.Context) ([]core.CashExpense, error) {
	return s.store.ListCashExpenses(ctx)
}

func (s *PaymentService) publish(ctx context.Context, entry core.LedgerEntry) {
	if s.publisher == nil || entry.ID == 0 {
		return
	}
	if err := s.publisher.PublishLedgerEntry(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger entry",
			"ledger_entry_id", entry.ID, "entry_kind", string(entry.Kind), "error", err)
	}
}
