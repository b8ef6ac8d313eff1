// Package http exposes the JSON API: entity CRUD, payment operations,
// imports and reports, all under /api with basic auth.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"kasa/internal/config"
	"kasa/internal/fees"
	"kasa/internal/log"
	"kasa/internal/middleware/trace"
	"kasa/internal/services"
)

// Store is the read/write surface the handlers use directly. The payment,
// order and import flows go through their services instead.
type Store interface {
	MemberStore
	ProductStore
	ReportStore
	SettingsStore
}

type Server struct {
	http.Server

	store    Store
	orders   *services.OrderService
	payments *services.PaymentService
	imports  *services.ImportService
	feegen   *fees.Generator

	cfg    *config.Config
	logger *log.Logger
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, store Store, orders *services.OrderService, payments *services.PaymentService, imports *services.ImportService, feegen *fees.Generator, logger *log.Logger) *Server {
	s := &Server{
		store:    store,
		orders:   orders,
		payments: payments,
		imports:  imports,
		feegen:   feegen,
		cfg:      cfg,
		logger:   logger.WithComponent(log.ComponentHTTP),
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.withBasicAuth)

	api.HandleFunc("/members", s.handleListMembers).Methods(http.MethodGet)
	api.HandleFunc("/members", s.handleCreateMember).Methods(http.MethodPost)
	api.HandleFunc("/members/import", s.handleImportMembers).Methods(http.MethodPost)
	api.HandleFunc("/members/{id:[0-9]+}", s.handleGetMember).Methods(http.MethodGet)
	api.HandleFunc("/members/{id:[0-9]+}", s.handleUpdateMember).Methods(http.MethodPut)
	api.HandleFunc("/members/{id:[0-9]+}/leave", s.handleMemberLeave).Methods(http.MethodPost)

	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", s.handleCreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{id:[0-9]+}", s.handleGetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", s.handleUpdateProduct).Methods(http.MethodPut)

	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}/pay", s.handlePayOrder).Methods(http.MethodPost)

	api.HandleFunc("/fees", s.handleListFees).Methods(http.MethodGet)
	api.HandleFunc("/fees/generate", s.handleGenerateFees).Methods(http.MethodPost)
	api.HandleFunc("/fees/{id:[0-9]+}/pay", s.handlePayFee).Methods(http.MethodPost)

	api.HandleFunc("/reimbursements", s.handleListReimbursements).Methods(http.MethodGet)
	api.HandleFunc("/reimbursements", s.handleCreateReimbursement).Methods(http.MethodPost)
	api.HandleFunc("/reimbursements/{id:[0-9]+}/pay", s.handlePayReimbursement).Methods(http.MethodPost)

	api.HandleFunc("/expenses", s.handleListExpenses).Methods(http.MethodGet)
	api.HandleFunc("/expenses", s.handleCreateExpense).Methods(http.MethodPost)

	api.HandleFunc("/bank/import", s.handleBankImport).Methods(http.MethodPost)
	api.HandleFunc("/bank/transactions", s.handleListBankTransactions).Methods(http.MethodGet)

	api.HandleFunc("/ledger", s.handleListLedger).Methods(http.MethodGet)
	api.HandleFunc("/reports/pnl", s.handlePnLReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/balances", s.handleBalancesReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/cashflow", s.handleCashflowReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/inventory", s.handleInventoryReport).Methods(http.MethodGet)

	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPut)

	traced := trace.NewMiddleware(extractClientIP)
	s.Server = http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      traced.Middleware(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// timestamps in responses always carry a date only
const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
