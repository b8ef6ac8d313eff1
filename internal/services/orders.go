// Package services orchestrates entity flows across the record store and
// the optional ledger event feed. Stores are consumed as narrow interfaces
// so tests can run against fakes.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kasa/internal/core"
)

// OrderStore is the slice of the record store the order flow needs.
type OrderStore interface {
	GetProduct(ctx context.Context, id int64) (core.Product, error)
	GetMember(ctx context.Context, id int64) (core.Member, error)
	CreateOrder(ctx context.Context, order core.SalesOrder) (core.SalesOrder, error)
	MarkOrderPaid(ctx context.Context, orderID int64, method string, payDate time.Time) (core.LedgerEntry, error)
	ListOrders(ctx context.Context) ([]core.SalesOrder, error)
}

// LedgerPublisher mirrors posted ledger entries to an external feed. A nil
// publisher disables the feed; publish failures never fail the request,
// the durable write already happened.
type LedgerPublisher interface {
	PublishLedgerEntry(ctx context.Context, entry core.LedgerEntry) error
}

type OrderService struct {
	store     OrderStore
	publisher LedgerPublisher
}

func NewOrderService(store OrderStore, publisher LedgerPublisher) *OrderService {
	return &OrderService{store: store, publisher: publisher}
}

// OrderRequest is one product/quantity pair of an incoming sale.
type OrderRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Create builds and stores an order atomically: items are snapshotted from
// current products, totals computed, stock decremented. The member must
// exist.
func (s *OrderService) Create(ctx context.Context, memberID int64, orderDate time.Time, reqs []OrderRequest) (core.SalesOrder, error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return core.SalesOrder{}, fmt.Errorf("member %d: %w", memberID, err)
	}

	lines := make([]core.OrderLine, 0, len(reqs))
	for _, req := range reqs {
		product, err := s.store.GetProduct(ctx, req.ProductID)
		if err != nil {
			return core.SalesOrder{}, fmt.Errorf("product %d: %w", req.ProductID, err)
		}
		lines = append(lines, core.OrderLine{Product: product, Quantity: req.Quantity})
	}

	order, err := core.NewSalesOrder(memberID, orderDate, lines)
	if err != nil {
		return core.SalesOrder{}, err
	}

	created, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		return core.SalesOrder{}, fmt.Errorf("create order: %w", err)
	}
	return created, nil
}

// Pay marks the order paid; the store posts the ledger entry in the same
// transaction.
func (s *OrderService) Pay(ctx context.Context, orderID int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	entry, err := s.store.MarkOrderPaid(ctx, orderID, method, payDate)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("pay order %d: %w", orderID, err)
	}
	s.publish(ctx, entry)
	return entry, nil
}

func (s *OrderService) List(ctx context.Context) ([]core.SalesOrder, error) {
	return s.store.ListOrders(ctx)
}

func (s *OrderService) publish(ctx context.Context, entry core.LedgerEntry) {
	if s.publisher == nil || entry.ID == 0 {
		return
	}
	if err := s.publisher.PublishLedgerEntry(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger entry",
			"ledger_entry_id", entry.ID, "entry_kind", string(entry.Kind), "error", err)
	}
}
