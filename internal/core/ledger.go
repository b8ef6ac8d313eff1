package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind identifies what kind of money movement a ledger entry records.
type EntryKind string

const (
	KindCashExpense          EntryKind = "cash_expense"
	KindBankTransaction      EntryKind = "bank_transaction"
	KindMembershipFeePayment EntryKind = "membership_fee_payment"
	KindReimbursementPayment EntryKind = "reimbursement_payment"
	KindMerchSale            EntryKind = "merch_sale"
)

// Reference types tie a ledger entry back to the row that produced it.
// Together with the reference ID they form the idempotency key: the same
// source event can never post twice.
const (
	RefMembershipFee   = "membership_fee"
	RefSalesOrder      = "sales_order"
	RefReimbursement   = "reimbursement"
	RefCashExpense     = "cash_expense"
	RefBankTransaction = "bank_transaction"
)

var (
	ErrUnknownEntryKind = errors.New("unknown ledger entry kind")
	ErrMissingReference = errors.New("ledger event missing reference")
)

// LedgerEntry is one signed, dated, append-only record of money movement.
// Positive amounts are inflows to the team, negative amounts outflows.
// The ledger is the single source of truth for all reporting; entries are
// never updated or deleted.
type LedgerEntry struct {
	ID            int64
	TxnDate       string // ISO date; bank rows may carry a raw value through
	Kind          EntryKind
	Amount        decimal.Decimal // signed
	MemberID      *int64
	Project       string
	Category      string
	Description   string
	Source        string
	ReferenceType string
	ReferenceID   int64
}

// LedgerEvent is a money-moving fact reported by one of the entity flows.
// Amount is always the positive source amount; the sign of the resulting
// entry is fixed by Kind (and Direction for bank transactions), never by
// the caller.
type LedgerEvent struct {
	Kind          EntryKind
	Date          time.Time
	RawDate       string // used instead of Date for bank rows
	Amount        decimal.Decimal
	Direction     Direction // bank transactions only
	MemberID      *int64
	Project       string
	Category      string
	Description   string
	Source        string
	ReferenceType string
	ReferenceID   int64
}

// EntryFromEvent derives the ledger entry for an event. It is pure: the
// sign convention lives here and nowhere else.
//
//	membership_fee_payment, merch_sale -> +amount (team receives)
//	reimbursement_payment, cash_expense -> -amount (team pays)
//	bank_transaction -> sign follows Direction
func EntryFromEvent(ev LedgerEvent) (LedgerEntry, error) {
	if ev.ReferenceType == "" || ev.ReferenceID == 0 {
		return LedgerEntry{}, ErrMissingReference
	}
	if !ev.Amount.IsPositive() {
		return LedgerEntry{}, ErrInvalidAmount
	}

	var amount decimal.Decimal
	switch ev.Kind {
	case KindMembershipFeePayment, KindMerchSale:
		amount = ev.Amount
	case KindReimbursementPayment, KindCashExpense:
		amount = ev.Amount.Neg()
	case KindBankTransaction:
		if !ev.Direction.Valid() {
			return LedgerEntry{}, fmt.Errorf("bank event: invalid direction %q", ev.Direction)
		}
		if ev.Direction == Out {
			amount = ev.Amount.Neg()
		} else {
			amount = ev.Amount
		}
	default:
		return LedgerEntry{}, fmt.Errorf("%w: %q", ErrUnknownEntryKind, ev.Kind)
	}

	date := ev.RawDate
	if date == "" {
		date = ev.Date.Format("2006-01-02")
	}

	return LedgerEntry{
		TxnDate:       date,
		Kind:          ev.Kind,
		Amount:        amount,
		MemberID:      ev.MemberID,
		Project:       ev.Project,
		Category:      ev.Category,
		Description:   ev.Description,
		Source:        ev.Source,
		ReferenceType: ev.ReferenceType,
		ReferenceID:   ev.ReferenceID,
	}, nil
}

// NewSalesOrder builds an order from (product, quantity) pairs, snapshotting
// product names and prices and computing line totals and the order total.
// The total always equals the sum of its line totals.
func NewSalesOrder(memberID int64, orderDate time.Time, lines []OrderLine) (SalesOrder, error) {
	if memberID == 0 {
		return SalesOrder{}, ErrNotFound
	}
	if len(lines) == 0 {
		return SalesOrder{}, ErrNoItems
	}
	order := SalesOrder{
		MemberID:      memberID,
		OrderDate:     orderDate,
		PaymentStatus: Unpaid,
		TotalAmount:   decimal.Zero,
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return SalesOrder{}, ErrInvalidQuantity
		}
		if l.Product.UnitPrice.IsNegative() {
			return SalesOrder{}, ErrInvalidAmount
		}
		lineTotal := l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		order.Items = append(order.Items, SalesOrderItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.UnitPrice,
			LineTotal: lineTotal,
		})
		order.TotalAmount = order.TotalAmount.Add(lineTotal)
	}
	return order, nil
}

// OrderLine pairs a product with the quantity being sold.
type OrderLine struct {
	Product  Product
	Quantity int
}
