package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Unpaid PaymentStatus = "unpaid"
	Paid   PaymentStatus = "paid"
)

const (
	In  Direction = "in"
	Out Direction = "out"
)

type (
	PaymentStatus string

	// Direction is the side of a bank transaction from the team's point
	// of view: money coming in or going out.
	Direction string

	Member struct {
		ID        int64
		FullName  string
		Team      string
		JoinDate  time.Time
		LeaveDate *time.Time
		Notes     string
	}

	Product struct {
		ID            int64
		Name          string
		Category      string
		UnitPrice     decimal.Decimal
		StockQuantity int
	}

	SalesOrderItem struct {
		ID        int64
		ProductID int64
		Name      string // product name snapshot at sale time
		Quantity  int
		UnitPrice decimal.Decimal
		LineTotal decimal.Decimal
	}

	SalesOrder struct {
		ID            int64
		MemberID      int64
		OrderDate     time.Time
		PaymentStatus PaymentStatus
		PaymentMethod string
		TotalAmount   decimal.Decimal
		Items         []SalesOrderItem
	}

	MembershipFee struct {
		ID            int64
		MemberID      int64
		FeeMonth      time.Time // always first of month
		Amount        decimal.Decimal
		PaymentStatus PaymentStatus
		PaymentMethod string
		PaymentDate   *time.Time
	}

	Reimbursement struct {
		ID            int64
		MemberID      int64
		PurchaseDate  time.Time
		Vendor        string
		Description   string
		Amount        decimal.Decimal
		Category      string
		Project       string
		PaymentStatus PaymentStatus
		PaymentMethod string
		PaymentDate   *time.Time
		ReceiptName   string
		ReceiptNote   string
	}

	CashExpense struct {
		ID          int64
		ExpenseDate time.Time
		Amount      decimal.Decimal
		Description string
		Category    string
		Project     string
		Vendor      string
		ReceiptName string
		ReceiptNote string
	}

	BankTransaction struct {
		ID             int64
		TxnDate        string // normalized date, may carry a raw value through
		Description    string
		Amount         decimal.Decimal // absolute value
		Direction      Direction
		Counterparty   string
		Reference      string
		ImportHash     string
		ImportFilename string
		ImportBatchID  string
	}

	// Settings is the single persisted configuration record. It is loaded
	// once per operation and passed in explicitly, never read globally.
	Settings struct {
		FeeAmount  decimal.Decimal
		Categories []string
		Projects   []string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date")
	ErrLeaveBeforeJoin  = errors.New("leave date before join date")
	ErrNoItems          = errors.New("order has no items")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrAlreadyPaid      = errors.New("already paid")
	ErrDuplicate        = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
)

func (s PaymentStatus) Valid() bool {
	return s == Unpaid || s == Paid
}

func (d Direction) Valid() bool {
	return d == In || d == Out
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.FullName) == "" {
		return ErrEmptyName
	}
	if m.JoinDate.IsZero() {
		return ErrInvalidDate
	}
	if m.LeaveDate != nil && m.LeaveDate.Before(m.JoinDate) {
		return ErrLeaveBeforeJoin
	}
	return nil
}

// ActiveIn reports whether the member is active at any point during the
// given month: joined on or before its last day, and either has no leave
// date or left on/after its first day.
func (m Member) ActiveIn(month time.Time) bool {
	start := MonthStart(month)
	end := start.AddDate(0, 1, -1)
	if m.JoinDate.After(end) {
		return false
	}
	if m.LeaveDate != nil && m.LeaveDate.Before(start) {
		return false
	}
	return true
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.UnitPrice.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (r Reimbursement) Validate() error {
	if r.MemberID == 0 {
		return ErrNotFound
	}
	if r.PurchaseDate.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (e CashExpense) Validate() error {
	if e.ExpenseDate.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// MonthStart truncates a date to the first of its month at UTC midnight.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NewDate creates a UTC midnight date from year, month, day.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
