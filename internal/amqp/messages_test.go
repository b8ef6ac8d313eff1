package amqp

import (
	"testing"

	"github.com/shopspring/decimal"

	"kasa/internal/core"
)

func TestNewLedgerEntryMessage(t *testing.T) {
	entry := core.LedgerEntry{
		ID:            17,
		TxnDate:       "2026-01-12",
		Kind:          core.KindCashExpense,
		Amount:        decimal.RequireFromString("-49.9"),
		ReferenceType: core.RefCashExpense,
		ReferenceID:   4,
	}

	msg := NewLedgerEntryMessage(entry)
	if msg.ID != 17 || msg.Kind != "cash_expense" || msg.TxnDate != "2026-01-12" {
		t.Errorf("message fields wrong: %+v", msg)
	}
	if msg.Amount != "-49.9" {
		t.Errorf("amount = %q, want signed string -49.9", msg.Amount)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := LedgerEntryMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.ID != msg.ID || decoded.Amount != msg.Amount {
		t.Errorf("round trip lost fields: %+v", decoded)
	}
}
