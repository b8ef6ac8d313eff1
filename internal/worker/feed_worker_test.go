package worker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kasa/internal/amqp"
)

func TestFeedWorker_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed", "ledger.jsonl")
	w := NewFeedWorker(path)

	first := &amqp.LedgerEntryMessage{
		ID:            7,
		Kind:          "membership_fee_payment",
		TxnDate:       "2026-02-01",
		Amount:        "200",
		ReferenceType: "membership_fee",
		ReferenceID:   3,
		Timestamp:     time.Now(),
	}
	second := &amqp.LedgerEntryMessage{
		ID:            8,
		Kind:          "cash_expense",
		TxnDate:       "2026-02-02",
		Amount:        "-49.9",
		ReferenceType: "cash_expense",
		ReferenceID:   1,
		Timestamp:     time.Now(),
	}

	if err := w.HandleLedgerEntry(first); err != nil {
		t.Fatalf("handle first message: %v", err)
	}
	if err := w.HandleLedgerEntry(second); err != nil {
		t.Fatalf("handle second message: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read feed file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 feed lines, got %d", len(lines))
	}

	got, err := amqp.LedgerEntryMessageFromJSON([]byte(lines[0]))
	if err != nil {
		t.Fatalf("decode first feed line: %v", err)
	}
	if got.ID != 7 || got.Amount != "200" || got.ReferenceType != "membership_fee" {
		t.Errorf("unexpected first feed message: %+v", got)
	}

	got, err = amqp.LedgerEntryMessageFromJSON([]byte(lines[1]))
	if err != nil {
		t.Fatalf("decode second feed line: %v", err)
	}
	if got.ID != 8 || got.Amount != "-49.9" {
		t.Errorf("unexpected second feed message: %+v", got)
	}
}

func TestFeedWorker_CreatesFeedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "feed.jsonl")
	w := NewFeedWorker(path)

	msg := &amqp.LedgerEntryMessage{ID: 1, Kind: "merch_sale", TxnDate: "2026-03-10", Amount: "130"}
	if err := w.HandleLedgerEntry(msg); err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("feed file missing: %v", err)
	}
}
