package amqp

import (
	"encoding/json"
	"time"

	"kasa/internal/core"
)

// LedgerEntryMessage mirrors one posted ledger entry to the feed. It carries
// the entry's identifying fields only; consumers needing the full record
// fetch it by ID.
type LedgerEntryMessage struct {
	ID            int64     `json:"id"`
	Kind          string    `json:"kind"`
	TxnDate       string    `json:"txn_date"`
	Amount        string    `json:"amount"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   int64     `json:"reference_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEntryMessage builds the feed message for a posted entry.
func NewLedgerEntryMessage(entry core.LedgerEntry) *LedgerEntryMessage {
	return &LedgerEntryMessage{
		ID:            entry.ID,
		Kind:          string(entry.Kind),
		TxnDate:       entry.TxnDate,
		Amount:        entry.Amount.String(),
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEntryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEntryMessageFromJSON creates a message from JSON bytes
func LedgerEntryMessageFromJSON(data []byte) (*LedgerEntryMessage, error) {
	var msg LedgerEntryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
