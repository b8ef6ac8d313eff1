// Package worker materializes the ledger event feed into a local
// append-only file, one JSON object per line. Tail it, or ship it to
// whatever wants a mirror of the ledger.
package worker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"kasa/internal/amqp"
)

// FeedWorker appends consumed ledger entry messages to a feed file.
type FeedWorker struct {
	path string
	mu   sync.Mutex
}

func NewFeedWorker(path string) *FeedWorker {
	return &FeedWorker{path: path}
}

// HandleLedgerEntry appends one feed message as a JSON line. The mutex
// keeps concurrent deliveries from interleaving lines; an error here makes
// the consumer requeue the message, so the feed never silently drops one.
func (w *FeedWorker) HandleLedgerEntry(msg *amqp.LedgerEntryMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal feed message: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create feed directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open feed file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(body, '\n')); err != nil {
		return fmt.Errorf("append feed entry: %w", err)
	}

	slog.Info("Ledger entry appended to feed",
		"ledger_entry_id", msg.ID,
		"entry_kind", msg.Kind,
		"amount", msg.Amount)
	return nil
}
