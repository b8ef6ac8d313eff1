package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"kasa/internal/core"
)

// InsertBankTransactions stores parsed statement rows and posts a ledger
// entry for each newly-inserted one, all in a single transaction. Rows
// whose import hash already exists are skipped; the unique index on
// import_hash decides, so two overlapping imports racing each other cannot
// double-insert. Ledger posting only happens for the inserted subset.
func (r *Repository) InsertBankTransactions(ctx context.Context, txns []core.BankTransaction, filename, batchID string) (inserted []core.BankTransaction, skipped int, err error) {
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range txns {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO bank_transactions
				   (txn_date, description, amount, direction, counterparty, reference, import_hash, import_filename, import_batch_id)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT (import_hash) DO NOTHING`,
				t.TxnDate, t.Description, t.Amount.String(), string(t.Direction),
				t.Counterparty, t.Reference, t.ImportHash, filename, batchID)
			if err != nil {
				return fmt.Errorf("insert bank transaction: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("bank rows affected: %w", err)
			}
			if n == 0 {
				skipped++
				continue
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("bank transaction id: %w", err)
			}
			t.ID = id
			t.ImportFilename = filename
			t.ImportBatchID = batchID

			entry, err := core.EntryFromEvent(core.LedgerEvent{
				Kind:          core.KindBankTransaction,
				RawDate:       t.TxnDate,
				Amount:        t.Amount,
				Direction:     t.Direction,
				Category:      "banka",
				Project:       "genel",
				Description:   t.Description,
				Source:        "bank_import",
				ReferenceType: core.RefBankTransaction,
				ReferenceID:   id,
			})
			if err != nil {
				return err
			}
			if _, _, err := appendLedgerTx(ctx, tx, entry); err != nil {
				return err
			}

			inserted = append(inserted, t)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	slog.InfoContext(ctx, "Bank transactions stored",
		"filename", filename,
		"import_batch_id", batchID,
		"inserted", len(inserted),
		"skipped", skipped)
	return inserted, skipped, nil
}

func (r *Repository) ListBankTransactions(ctx context.Context) ([]core.BankTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, txn_date, description, amount, direction, counterparty, reference,
		        import_hash, import_filename, import_batch_id
		   FROM bank_transactions ORDER BY txn_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bank transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.BankTransaction
	for rows.Next() {
		var (
			t         core.BankTransaction
			amount    string
			direction string
		)
		if err := rows.Scan(&t.ID, &t.TxnDate, &t.Description, &amount, &direction,
			&t.Counterparty, &t.Reference, &t.ImportHash, &t.ImportFilename, &t.ImportBatchID); err != nil {
			return nil, fmt.Errorf("scan bank transaction: %w", err)
		}
		if t.Amount, err = parseStoredAmount(amount); err != nil {
			return nil, err
		}
		t.Direction = core.Direction(direction)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
