package storage

import (
	"context"
	"database/sql"
	"fmt"

	"kasa/internal/core"
)

// appendLedgerTx appends a ledger entry inside an open transaction. The
// UNIQUE (reference_type, reference_id) constraint makes posting
// idempotent: re-posting an already-logged event inserts nothing and is
// reported as posted=false, not as an error.
func appendLedgerTx(ctx context.Context, tx *sql.Tx, entry core.LedgerEntry) (int64, bool, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions_ledger
		   (txn_date, txn_type, amount, member_id, project, category, description, source, reference_type, reference_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (reference_type, reference_id) DO NOTHING`,
		entry.TxnDate, string(entry.Kind), entry.Amount.String(), nullableID(entry.MemberID),
		entry.Project, entry.Category, entry.Description, entry.Source,
		entry.ReferenceType, entry.ReferenceID)
	if err != nil {
		return 0, false, fmt.Errorf("append ledger entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("ledger rows affected: %w", err)
	}
	if n == 0 {
		return 0, false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("ledger entry id: %w", err)
	}
	return id, true, nil
}

func (r *Repository) ListLedgerEntries(ctx context.Context) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, txn_date, txn_type, amount, member_id, project, category, description, source, reference_type, reference_id
		   FROM transactions_ledger ORDER BY txn_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []core.LedgerEntry
	for rows.Next() {
		var (
			e        core.LedgerEntry
			kind     string
			amount   string
			memberID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.TxnDate, &kind, &amount, &memberID, &e.Project, &e.Category,
			&e.Description, &e.Source, &e.ReferenceType, &e.ReferenceID); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Kind = core.EntryKind(kind)
		amt, err := parseStoredAmount(amount)
		if err != nil {
			return nil, err
		}
		e.Amount = amt
		if memberID.Valid {
			id := memberID.Int64
			e.MemberID = &id
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
