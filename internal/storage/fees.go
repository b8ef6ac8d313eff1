package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kasa/internal/core"
)

// UpsertFee inserts a fee row unless one already exists for the same
// (member, month). Existing rows are never touched; the unique constraint
// resolves the race between two concurrent generation runs.
func (r *Repository) UpsertFee(ctx context.Context, fee core.MembershipFee) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO membership_fees (member_id, fee_month, amount, payment_status)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (member_id, fee_month) DO NOTHING`,
		fee.MemberID, formatDate(core.MonthStart(fee.FeeMonth)), fee.Amount.String(), string(fee.PaymentStatus))
	if err != nil {
		return false, fmt.Errorf("upsert fee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("fee rows affected: %w", err)
	}
	return n > 0, nil
}

// MarkFeePaid flips the fee to paid and posts the payment to the ledger in
// the same transaction.
func (r *Repository) MarkFeePaid(ctx context.Context, feeID int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	var entry core.LedgerEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var (
			memberID int64
			feeMonth string
			amount   string
			status   string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT member_id, fee_month, amount, payment_status FROM membership_fees WHERE id = ?`, feeID).
			Scan(&memberID, &feeMonth, &amount, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load fee %d: %w", feeID, err)
		}
		if core.PaymentStatus(status) == core.Paid {
			return core.ErrAlreadyPaid
		}

		feeAmount, err := parseStoredAmount(amount)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE membership_fees SET payment_status = ?, payment_method = ?, payment_date = ? WHERE id = ?`,
			string(core.Paid), method, formatDate(payDate), feeID); err != nil {
			return fmt.Errorf("mark fee %d paid: %w", feeID, err)
		}

		entry, err = core.EntryFromEvent(core.LedgerEvent{
			Kind:          core.KindMembershipFeePayment,
			Date:          payDate,
			Amount:        feeAmount,
			MemberID:      &memberID,
			Category:      "aidat",
			Project:       "genel",
			Description:   fmt.Sprintf("membership fee %s", feeMonth[:7]),
			Source:        "fees",
			ReferenceType: core.RefMembershipFee,
			ReferenceID:   feeID,
		})
		if err != nil {
			return err
		}

		id, posted, err := appendLedgerTx(ctx, tx, entry)
		if err != nil {
			return err
		}
		if posted {
			entry.ID = id
		}
		return nil
	})
	if err != nil {
		return core.LedgerEntry{}, err
	}
	return entry, nil
}

// ListFees returns fees, optionally restricted to one month.
func (r *Repository) ListFees(ctx context.Context, month *time.Time) ([]core.MembershipFee, error) {
	query := `SELECT id, member_id, fee_month, amount, payment_status, payment_method, payment_date
	            FROM membership_fees`
	var args []any
	if month != nil {
		query += ` WHERE fee_month = ?`
		args = append(args, formatDate(core.MonthStart(*month)))
	}
	query += ` ORDER BY fee_month DESC, member_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	defer rows.Close()

	var fees []core.MembershipFee
	for rows.Next() {
		var (
			f        core.MembershipFee
			feeMonth string
			amount   string
			status   string
			payDate  sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.MemberID, &feeMonth, &amount, &status, &f.PaymentMethod, &payDate); err != nil {
			return nil, fmt.Errorf("scan fee: %w", err)
		}
		if f.FeeMonth, err = parseDate(feeMonth); err != nil {
			return nil, err
		}
		if f.Amount, err = parseStoredAmount(amount); err != nil {
			return nil, err
		}
		f.PaymentStatus = core.PaymentStatus(status)
		if f.PaymentDate, err = parseNullableDate(payDate); err != nil {
			return nil, err
		}
		fees = append(fees, f)
	}
	return fees, rows.Err()
}
