package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kasa/internal/core"
)

func (r *Repository) CreateReimbursement(ctx context.Context, reimb core.Reimbursement) (core.Reimbursement, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reimbursements
		   (member_id, purchase_date, vendor, description, amount, category, project, payment_status, receipt_name, receipt_note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reimb.MemberID, formatDate(reimb.PurchaseDate), reimb.Vendor, reimb.Description,
		reimb.Amount.String(), reimb.Category, reimb.Project, string(core.Unpaid),
		reimb.ReceiptName, reimb.ReceiptNote)
	if err != nil {
		return core.Reimbursement{}, fmt.Errorf("insert reimbursement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Reimbursement{}, fmt.Errorf("reimbursement id: %w", err)
	}
	reimb.ID = id
	reimb.PaymentStatus = core.Unpaid
	return reimb, nil
}

// MarkReimbursementPaid flips the reimbursement to paid and posts the
// outflow to the ledger in the same transaction.
func (r *Repository) MarkReimbursementPaid(ctx context.Context, reimbID int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	var entry core.LedgerEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var (
			memberID    int64
			description string
			amount      string
			category    string
			project     string
			status      string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT member_id, description, amount, category, project, payment_status
			   FROM reimbursements WHERE id = ?`, reimbID).
			Scan(&memberID, &description, &amount, &category, &project, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load reimbursement %d: %w", reimbID, err)
		}
		if core.PaymentStatus(status) == core.Paid {
			return core.ErrAlreadyPaid
		}

		reimbAmount, err := parseStoredAmount(amount)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE reimbursements SET payment_status = ?, payment_method = ?, payment_date = ? WHERE id = ?`,
			string(core.Paid), method, formatDate(payDate), reimbID); err != nil {
			return fmt.Errorf("mark reimbursement %d paid: %w", reimbID, err)
		}

		entry, err = core.EntryFromEvent(core.LedgerEvent{
			Kind:          core.KindReimbursementPayment,
			Date:          payDate,
			Amount:        reimbAmount,
			MemberID:      &memberID,
			Category:      category,
			Project:       project,
			Description:   description,
			Source:        "reimbursements",
			ReferenceType: core.RefReimbursement,
			ReferenceID:   reimbID,
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

func (r *Repository) ListReimbursements(ctx context.Context) ([]core.Reimbursement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, purchase_date, vendor, description, amount, category, project,
		        payment_status, payment_method, payment_date, receipt_name, receipt_note
		   FROM reimbursements ORDER BY purchase_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reimbursements: %w", err)
	}
	defer rows.Close()

	var reimbs []core.Reimbursement
	for rows.Next() {
		var (
			rb           core.Reimbursement
			purchaseDate string
			amount       string
			status       string
			payDate      sql.NullString
		)
		if err := rows.Scan(&rb.ID, &rb.MemberID, &purchaseDate, &rb.Vendor, &rb.Description,
			&amount, &rb.Category, &rb.Project, &status, &rb.PaymentMethod, &payDate,
			&rb.ReceiptName, &rb.ReceiptNote); err != nil {
			return nil, fmt.Errorf("scan reimbursement: %w", err)
		}
		if rb.PurchaseDate, err = parseDate(purchaseDate); err != nil {
			return nil, err
		}
		if rb.Amount, err = parseStoredAmount(amount); err != nil {
			return nil, err
		}
		rb.PaymentStatus = core.PaymentStatus(status)
		if rb.PaymentDate, err = parseNullableDate(payDate); err != nil {
			return nil, err
		}
		reimbs = append(reimbs, rb)
	}
	return reimbs, rows.Err()
}
