package storage

import (
	"context"
	"database/sql"
	"fmt"

	"kasa/internal/core"
)

// CreateCashExpense records the expense and posts its ledger outflow in
// one transaction; a cash expense is realized money movement the moment it
// is entered.
func (r *Repository) CreateCashExpense(ctx context.Context, exp core.CashExpense) (core.CashExpense, core.LedgerEntry, error) {
	var entry core.LedgerEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO cash_expenses
			   (expense_date, amount, description, category, project, vendor, receipt_name, receipt_note)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			formatDate(exp.ExpenseDate), exp.Amount.String(), exp.Description,
			exp.Category, exp.Project, exp.Vendor, exp.ReceiptName, exp.ReceiptNote)
		if err != nil {
			return fmt.Errorf("insert cash expense: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("cash expense id: %w", err)
		}
		exp.ID = id

		entry, err = core.EntryFromEvent(core.LedgerEvent{
			Kind:          core.KindCashExpense,
			Date:          exp.ExpenseDate,
			Amount:        exp.Amount,
			Category:      exp.Category,
			Project:       exp.Project,
			Description:   exp.Description,
			Source:        "cash",
			ReferenceType: core.RefCashExpense,
			ReferenceID:   id,
		})
		if err != nil {
			return err
		}

		entryID, posted, err := appendLedgerTx(ctx, tx, entry)
		if err != nil {
			return err
		}
		if posted {
			entry.ID = entryID
		}
		return nil
	})
	if err != nil {
		return core.CashExpense{}, core.LedgerEntry{}, err
	}
	return exp, entry, nil
}

func (r *Repository) ListCashExpenses(ctx context.Context) ([]core.CashExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, expense_date, amount, description, category, project, vendor, receipt_name, receipt_note
		   FROM cash_expenses ORDER BY expense_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cash expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.CashExpense
	for rows.Next() {
		var (
			e           core.CashExpense
			expenseDate string
			amount      string
		)
		if err := rows.Scan(&e.ID, &expenseDate, &amount, &e.Description, &e.Category,
			&e.Project, &e.Vendor, &e.ReceiptName, &e.ReceiptNote); err != nil {
			return nil, fmt.Errorf("scan cash expense: %w", err)
		}
		if e.ExpenseDate, err = parseDate(expenseDate); err != nil {
			return nil, err
		}
		if e.Amount, err = parseStoredAmount(amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
