// Package reports derives the four reporting views from stored state: P&L
// by category/project, per-member balances, monthly cashflow and inventory.
// Every view is a pure fold over fetched rows, re-derivable at any time;
// nothing here is cached or incrementally maintained.
package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"kasa/internal/core"
)

type PnLRow struct {
	Category string          `json:"category"`
	Project  string          `json:"project"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Net      decimal.Decimal `json:"net"`
}

// ProfitAndLoss groups ledger entries by (category, project). Positive
// amounts accumulate as income, absolute negative amounts as expense.
// Rows come out sorted by category then project, so the result does not
// depend on ledger order.
func ProfitAndLoss(entries []core.LedgerEntry) []PnLRow {
	type key struct{ category, project string }
	groups := make(map[key]*PnLRow)
	for _, e := range entries {
		k := key{e.Category, e.Project}
		row, ok := groups[k]
		if !ok {
			row = &PnLRow{Category: e.Category, Project: e.Project, Income: decimal.Zero, Expense: decimal.Zero}
			groups[k] = row
		}
		if e.Amount.IsNegative() {
			row.Expense = row.Expense.Add(e.Amount.Abs())
		} else {
			row.Income = row.Income.Add(e.Amount)
		}
	}

	rows := make([]PnLRow, 0, len(groups))
	for _, row := range groups {
		row.Net = row.Income.Sub(row.Expense)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Project < rows[j].Project
	})
	return rows
}

type MemberBalance struct {
	MemberID   int64           `json:"member_id"`
	FullName   string          `json:"full_name"`
	FeesOwed   decimal.Decimal `json:"fees_owed"`
	SalesOwed  decimal.Decimal `json:"sales_owed"`
	ReimbOwed  decimal.Decimal `json:"reimb_owed"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// MemberBalances computes what each member owes the team (positive) or is
// owed by it (negative): unpaid fees + unpaid sales − unpaid
// reimbursements. Member names are joined in here, at the aggregator
// boundary. One row per member, in member order.
func MemberBalances(members []core.Member, fees []core.MembershipFee, orders []core.SalesOrder, reimbs []core.Reimbursement) []MemberBalance {
	byMember := make(map[int64]*MemberBalance, len(members))
	rows := make([]MemberBalance, len(members))
	for i, m := range members {
		rows[i] = MemberBalance{
			MemberID:   m.ID,
			FullName:   m.FullName,
			FeesOwed:   decimal.Zero,
			SalesOwed:  decimal.Zero,
			ReimbOwed:  decimal.Zero,
			NetBalance: decimal.Zero,
		}
		byMember[m.ID] = &rows[i]
	}

	for _, f := range fees {
		if f.PaymentStatus != core.Unpaid {
			continue
		}
		if row, ok := byMember[f.MemberID]; ok {
			row.FeesOwed = row.FeesOwed.Add(f.Amount)
		}
	}
	for _, o := range orders {
		if o.PaymentStatus != core.Unpaid {
			continue
		}
		if row, ok := byMember[o.MemberID]; ok {
			row.SalesOwed = row.SalesOwed.Add(o.TotalAmount)
		}
	}
	for _, r := range reimbs {
		if r.PaymentStatus != core.Unpaid {
			continue
		}
		if row, ok := byMember[r.MemberID]; ok {
			row.ReimbOwed = row.ReimbOwed.Add(r.Amount)
		}
	}

	for i := range rows {
		rows[i].NetBalance = rows[i].FeesOwed.Add(rows[i].SalesOwed).Sub(rows[i].ReimbOwed)
	}
	return rows
}

type CashflowRow struct {
	Month   string          `json:"month"` // YYYY-MM
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// MonthlyCashflow groups ledger entries by calendar month of txn_date.
// Months are ordered chronologically by key, not first-seen order. Entries
// whose date cannot yield a YYYY-MM prefix are bucketed under their raw
// date value.
func MonthlyCashflow(entries []core.LedgerEntry) []CashflowRow {
	groups := make(map[string]*CashflowRow)
	for _, e := range entries {
		month := monthKey(e.TxnDate)
		row, ok := groups[month]
		if !ok {
			row = &CashflowRow{Month: month, Inflow: decimal.Zero, Outflow: decimal.Zero}
			groups[month] = row
		}
		if e.Amount.IsNegative() {
			row.Outflow = row.Outflow.Add(e.Amount.Abs())
		} else {
			row.Inflow = row.Inflow.Add(e.Amount)
		}
	}

	rows := make([]CashflowRow, 0, len(groups))
	for _, row := range groups {
		row.Net = row.Inflow.Sub(row.Outflow)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

func monthKey(date string) string {
	if len(date) >= 7 && isDigits(date[:4]) && date[4] == '-' && isDigits(date[5:7]) {
		return date[:7]
	}
	return date
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

type InventoryRow struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Stock        int             `json:"stock"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Inventory reports stock, units sold and revenue per product. Sold
// quantities count items from every order regardless of payment status;
// see DESIGN.md for why that stands.
func Inventory(products []core.Product, items []core.SalesOrderItem) []InventoryRow {
	byProduct := make(map[int64]*InventoryRow, len(products))
	rows := make([]InventoryRow, len(products))
	for i, p := range products {
		rows[i] = InventoryRow{
			ProductID:    p.ID,
			Name:         p.Name,
			Category:     p.Category,
			Stock:        p.StockQuantity,
			TotalRevenue: decimal.Zero,
		}
		byProduct[p.ID] = &rows[i]
	}
	for _, it := range items {
		if row, ok := byProduct[it.ProductID]; ok {
			row.TotalSold += it.Quantity
			row.TotalRevenue = row.TotalRevenue.Add(it.LineTotal)
		}
	}
	return rows
}
