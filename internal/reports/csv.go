package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"kasa/internal/core"
)

// CSV serialization for every report view: a header row of field names,
// then one row per aggregate record. encoding/csv quotes embedded commas
// and quotes in free-text fields.

func PnLCSV(rows []PnLRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Category,
			r.Project,
			core.FormatAmount(r.Income),
			core.FormatAmount(r.Expense),
			core.FormatAmount(r.Net),
		})
	}
	return writeCSV([]string{"category", "project", "income", "expense", "net"}, records)
}

func MemberBalancesCSV(rows []MemberBalance) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.MemberID, 10),
			r.FullName,
			core.FormatAmount(r.FeesOwed),
			core.FormatAmount(r.SalesOwed),
			core.FormatAmount(r.ReimbOwed),
			core.FormatAmount(r.NetBalance),
		})
	}
	return writeCSV([]string{"member_id", "full_name", "fees_owed", "sales_owed", "reimb_owed", "net_balance"}, records)
}

func CashflowCSV(rows []CashflowRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Month,
			core.FormatAmount(r.Inflow),
			core.FormatAmount(r.Outflow),
			core.FormatAmount(r.Net),
		})
	}
	return writeCSV([]string{"month", "inflow", "outflow", "net"}, records)
}

func InventoryCSV(rows []InventoryRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.ProductID, 10),
			r.Name,
			r.Category,
			strconv.Itoa(r.Stock),
			strconv.Itoa(r.TotalSold),
			core.FormatAmount(r.TotalRevenue),
		})
	}
	return writeCSV([]string{"product_id", "name", "category", "stock", "total_sold", "total_revenue"}, records)
}

func writeCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
