package importer

import (
	"errors"
	"fmt"
	"strings"

	"kasa/internal/core"
)

// headerScanLimit bounds how many leading rows are inspected when looking
// for the header row. Bank exports often carry account info and blank rows
// above the actual table.
const headerScanLimit = 25

// headerMarkers are date-column labels that identify the header row, in
// both supported vocabularies.
var headerMarkers = map[string]bool{
	"tarih":        true,
	"tarih/saat":   true,
	"islem tarihi": true,
	"date":         true,
}

// Default header names per canonical field, used for mapping auto-detection.
var defaultColumns = map[string][]string{
	"date":         {"Tarih/Saat", "Tarih", "Date"},
	"description":  {"Açıklama", "Aciklama", "Description"},
	"amount":       {"Tutar", "Amount"},
	"direction":    {"Yön", "Yon", "Direction"},
	"counterparty": {"Karşı Taraf", "Karsi Taraf", "Counterparty"},
	"reference":    {"Referans", "Reference"},
}

var (
	ErrNoMapping      = errors.New("column mapping required: headers do not match known defaults")
	ErrMappingMissing = errors.New("column mapping must name date, description and amount columns")
	ErrEmptyStatement = errors.New("statement has no data rows")
)

// ColumnMapping names the source columns for each canonical transaction
// field. Date, Description and Amount are mandatory; the rest optional.
type ColumnMapping struct {
	Date         string `json:"date"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Direction    string `json:"direction,omitempty"`
	Counterparty string `json:"counterparty,omitempty"`
	Reference    string `json:"reference,omitempty"`
}

func (m ColumnMapping) Validate() error {
	if m.Date == "" || m.Description == "" || m.Amount == "" {
		return ErrMappingMissing
	}
	return nil
}

// StatementResult is the outcome of parsing one bank statement grid.
type StatementResult struct {
	Transactions []core.BankTransaction
	HeaderRow    int
	Mapping      ColumnMapping
	Skipped      int // rows dropped: empty, zero amount, or no parseable amount/date cell
}

// FindHeaderRow scans the first rows of the grid for one containing a
// recognized date-column label and returns its index. Falls back to 0.
func FindHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if headerMarkers[strings.ToLower(strings.TrimSpace(cell))] {
				return i
			}
		}
	}
	return 0
}

// DetectMapping tries to build a full mapping from headers that exactly
// match the known default column names. Reports false when the mandatory
// fields cannot all be matched.
func DetectMapping(headers []string) (ColumnMapping, bool) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}
	pick := func(field string) string {
		for _, name := range defaultColumns[field] {
			if present[name] {
				return name
			}
		}
		return ""
	}
	m := ColumnMapping{
		Date:         pick("date"),
		Description:  pick("description"),
		Amount:       pick("amount"),
		Direction:    pick("direction"),
		Counterparty: pick("counterparty"),
		Reference:    pick("reference"),
	}
	return m, m.Validate() == nil
}

// ParseStatement turns a raw spreadsheet grid into bank transactions.
// When mapping is nil the column mapping is auto-detected from the header
// row; if auto-detection fails, ErrNoMapping is returned and the caller
// must supply an explicit mapping.
//
// Dates are normalized (see NormalizeDate), amounts stored as absolute
// values with an in/out direction, and every transaction carries its
// dedup hash. Deduplication against stored rows happens at insert time.
func ParseStatement(rows [][]string, mapping *ColumnMapping) (StatementResult, error) {
	if len(rows) == 0 {
		return StatementResult{}, ErrEmptyStatement
	}

	headerIdx := FindHeaderRow(rows)
	header := rows[headerIdx]

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue // blank header cells are ignored
		}
		if _, dup := colIndex[name]; !dup {
			colIndex[name] = i
		}
	}

	var m ColumnMapping
	if mapping != nil {
		m = *mapping
		if err := m.Validate(); err != nil {
			return StatementResult{}, err
		}
	} else {
		detected, ok := DetectMapping(header)
		if !ok {
			return StatementResult{}, ErrNoMapping
		}
		m = detected
	}
	for _, required := range []string{m.Date, m.Description, m.Amount} {
		if _, ok := colIndex[required]; !ok {
			return StatementResult{}, fmt.Errorf("%w: column %q not found", ErrMappingMissing, required)
		}
	}

	result := StatementResult{HeaderRow: headerIdx, Mapping: m}
	cell := func(row []string, column string) string {
		idx, ok := colIndex[column]
		if !ok || column == "" || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for _, row := range rows[headerIdx+1:] {
		populated := 0
		for _, name := range header {
			if cell(row, strings.TrimSpace(name)) != "" {
				populated++
			}
		}
		if populated == 0 {
			result.Skipped++
			continue
		}

		rawDate := cell(row, m.Date)
		rawAmount := cell(row, m.Amount)
		if rawDate == "" || rawAmount == "" {
			result.Skipped++
			continue
		}
		amount, err := core.ParseSignedAmount(rawAmount)
		if err != nil || amount.IsZero() {
			result.Skipped++
			continue
		}

		direction := core.In
		if dirCell := cell(row, m.Direction); dirCell != "" {
			if strings.Contains(strings.ToLower(dirCell), "out") {
				direction = core.Out
			}
		} else if amount.IsNegative() {
			direction = core.Out
		}

		date := NormalizeDate(rawDate)
		description := cell(row, m.Description)
		abs := amount.Abs()

		result.Transactions = append(result.Transactions, core.BankTransaction{
			TxnDate:      date,
			Description:  description,
			Amount:       abs,
			Direction:    direction,
			Counterparty: cell(row, m.Counterparty),
			Reference:    cell(row, m.Reference),
			ImportHash:   DedupHash(date, description, abs.String()),
		})
	}
	return result, nil
}

// NormalizeDate rewrites slash-separated day/month/year dates to ISO form.
// A trailing time component after "-" or space is stripped first. Anything
// that does not look like d/m/yyyy passes through unchanged; day and month
// ranges are not validated.
//
//	"04/01/2026-15:29:07" -> "2026-01-04"
//	"31/12/2025"          -> "2025-12-31"
//	"2025-12-31"          -> "2025-12-31"
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		return s
	}
	datePart := s
	if i := strings.IndexAny(s, "- "); i >= 0 {
		datePart = s[:i]
	}
	seg := strings.Split(datePart, "/")
	if len(seg) != 3 {
		return s
	}
	day, month, year := seg[0], seg[1], seg[2]
	if len(day) == 0 || len(day) > 2 || len(month) == 0 || len(month) > 2 || len(year) != 4 {
		return s
	}
	return year + "-" + pad2(month) + "-" + pad2(day)
}

// DedupHash derives the duplicate-detection key for a bank row from its
// normalized date, description and absolute amount, keeping only
// alphanumeric characters.
func DedupHash(date, description, amount string) string {
	var b strings.Builder
	for _, r := range date + description + amount {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
