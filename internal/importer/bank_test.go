package importer

import (
	"errors"
	"testing"

	"kasa/internal/core"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"04/01/2026-15:29:07", "2026-01-04"},
		{"31/12/2025", "2025-12-31"},
		{"2025-12-31", "2025-12-31"},
		{"4/1/2026", "2026-01-04"},
		{"04/01/2026 15:29", "2026-01-04"},
		{"2026/01/04", "2026/01/04"},   // year-first does not match d/m/yyyy
		{"04/01/26", "04/01/26"},       // two-digit year passes through
		{"04/01", "04/01"},             // two segments pass through
		{"99/99/2026", "2026-99-99"},   // ranges are not validated
		{"not a date", "not a date"},
	}
	for _, tc := range cases {
		if got := NormalizeDate(tc.in); got != tc.want {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDedupHash(t *testing.T) {
	a := DedupHash("2026-01-04", "Aidat ödemesi", "200.00")
	b := DedupHash("2026-01-04", "Aidat ödemesi", "200.00")
	if a != b {
		t.Fatalf("same inputs produced different hashes: %q vs %q", a, b)
	}
	if a == DedupHash("2026-01-05", "Aidat ödemesi", "200.00") {
		t.Fatal("different dates should produce different hashes")
	}
	for _, r := range a {
		alnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !alnum {
			t.Fatalf("hash contains non-alphanumeric rune %q", r)
		}
	}
}

func TestFindHeaderRow(t *testing.T) {
	rows := [][]string{
		{},
		{""},
		{"Hesap: 123456"},
		{"Tarih/Saat", "Açıklama", "Tutar"},
		{"04/01/2026-15:29:07", "aidat", "200"},
	}
	if got := FindHeaderRow(rows); got != 3 {
		t.Fatalf("header row = %d, want 3", got)
	}

	// no marker anywhere: row 0 is assumed
	plain := [][]string{
		{"col_a", "col_b"},
		{"1", "2"},
	}
	if got := FindHeaderRow(plain); got != 0 {
		t.Fatalf("header row = %d, want 0", got)
	}
}

func TestParseStatementAutoDetect(t *testing.T) {
	rows := [][]string{
		{"Hesap özeti"},
		{},
		{},
		{"Tarih/Saat", "Açıklama", "Tutar", "", "Referans"},
		{"04/01/2026-15:29:07", "aidat Ocak", "200,00", "ignored", "R-1"},
		{"05/01/2026", "malzeme", "-150,50", "", "R-2"},
		{"", "", "", "", ""},
	}
	result, err := ParseStatement(rows, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HeaderRow != 3 {
		t.Fatalf("header row = %d, want 3", result.HeaderRow)
	}
	if len(result.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2", len(result.Transactions))
	}
	if result.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", result.Skipped)
	}

	first := result.Transactions[0]
	if first.TxnDate != "2026-01-04" {
		t.Fatalf("date = %q, want 2026-01-04", first.TxnDate)
	}
	if first.Direction != core.In || first.Amount.String() != "200" {
		t.Fatalf("unexpected first txn: %+v", first)
	}
	if first.Reference != "R-1" {
		t.Fatalf("reference = %q, want R-1", first.Reference)
	}
	if first.ImportHash == "" {
		t.Fatal("import hash must be set")
	}

	second := result.Transactions[1]
	if second.Direction != core.Out {
		t.Fatalf("negative amount should infer direction out, got %s", second.Direction)
	}
	if second.Amount.String() != "150.5" {
		t.Fatalf("amount should be stored absolute, got %s", second.Amount)
	}
}

func TestParseStatementExplicitMapping(t *testing.T) {
	rows := [][]string{
		{"when", "what", "how_much", "way"},
		{"31/12/2025", "kira", "300", "OUT"},
		{"01/01/2026", "bağış", "500", "in"},
	}

	// headers match nothing known: explicit mapping is required
	if _, err := ParseStatement(rows, nil); !errors.Is(err, ErrNoMapping) {
		t.Fatalf("expected ErrNoMapping, got %v", err)
	}

	mapping := &ColumnMapping{Date: "when", Description: "what", Amount: "how_much", Direction: "way"}
	result, err := ParseStatement(rows, mapping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2", len(result.Transactions))
	}
	if result.Transactions[0].Direction != core.Out {
		t.Fatalf("direction column 'OUT' should map to out, got %s", result.Transactions[0].Direction)
	}
	if result.Transactions[1].Direction != core.In {
		t.Fatalf("direction column 'in' should map to in, got %s", result.Transactions[1].Direction)
	}
	if result.Transactions[0].TxnDate != "2025-12-31" {
		t.Fatalf("date = %q, want 2025-12-31", result.Transactions[0].TxnDate)
	}
}

func TestParseStatementMappingValidation(t *testing.T) {
	rows := [][]string{
		{"when", "what", "how_much"},
		{"31/12/2025", "kira", "300"},
	}

	missing := &ColumnMapping{Date: "when", Amount: "how_much"}
	if _, err := ParseStatement(rows, missing); !errors.Is(err, ErrMappingMissing) {
		t.Fatalf("expected ErrMappingMissing, got %v", err)
	}

	wrongColumn := &ColumnMapping{Date: "when", Description: "nope", Amount: "how_much"}
	if _, err := ParseStatement(rows, wrongColumn); !errors.Is(err, ErrMappingMissing) {
		t.Fatalf("expected ErrMappingMissing for unknown column, got %v", err)
	}
}

func TestParseStatementSkipsBadRows(t *testing.T) {
	rows := [][]string{
		{"Tarih", "Açıklama", "Tutar"},
		{"01/02/2026", "ok", "10"},
		{"01/02/2026", "no amount", ""},
		{"", "no date", "10"},
		{"01/02/2026", "bad amount", "n/a"},
	}
	result, err := ParseStatement(rows, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(result.Transactions))
	}
	if result.Skipped != 3 {
		t.Fatalf("skipped = %d, want 3", result.Skipped)
	}
}

func TestParseStatementIsDeterministic(t *testing.T) {
	rows := [][]string{
		{"Tarih", "Açıklama", "Tutar"},
		{"01/02/2026", "aidat", "200"},
		{"02/02/2026", "kira", "-300"},
	}
	a, err := ParseStatement(rows, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ParseStatement(rows, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Transactions) != len(b.Transactions) {
		t.Fatal("two parses of the same grid disagree")
	}
	for i := range a.Transactions {
		if a.Transactions[i].ImportHash != b.Transactions[i].ImportHash {
			t.Fatalf("row %d hash differs between parses", i)
		}
	}
}
