package reports

import (
	"encoding/csv"
	"strings"
	"testing"

	"kasa/internal/core"
)

func TestPnLCSV(t *testing.T) {
	rows := ProfitAndLoss([]core.LedgerEntry{
		{Amount: amt("200"), Category: "aidat", Project: "genel"},
		{Amount: amt("-50"), Category: "malzeme", Project: "turnuva"},
	})
	out, err := PnLCSV(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(parsed))
	}
	if parsed[0][0] != "category" || parsed[0][4] != "net" {
		t.Fatalf("unexpected header: %v", parsed[0])
	}
	if parsed[1][2] != "200.00" {
		t.Fatalf("income cell = %q, want 200.00", parsed[1][2])
	}
}

func TestMemberBalancesCSVEscapesFreeText(t *testing.T) {
	rows := MemberBalances([]core.Member{{ID: 1, FullName: `Ali "Kaptan" Veli, Jr.`}}, nil, nil, nil)
	out, err := MemberBalancesCSV(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("embedded comma/quote broke the csv: %v", err)
	}
	if parsed[1][1] != `Ali "Kaptan" Veli, Jr.` {
		t.Fatalf("name did not round-trip: %q", parsed[1][1])
	}
}

func TestCashflowCSV(t *testing.T) {
	out, err := CashflowCSV(MonthlyCashflow([]core.LedgerEntry{
		{TxnDate: "2025-05-02", Amount: amt("200")},
		{TxnDate: "2025-05-09", Amount: amt("-300")},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "month,inflow,outflow,net\n") {
		t.Fatalf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "2025-05,200.00,300.00,-100.00") {
		t.Fatalf("row missing from output: %q", text)
	}
}

func TestInventoryCSV(t *testing.T) {
	out, err := InventoryCSV(Inventory(
		[]core.Product{{ID: 1, Name: "Forma", Category: "giyim", StockQuantity: 8}},
		[]core.SalesOrderItem{{ProductID: 1, Quantity: 2, LineTotal: amt("100")}},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "1,Forma,giyim,8,2,100.00") {
		t.Fatalf("row missing from output: %q", string(out))
	}
}
