package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kasa/internal/config"
	"kasa/internal/core"
	"kasa/internal/fees"
	"kasa/internal/log"
	"kasa/internal/services"
)

// fakeStore is an in-memory record store backing the handler tests. It
// enforces the same uniqueness rules as the real store: one fee per
// member/month, one ledger entry per reference, one bank row per hash.
type fakeStore struct {
	members  map[int64]core.Member
	products map[int64]core.Product
	orders   map[int64]core.SalesOrder
	fees     map[int64]core.MembershipFee
	reimbs   map[int64]core.Reimbursement
	expenses map[int64]core.CashExpense
	bank     map[string]core.BankTransaction
	ledger   []core.LedgerEntry
	settings core.Settings
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:  make(map[int64]core.Member),
		products: make(map[int64]core.Product),
		orders:   make(map[int64]core.SalesOrder),
		fees:     make(map[int64]core.MembershipFee),
		reimbs:   make(map[int64]core.Reimbursement),
		expenses: make(map[int64]core.CashExpense),
		bank:     make(map[string]core.BankTransaction),
		settings: core.Settings{FeeAmount: decimal.NewFromInt(200)},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) appendEntry(ev core.LedgerEvent) (core.LedgerEntry, error) {
	entry, err := core.EntryFromEvent(ev)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	for _, e := range f.ledger {
		if e.ReferenceType == entry.ReferenceType && e.ReferenceID == entry.ReferenceID {
			return e, nil
		}
	}
	entry.ID = f.id()
	f.ledger = append(f.ledger, entry)
	return entry, nil
}

func (f *fakeStore) CreateMember(_ context.Context, m core.Member) (core.Member, error) {
	m.ID = f.id()
	f.members[m.ID] = m
	return m, nil
}

func (f *fakeStore) CreateMembers(_ context.Context, members []core.Member) (int, error) {
	for _, m := range members {
		m.ID = f.id()
		f.members[m.ID] = m
	}
	return len(members), nil
}

func (f *fakeStore) GetMember(_ context.Context, id int64) (core.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return core.Member{}, core.ErrNotFound
	}
	return m, nil
}

func (f *fakeStore) ListMembers(_ context.Context) ([]core.Member, error) {
	out := make([]core.Member, 0, len(f.members))
	for id := int64(1); id <= f.nextID; id++ {
		if m, ok := f.members[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) ListMemberNames(ctx context.Context) ([]string, error) {
	members, _ := f.ListMembers(ctx)
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.FullName)
	}
	return names, nil
}

func (f *fakeStore) UpdateMember(_ context.Context, m core.Member) error {
	if _, ok := f.members[m.ID]; !ok {
		return core.ErrNotFound
	}
	f.members[m.ID] = m
	return nil
}

func (f *fakeStore) SetMemberLeaveDate(_ context.Context, id int64, leaveDate time.Time) error {
	m, ok := f.members[id]
	if !ok {
		return core.ErrNotFound
	}
	m.LeaveDate = &leaveDate
	f.members[id] = m
	return nil
}

func (f *fakeStore) CreateProduct(_ context.Context, p core.Product) (core.Product, error) {
	p.ID = f.id()
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id int64) (core.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return core.Product{}, core.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListProducts(_ context.Context) ([]core.Product, error) {
	out := make([]core.Product, 0, len(f.products))
	for id := int64(1); id <= f.nextID; id++ {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, p core.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return core.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order core.SalesOrder) (core.SalesOrder, error) {
	order.ID = f.id()
	for i := range order.Items {
		order.Items[i].ID = f.id()
		p := f.products[order.Items[i].ProductID]
		p.StockQuantity -= order.Items[i].Quantity
		f.products[p.ID] = p
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeStore) MarkOrderPaid(_ context.Context, orderID int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return core.LedgerEntry{}, core.ErrNotFound
	}
	if o.PaymentStatus == core.Paid {
		return core.LedgerEntry{}, core.ErrAlreadyPaid
	}
	o.PaymentStatus = core.Paid
	o.PaymentMethod = method
	f.orders[orderID] = o
	return f.appendEntry(core.LedgerEvent{
		Kind:          core.KindMerchSale,
		Date:          payDate,
		Amount:        o.TotalAmount,
		MemberID:      &o.MemberID,
		ReferenceType: core.RefSalesOrder,
		ReferenceID:   orderID,
	})
}

func (f *fakeStore) GetOrder(_ context.Context, id int64) (core.SalesOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return core.SalesOrder{}, core.ErrNotFound
	}
	return o, nil
}

func (f *fakeStore) ListOrders(_ context.Context) ([]core.SalesOrder, error) {
	out := make([]core.SalesOrder, 0, len(f.orders))
	for id := int64(1); id <= f.nextID; id++ {
		if o, ok := f.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAllOrderItems(ctx context.Context) ([]core.SalesOrderItem, error) {
	orders, _ := f.ListOrders(ctx)
	var items []core.SalesOrderItem
	for _, o := range orders {
		items = append(items, o.Items...)
	}
	return items, nil
}

func (f *fakeStore) UpsertFee(_ context.Context, fee core.MembershipFee) (bool, error) {
	for _, existing := range f.fees {
		if existing.MemberID == fee.MemberID && existing.FeeMonth.Equal(fee.FeeMonth) {
			return false, nil
		}
	}
	fee.ID = f.id()
	f.fees[fee.ID] = fee
	return true, nil
}

func (f *fakeStore) MarkFeePaid(_ context.Context, feeID int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	fee, ok := f.fees[feeID]
	if !ok {
		return core.LedgerEntry{}, core.ErrNotFound
	}
	if fee.PaymentStatus == core.Paid {
		return core.LedgerEntry{}, core.ErrAlreadyPaid
	}
	fee.PaymentStatus = core.Paid
	fee.PaymentMethod = method
	fee.PaymentDate = &payDate
	f.fees[feeID] = fee
	return f.appendEntry(core.LedgerEvent{
		Kind:          core.KindMembershipFeePayment,
		Date:          payDate,
		Amount:        fee.Amount,
		MemberID:      &fee.MemberID,
		ReferenceType: core.RefMembershipFee,
		ReferenceID:   feeID,
	})
}

func (f *fakeStore) ListFees(_ context.Context, month *time.Time) ([]core.MembershipFee, error) {
	out := make([]core.MembershipFee, 0, len(f.fees))
	for id := int64(1); id <= f.nextID; id++ {
		fee, ok := f.fees[id]
		if !ok {
			continue
		}
		if month != nil && !fee.FeeMonth.Equal(core.MonthStart(*month)) {
			continue
		}
		out = append(out, fee)
	}
	return out, nil
}

func (f *fakeStore) CreateReimbursement(_ context.Context, r core.Reimbursement) (core.Reimbursement, error) {
	r.ID = f.id()
	f.reimbs[r.ID] = r
	return r, nil
}

func (f *fakeStore) MarkReimbursementPaid(_ context.Context, id int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	rb, ok := f.reimbs[id]
	if !ok {
		return core.LedgerEntry{}, core.ErrNotFound
	}
	if rb.PaymentStatus == core.Paid {
		return core.LedgerEntry{}, core.ErrAlreadyPaid
	}
	rb.PaymentStatus = core.Paid
	rb.PaymentMethod = method
	rb.PaymentDate = &payDate
	f.reimbs[id] = rb
	return f.appendEntry(core.LedgerEvent{
		Kind:          core.KindReimbursementPayment,
		Date:          payDate,
		Amount:        rb.Amount,
		MemberID:      &rb.MemberID,
		Category:      rb.Category,
		Project:       rb.Project,
		ReferenceType: core.RefReimbursement,
		ReferenceID:   id,
	})
}

func (f *fakeStore) ListReimbursements(_ context.Context) ([]core.Reimbursement, error) {
	out := make([]core.Reimbursement, 0, len(f.reimbs))
	for id := int64(1); id <= f.nextID; id++ {
		if rb, ok := f.reimbs[id]; ok {
			out = append(out, rb)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateCashExpense(_ context.Context, e core.CashExpense) (core.CashExpense, core.LedgerEntry, error) {
	e.ID = f.id()
	f.expenses[e.ID] = e
	entry, err := f.appendEntry(core.LedgerEvent{
		Kind:          core.KindCashExpense,
		Date:          e.ExpenseDate,
		Amount:        e.Amount,
		Category:      e.Category,
		Project:       e.Project,
		Description:   e.Description,
		ReferenceType: core.RefCashExpense,
		ReferenceID:   e.ID,
	})
	if err != nil {
		return core.CashExpense{}, core.LedgerEntry{}, err
	}
	return e, entry, nil
}

func (f *fakeStore) ListCashExpenses(_ context.Context) ([]core.CashExpense, error) {
	out := make([]core.CashExpense, 0, len(f.expenses))
	for id := int64(1); id <= f.nextID; id++ {
		if e, ok := f.expenses[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertBankTransactions(_ context.Context, txns []core.BankTransaction, filename, batchID string) ([]core.BankTransaction, int, error) {
	var inserted []core.BankTransaction
	skipped := 0
	for _, txn := range txns {
		if _, dup := f.bank[txn.ImportHash]; dup {
			skipped++
			continue
		}
		txn.ID = f.id()
		txn.ImportFilename = filename
		txn.ImportBatchID = batchID
		f.bank[txn.ImportHash] = txn
		inserted = append(inserted, txn)
		if _, err := f.appendEntry(core.LedgerEvent{
			Kind:          core.KindBankTransaction,
			RawDate:       txn.TxnDate,
			Amount:        txn.Amount,
			Direction:     txn.Direction,
			Description:   txn.Description,
			Source:        "bank_import",
			ReferenceType: core.RefBankTransaction,
			ReferenceID:   txn.ID,
		}); err != nil {
			return nil, 0, err
		}
	}
	return inserted, skipped, nil
}

func (f *fakeStore) ListBankTransactions(_ context.Context) ([]core.BankTransaction, error) {
	out := make([]core.BankTransaction, 0, len(f.bank))
	for _, txn := range f.bank {
		out = append(out, txn)
	}
	return out, nil
}

func (f *fakeStore) ListLedgerEntries(_ context.Context) ([]core.LedgerEntry, error) {
	return f.ledger, nil
}

func (f *fakeStore) GetSettings(_ context.Context) (core.Settings, error) {
	return f.settings, nil
}

func (f *fakeStore) UpdateSettings(_ context.Context, s core.Settings) error {
	if !s.FeeAmount.IsPositive() {
		return core.ErrInvalidAmount
	}
	f.settings = s
	return nil
}

const (
	testUser = "admin"
	testPass = "s3cret"
)

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	cfg := &config.Config{
		Port:           "8082",
		AdminUser:      testUser,
		AdminPassword:  testPass,
		MaxUploadBytes: 1 << 20,
	}
	logger := log.New(slog.LevelError, log.ComponentHTTP)
	srv := NewServer(cfg, store,
		services.NewOrderService(store, nil),
		services.NewPaymentService(store, nil),
		services.NewImportService(store, logger),
		fees.NewGenerator(store, store),
		logger)
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.SetBasicAuth(testUser, testPass)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestServer_RequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.SetBasicAuth(testUser, "wrong")
	rec = httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status with bad password = %d, want 401", rec.Code)
	}
}

func TestServer_HealthOpen(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}

func TestServer_MemberLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/members", memberPayload{
		FullName: "Ayşe Demir",
		Team:     "A",
		JoinDate: "2025-09-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[memberResponse](t, rec)
	if created.ID == 0 || created.FullName != "Ayşe Demir" {
		t.Errorf("created = %+v", created)
	}

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/members/%d/leave", created.ID), map[string]string{"leave_date": "2026-02-01"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("leave status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/members/%d", created.ID), nil)
	got := decodeBody[memberResponse](t, rec)
	if got.LeaveDate != "2026-02-01" {
		t.Errorf("leave date = %q, want 2026-02-01", got.LeaveDate)
	}
}

func TestServer_CreateMember_Invalid(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/members", memberPayload{FullName: "   "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_OrderFlow(t *testing.T) {
	srv, store := newTestServer(t)

	member, _ := store.CreateMember(context.Background(), core.Member{FullName: "Ali Veli", JoinDate: core.NewDate(2025, 9, 1)})
	forma, _ := store.CreateProduct(context.Background(), core.Product{Name: "Forma", UnitPrice: decimal.NewFromInt(50), StockQuantity: 10})
	bere, _ := store.CreateProduct(context.Background(), core.Product{Name: "Bere", UnitPrice: decimal.NewFromInt(30), StockQuantity: 5})

	rec := doJSON(t, srv, http.MethodPost, "/api/orders", orderPayload{
		MemberID:  member.ID,
		OrderDate: "2026-01-10",
		Items: []services.OrderRequest{
			{ProductID: forma.ID, Quantity: 2},
			{ProductID: bere.ID, Quantity: 1},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order status = %d: %s", rec.Code, rec.Body.String())
	}
	order := decodeBody[orderResponse](t, rec)
	if order.TotalAmount != "130.00" {
		t.Errorf("total = %q, want 130.00", order.TotalAmount)
	}
	if p, _ := store.GetProduct(context.Background(), forma.ID); p.StockQuantity != 8 {
		t.Errorf("stock after sale = %d, want 8", p.StockQuantity)
	}

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/orders/%d/pay", order.ID), payPayload{PaymentMethod: "cash", PaymentDate: "2026-01-15"})
	if rec.Code != http.StatusOK {
		t.Fatalf("pay status = %d: %s", rec.Code, rec.Body.String())
	}
	entry := decodeBody[ledgerEntryResponse](t, rec)
	if entry.Kind != "merch_sale" || entry.Amount != "130.00" {
		t.Errorf("ledger entry = %+v", entry)
	}

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/orders/%d/pay", order.ID), payPayload{PaymentMethod: "cash"})
	if rec.Code != http.StatusConflict {
		t.Errorf("second pay status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_FeeGeneration_UsesSettingsAmount(t *testing.T) {
	srv, store := newTestServer(t)

	store.CreateMember(context.Background(), core.Member{FullName: "Ali Veli", JoinDate: core.NewDate(2025, 9, 1)})
	store.CreateMember(context.Background(), core.Member{FullName: "Ayşe Demir", JoinDate: core.NewDate(2025, 9, 1)})

	rec := doJSON(t, srv, http.MethodPost, "/api/fees/generate", map[string]string{"month": "2026-01"})
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[fees.Result](t, rec)
	if result.Candidates != 2 || result.Created != 2 {
		t.Errorf("result = %+v, want 2/2", result)
	}

	// rerun is a no-op
	rec = doJSON(t, srv, http.MethodPost, "/api/fees/generate", map[string]string{"month": "2026-01"})
	result = decodeBody[fees.Result](t, rec)
	if result.Created != 0 {
		t.Errorf("rerun created = %d, want 0", result.Created)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/fees?month=2026-01", nil)
	listed := decodeBody[[]feeResponse](t, rec)
	if len(listed) != 2 || listed[0].Amount != "200.00" {
		t.Errorf("fees = %+v, want two rows of 200.00", listed)
	}
}

func TestServer_MemberImport(t *testing.T) {
	srv, store := newTestServer(t)
	store.CreateMember(context.Background(), core.Member{FullName: "Ali Veli", JoinDate: core.NewDate(2025, 9, 1)})

	body := strings.NewReader(`[{"full_name": "Ali Veli"}, {"isim": "Ayşe Demir", "takım": "B"}]`)
	req := httptest.NewRequest(http.MethodPost, "/api/members/import", body)
	req.SetBasicAuth(testUser, testPass)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	summary := decodeBody[services.MemberImportSummary](t, rec)
	if summary.Received != 2 || summary.Created != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want received 2 created 1 skipped 1", summary)
	}
	names, _ := store.ListMemberNames(context.Background())
	if len(names) != 2 {
		t.Errorf("member names = %v, want 2", names)
	}
}

func TestServer_BankImport(t *testing.T) {
	srv, store := newTestServer(t)

	statement := "Tarih/Saat,Açıklama,Tutar,Yön\n" +
		"04/01/2026-15:29:07,Aidat Ocak,\"200,00\",Gelen\n" +
		"05/01/2026-09:10:11,Kira,\"-150,50\",Giden (out)\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "ocak.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(statement)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/bank/import", &buf)
	req.SetBasicAuth(testUser, testPass)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	summary := decodeBody[services.BankImportSummary](t, rec)
	if summary.Inserted != 2 || summary.Duplicates != 0 {
		t.Errorf("summary = %+v, want 2 inserted", summary)
	}

	entries, _ := store.ListLedgerEntries(context.Background())
	if len(entries) != 2 {
		t.Fatalf("ledger entries = %d, want 2", len(entries))
	}
	var net decimal.Decimal
	for _, e := range entries {
		net = net.Add(e.Amount)
	}
	if net.StringFixed(2) != "49.50" {
		t.Errorf("net = %s, want 49.50", net.StringFixed(2))
	}
}

func TestServer_Reports(t *testing.T) {
	srv, store := newTestServer(t)

	member, _ := store.CreateMember(context.Background(), core.Member{FullName: "Ali Veli", JoinDate: core.NewDate(2025, 9, 1)})
	store.UpsertFee(context.Background(), core.MembershipFee{
		MemberID:      member.ID,
		FeeMonth:      core.NewDate(2026, 1, 1),
		Amount:        decimal.NewFromInt(200),
		PaymentStatus: core.Unpaid,
	})
	store.CreateCashExpense(context.Background(), core.CashExpense{
		ExpenseDate: core.NewDate(2026, 1, 12),
		Amount:      decimal.RequireFromString("49.90"),
		Description: "kırtasiye",
		Category:    "malzeme",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/reports/balances", nil)
	balances := decodeBody[[]map[string]any](t, rec)
	if len(balances) != 1 {
		t.Fatalf("balances rows = %d, want 1", len(balances))
	}
	if got := balances[0]["net_balance"]; got != "200" {
		t.Errorf("net_balance = %v, want 200", got)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/reports/pnl?format=csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pnl csv status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	if !strings.Contains(rec.Body.String(), "malzeme") {
		t.Errorf("csv missing expense category: %q", rec.Body.String())
	}
}

func TestServer_UnknownIDsReturn404(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/members/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("member 999 status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/fees/999/pay", payPayload{PaymentMethod: "cash"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("fee 999 pay status = %d, want 404", rec.Code)
	}
}
