package fees

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kasa/internal/core"
)

// fakeStore mimics the store's unique constraint on (member_id, fee_month).
type fakeStore struct {
	members []core.Member
	fees    map[string]core.MembershipFee
	failOn  int64
}

func newFakeStore(members ...core.Member) *fakeStore {
	return &fakeStore{members: members, fees: make(map[string]core.MembershipFee)}
}

func (f *fakeStore) ListMembers(ctx context.Context) ([]core.Member, error) {
	return f.members, nil
}

func (f *fakeStore) UpsertFee(ctx context.Context, fee core.MembershipFee) (bool, error) {
	if f.failOn != 0 && fee.MemberID == f.failOn {
		return false, fmt.Errorf("store failure")
	}
	key := fmt.Sprintf("%d|%s", fee.MemberID, fee.FeeMonth.Format("2006-01-02"))
	if _, exists := f.fees[key]; exists {
		return false, nil
	}
	f.fees[key] = fee
	return true, nil
}

func member(id int64, join time.Time, leave *time.Time) core.Member {
	return core.Member{ID: id, FullName: fmt.Sprintf("member %d", id), JoinDate: join, LeaveDate: leave}
}

func TestGenerateSelectsActiveMembers(t *testing.T) {
	leftInMay := core.NewDate(2025, 5, 10)
	leftLongAgo := core.NewDate(2024, 12, 31)
	store := newFakeStore(
		member(1, core.NewDate(2024, 1, 1), nil),          // active
		member(2, core.NewDate(2025, 5, 20), nil),         // joins mid-month
		member(3, core.NewDate(2025, 6, 1), nil),          // joins after month
		member(4, core.NewDate(2024, 1, 1), &leftInMay),   // leaves mid-month, still active
		member(5, core.NewDate(2024, 1, 1), &leftLongAgo), // gone
	)

	g := NewGenerator(store, store)
	result, err := g.Generate(context.Background(), core.NewDate(2025, 5, 15), decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Candidates != 3 {
		t.Fatalf("candidates = %d, want 3", result.Candidates)
	}
	if result.Created != 3 {
		t.Fatalf("created = %d, want 3", result.Created)
	}
	if len(store.fees) != 3 {
		t.Fatalf("stored fees = %d, want 3", len(store.fees))
	}
	for _, fee := range store.fees {
		if !fee.FeeMonth.Equal(core.NewDate(2025, 5, 1)) {
			t.Fatalf("fee month not normalized to first of month: %v", fee.FeeMonth)
		}
		if fee.PaymentStatus != core.Unpaid {
			t.Fatalf("new fee should be unpaid, got %s", fee.PaymentStatus)
		}
		if fee.Amount.String() != "200" {
			t.Fatalf("fee amount = %s, want 200", fee.Amount)
		}
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	store := newFakeStore(
		member(1, core.NewDate(2024, 1, 1), nil),
		member(2, core.NewDate(2024, 1, 1), nil),
	)
	g := NewGenerator(store, store)
	month := core.NewDate(2025, 6, 1)
	amount := decimal.NewFromInt(200)

	first, err := g.Generate(context.Background(), month, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Created != 2 {
		t.Fatalf("first run created = %d, want 2", first.Created)
	}

	second, err := g.Generate(context.Background(), month, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Created != 0 {
		t.Fatalf("second run created = %d, want 0", second.Created)
	}
	if second.Candidates != 2 {
		t.Fatalf("second run candidates = %d, want 2", second.Candidates)
	}
	if len(store.fees) != 2 {
		t.Fatalf("stored fees = %d, want 2 after both runs", len(store.fees))
	}
}

func TestGenerateNeverTouchesExistingFees(t *testing.T) {
	store := newFakeStore(member(1, core.NewDate(2024, 1, 1), nil))
	month := core.NewDate(2025, 6, 1)

	// an already-paid fee for the month
	paidDate := core.NewDate(2025, 6, 3)
	store.fees["1|2025-06-01"] = core.MembershipFee{
		MemberID:      1,
		FeeMonth:      month,
		Amount:        decimal.NewFromInt(150),
		PaymentStatus: core.Paid,
		PaymentDate:   &paidDate,
	}

	g := NewGenerator(store, store)
	result, err := g.Generate(context.Background(), month, decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 0 {
		t.Fatalf("created = %d, want 0", result.Created)
	}
	kept := store.fees["1|2025-06-01"]
	if kept.PaymentStatus != core.Paid || kept.Amount.String() != "150" {
		t.Fatalf("existing paid fee was modified: %+v", kept)
	}
}

func TestGenerateRejectsBadAmount(t *testing.T) {
	store := newFakeStore(member(1, core.NewDate(2024, 1, 1), nil))
	g := NewGenerator(store, store)
	if _, err := g.Generate(context.Background(), core.NewDate(2025, 6, 1), decimal.Zero); err == nil {
		t.Fatal("expected error for zero fee amount")
	}
}

func TestGeneratePropagatesStoreError(t *testing.T) {
	store := newFakeStore(
		member(1, core.NewDate(2024, 1, 1), nil),
		member(2, core.NewDate(2024, 1, 1), nil),
	)
	store.failOn = 2
	g := NewGenerator(store, store)
	if _, err := g.Generate(context.Background(), core.NewDate(2025, 6, 1), decimal.NewFromInt(200)); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
