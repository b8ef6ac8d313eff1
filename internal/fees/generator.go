// Package fees generates monthly membership fee rows for active members.
package fees

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"kasa/internal/core"
)

// MemberSource lists members considered for fee generation.
type MemberSource interface {
	ListMembers(ctx context.Context) ([]core.Member, error)
}

// FeeStore persists fee rows. Upsert must rely on the store's unique
// constraint on (member_id, fee_month): an existing row is left untouched
// and reported as not inserted, never overwritten.
type FeeStore interface {
	UpsertFee(ctx context.Context, fee core.MembershipFee) (inserted bool, err error)
}

// Result reports a generation run. Candidates counts members considered;
// Created counts rows actually inserted. Re-running the same month changes
// nothing and yields Created == 0.
type Result struct {
	Candidates int `json:"candidates"`
	Created    int `json:"created"`
}

type Generator struct {
	members MemberSource
	store   FeeStore
}

func NewGenerator(members MemberSource, store FeeStore) *Generator {
	return &Generator{members: members, store: store}
}

// Generate upserts one unpaid fee per member active during month. The fee
// month is always normalized to the first of the month.
func (g *Generator) Generate(ctx context.Context, month time.Time, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, core.ErrInvalidAmount
	}
	feeMonth := core.MonthStart(month)

	members, err := g.members.ListMembers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list members: %w", err)
	}

	var result Result
	for _, m := range members {
		if !m.ActiveIn(feeMonth) {
			continue
		}
		result.Candidates++
		inserted, err := g.store.UpsertFee(ctx, core.MembershipFee{
			MemberID:      m.ID,
			FeeMonth:      feeMonth,
			Amount:        amount,
			PaymentStatus: core.Unpaid,
		})
		if err != nil {
			return result, fmt.Errorf("upsert fee for member %d: %w", m.ID, err)
		}
		if inserted {
			result.Created++
		}
	}

	slog.InfoContext(ctx, "Fee generation finished",
		"fee_month", feeMonth.Format("2006-01"),
		"amount", core.FormatAmount(amount),
		"candidates", result.Candidates,
		"created", result.Created)

	return result, nil
}
