package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"kasa/internal/core"
)

// GetSettings loads the single configuration record (id=1). It is always
// passed into the fee generator and reports explicitly, never read as
// global state.
func (r *Repository) GetSettings(ctx context.Context) (core.Settings, error) {
	var (
		feeAmount  string
		categories string
		projects   string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT fee_amount, categories, projects FROM settings WHERE id = 1`).
		Scan(&feeAmount, &categories, &projects)
	if err != nil {
		return core.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	s := core.Settings{}
	if s.FeeAmount, err = parseStoredAmount(feeAmount); err != nil {
		return core.Settings{}, err
	}
	if err := json.Unmarshal([]byte(categories), &s.Categories); err != nil {
		return core.Settings{}, fmt.Errorf("decode categories: %w", err)
	}
	if err := json.Unmarshal([]byte(projects), &s.Projects); err != nil {
		return core.Settings{}, fmt.Errorf("decode projects: %w", err)
	}
	return s, nil
}

func (r *Repository) UpdateSettings(ctx context.Context, s core.Settings) error {
	if !s.FeeAmount.IsPositive() {
		return core.ErrInvalidAmount
	}
	categories, err := json.Marshal(s.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	projects, err := json.Marshal(s.Projects)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE settings SET fee_amount = ?, categories = ?, projects = ? WHERE id = 1`,
		s.FeeAmount.String(), string(categories), string(projects)); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
