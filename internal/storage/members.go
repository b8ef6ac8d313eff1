package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kasa/internal/core"
)

func (r *Repository) CreateMember(ctx context.Context, m core.Member) (core.Member, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (full_name, team, join_date, leave_date, notes) VALUES (?, ?, ?, ?, ?)`,
		m.FullName, m.Team, formatDate(m.JoinDate), formatNullableDate(m.LeaveDate), m.Notes)
	if err != nil {
		return core.Member{}, fmt.Errorf("insert member: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Member{}, fmt.Errorf("member id: %w", err)
	}
	m.ID = id

	slog.InfoContext(ctx, "Member created", "member_id", m.ID, "full_name", m.FullName)
	return m, nil
}

// CreateMembers inserts a batch of already-normalized members in one
// transaction, used by the import flow.
func (r *Repository) CreateMembers(ctx context.Context, members []core.Member) (int, error) {
	inserted := 0
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, m := range members {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO members (full_name, team, join_date, leave_date, notes) VALUES (?, ?, ?, ?, ?)`,
				m.FullName, m.Team, formatDate(m.JoinDate), formatNullableDate(m.LeaveDate), m.Notes); err != nil {
				return fmt.Errorf("insert member %q: %w", m.FullName, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *Repository) GetMember(ctx context.Context, id int64) (core.Member, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, team, join_date, leave_date, notes FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Member{}, core.ErrNotFound
	}
	if err != nil {
		return core.Member{}, fmt.Errorf("get member %d: %w", id, err)
	}
	return m, nil
}

func (r *Repository) ListMembers(ctx context.Context) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, full_name, team, join_date, leave_date, notes FROM members ORDER BY full_name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListMemberNames returns every stored full name, for import dedup.
func (r *Repository) ListMemberNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT full_name FROM members`)
	if err != nil {
		return nil, fmt.Errorf("list member names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan member name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *Repository) UpdateMember(ctx context.Context, m core.Member) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET full_name = ?, team = ?, join_date = ?, leave_date = ?, notes = ? WHERE id = ?`,
		m.FullName, m.Team, formatDate(m.JoinDate), formatNullableDate(m.LeaveDate), m.Notes, m.ID)
	if err != nil {
		return fmt.Errorf("update member %d: %w", m.ID, err)
	}
	return requireRow(res, m.ID)
}

// SetMemberLeaveDate records the member leaving; members are never hard
// deleted.
func (r *Repository) SetMemberLeaveDate(ctx context.Context, id int64, leaveDate time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET leave_date = ? WHERE id = ?`, formatDate(leaveDate), id)
	if err != nil {
		return fmt.Errorf("set leave date for member %d: %w", id, err)
	}
	return requireRow(res, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (core.Member, error) {
	var (
		m         core.Member
		joinDate  string
		leaveDate sql.NullString
	)
	if err := row.Scan(&m.ID, &m.FullName, &m.Team, &joinDate, &leaveDate, &m.Notes); err != nil {
		return core.Member{}, err
	}
	join, err := parseDate(joinDate)
	if err != nil {
		return core.Member{}, err
	}
	m.JoinDate = join
	leave, err := parseNullableDate(leaveDate)
	if err != nil {
		return core.Member{}, err
	}
	m.LeaveDate = leave
	return m, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, core.ErrNotFound)
	}
	return nil
}
