package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/devagent/internal/ports/secondary"
)

const goalColumns = "id, title, description, status, branch_name, external_issue_id, created_at, updated_at, completed_at"

// GoalRepository implements secondary.GoalRepository with SQLite.
type GoalRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewGoalRepository creates a new SQLite goal repository.
func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db, now: time.Now}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n > 0}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// Create persists a new goal.
// The goal record must have ID and Status pre-populated by the service layer.
func (r *GoalRepository) Create(ctx context.Context, goal *secondary.GoalRecord) error {
	if goal.ID == "" {
		return fmt.Errorf("goal ID must be pre-populated by service layer")
	}
	if goal.Status == "" {
		return fmt.Errorf("goal Status must be pre-populated by service layer")
	}

	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = r.now().UTC()
	}
	if goal.UpdatedAt.IsZero() {
		goal.UpdatedAt = goal.CreatedAt
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO goals ("+goalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		goal.ID, goal.Title, nullString(goal.Description), goal.Status,
		nullString(goal.BranchName), nullInt(goal.ExternalIssueID),
		formatTime(goal.CreatedAt), formatTime(goal.UpdatedAt), nullTime(goal.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", mapError(err))
	}
	return nil
}

// GetByID retrieves a goal by its ID.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*secondary.GoalRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
	record, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", mapError(err))
	}
	return record, nil
}

// GetByExternalIssueID retrieves the goal linked to an issue.
func (r *GoalRepository) GetByExternalIssueID(ctx context.Context, issueNumber int) (*secondary.GoalRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE external_issue_id = ?", issueNumber)
	record, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal for issue #%d %w", issueNumber, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal by issue: %w", mapError(err))
	}
	return record, nil
}

// GetByBranch retrieves the goal that owns a branch.
func (r *GoalRepository) GetByBranch(ctx context.Context, branch string) (*secondary.GoalRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE branch_name = ? ORDER BY updated_at DESC LIMIT 1", branch)
	record, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal for branch %s %w", branch, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal by branch: %w", mapError(err))
	}
	return record, nil
}

// Update applies a patch and refreshes updated_at.
func (r *GoalRepository) Update(ctx context.Context, id string, patch secondary.GoalPatch) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", nullString(*patch.Description))
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.BranchName != nil {
		set("branch_name", nullString(*patch.BranchName))
	}
	if patch.ExternalIssueID != nil {
		set("external_issue_id", nullInt(*patch.ExternalIssueID))
	}
	switch {
	case patch.ClearCompletedAt:
		set("completed_at", nil)
	case patch.CompletedAt != nil:
		set("completed_at", nullTime(patch.CompletedAt))
	}
	set("updated_at", formatTime(r.now()))

	args = append(args, id)
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE goals SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", mapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// Delete removes a goal from persistence.
func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", mapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// List retrieves goals matching the given filters, newest first.
func (r *GoalRepository) List(ctx context.Context, filters secondary.GoalFilters) ([]*secondary.GoalRecord, error) {
	query := "SELECT " + goalColumns + " FROM goals"
	args := []any{}

	if filters.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", mapError(err))
	}
	defer rows.Close()

	var goals []*secondary.GoalRecord
	for rows.Next() {
		record, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", mapError(err))
		}
		goals = append(goals, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", mapError(err))
	}

	return goals, nil
}

// Count returns the number of goals with a status, or all goals.
func (r *GoalRepository) Count(ctx context.Context, status string) (int, error) {
	query := "SELECT COUNT(*) FROM goals"
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	var n int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count goals: %w", mapError(err))
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(s scanner) (*secondary.GoalRecord, error) {
	var (
		desc        sql.NullString
		branch      sql.NullString
		issue       sql.NullInt64
		createdAt   string
		updatedAt   string
		completedAt sql.NullString
	)

	record := &secondary.GoalRecord{}
	err := s.Scan(&record.ID, &record.Title, &desc, &record.Status, &branch, &issue, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.BranchName = branch.String
	record.ExternalIssueID = int(issue.Int64)

	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		record.CompletedAt = &t
	}

	return record, nil
}

var _ secondary.GoalRepository = (*GoalRepository)(nil)
