package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/tasker"
	"github.com/sagarc03/tasker/database/internal"
)

// timeLayout is fixed width so that created_at sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const taskColumns = `task_id, user_id, description, due_date, done, attachment_url, created_at`

type repo struct {
	db        *sql.DB
	tableName string // quoted
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (tasker.Task, error) {
	var (
		t          tasker.Task
		attachment sql.NullString
		createdAt  string
	)
	if err := s.Scan(&t.TaskID, &t.UserID, &t.Description, &t.DueDate, &t.Done, &attachment, &createdAt); err != nil {
		return tasker.Task{}, err
	}

	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return tasker.Task{}, fmt.Errorf("parse created_at: %w", err)
	}
	t.CreatedAt = parsed
	t.AttachmentURL = attachment.String

	return t, nil
}

func (r *repo) ListByOwner(ctx context.Context, userID string) ([]tasker.Task, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE user_id = ? ORDER BY created_at, task_id`, taskColumns, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []tasker.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list by owner: scan: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list by owner: rows: %w", err)
	}

	return tasks, nil
}

func (r *repo) Get(ctx context.Context, taskID, userID string) (tasker.Task, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE user_id = ? AND task_id = ?`, taskColumns, r.tableName)

	t, err := scanTask(r.db.QueryRowContext(ctx, query, userID, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tasker.Task{}, tasker.ErrNotFound
		}
		return tasker.Task{}, fmt.Errorf("get: %w", err)
	}

	return t, nil
}

func (r *repo) Put(ctx context.Context, task tasker.Task) (tasker.Task, error) {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.CreatedAt = task.CreatedAt.UTC()

	var attachment sql.NullString
	if task.AttachmentURL != "" {
		attachment = sql.NullString{String: task.AttachmentURL, Valid: true}
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`, r.tableName, taskColumns)

	_, err := r.db.ExecContext(ctx, query,
		task.TaskID, task.UserID, task.Description, task.DueDate, task.Done, attachment,
		task.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return tasker.Task{}, fmt.Errorf("put: %w", err)
	}

	return task, nil
}

func (r *repo) Update(ctx context.Context, taskID, userID string, upd tasker.TaskUpdate) error {
	if upd.IsEmpty() {
		if _, err := r.Get(ctx, taskID, userID); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		return nil
	}

	set, args := internal.SetClause(internal.Assignments(upd), func(int) string { return "?" })
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s SET %s WHERE user_id = ? AND task_id = ?`, r.tableName, set)
	args = append(args, userID, taskID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("update: %w", tasker.ErrNotFound)
	}

	return nil
}

func (r *repo) Delete(ctx context.Context, taskID, userID string) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE user_id = ? AND task_id = ?`, r.tableName)

	if _, err := r.db.ExecContext(ctx, query, userID, taskID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}
