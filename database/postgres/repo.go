package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/tasker"
	"github.com/sagarc03/tasker/database/internal"
)

const taskColumns = `task_id, user_id, description, due_date, done, attachment_url, created_at`

type repo struct {
	pool      *pgxpool.Pool
	tableName string // quoted
}

func scanTask(row pgx.Row) (tasker.Task, error) {
	var (
		t          tasker.Task
		attachment *string
	)
	if err := row.Scan(&t.TaskID, &t.UserID, &t.Description, &t.DueDate, &t.Done, &attachment, &t.CreatedAt); err != nil {
		return tasker.Task{}, err
	}
	if attachment != nil {
		t.AttachmentURL = *attachment
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (r *repo) ListByOwner(ctx context.Context, userID string) ([]tasker.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY created_at, task_id
	`, taskColumns, r.tableName)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer rows.Close()

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
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND task_id = $2
	`, taskColumns, r.tableName)

	t, err := scanTask(r.pool.QueryRow(ctx, query, userID, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	var attachment *string
	if task.AttachmentURL != "" {
		attachment = &task.AttachmentURL
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, r.tableName, taskColumns, taskColumns)

	created, err := scanTask(r.pool.QueryRow(ctx, query,
		task.TaskID, task.UserID, task.Description, task.DueDate, task.Done, attachment, task.CreatedAt,
	))
	if err != nil {
		return tasker.Task{}, fmt.Errorf("put: %w", err)
	}

	return created, nil
}

func (r *repo) Update(ctx context.Context, taskID, userID string, upd tasker.TaskUpdate) error {
	if upd.IsEmpty() {
		if _, err := r.Get(ctx, taskID, userID); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		return nil
	}

	assignments := internal.Assignments(upd)
	set, args := internal.SetClause(assignments, func(n int) string { return fmt.Sprintf("$%d", n) })
	n := len(assignments)
	query := fmt.Sprintf(`
		UPDATE %s SET %s
		WHERE user_id = $%d AND task_id = $%d
	`, r.tableName, set, n+1, n+2)
	args = append(args, userID, taskID)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update: %w", tasker.ErrNotFound)
	}

	return nil
}

func (r *repo) Delete(ctx context.Context, taskID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND task_id = $2`, r.tableName)

	if _, err := r.pool.Exec(ctx, query, userID, taskID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}
