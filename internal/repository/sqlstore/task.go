package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/training-journal/internal/apperror"
	"github.com/sakif/training-journal/internal/model"
	"github.com/sakif/training-journal/internal/repository"
)

var _ repository.TaskRepository = (*DB)(nil)

const taskColumns = `id, user_id, title, completed, created_at, completed_at`

// CreateTask inserts a task. New tasks are always open: Completed and
// CompletedAt from the caller are ignored.
func (db *DB) CreateTask(ctx context.Context, t *model.Task) error {
	t.ID = xid.New().String()
	t.CreatedAt = time.Now().UTC()
	t.Reopen()

	_, err := db.conn.ExecContext(ctx,
		db.q(`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		t.ID,
		t.UserID,
		t.Title,
		t.Completed,
		t.CreatedAt,
		t.CompletedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", t.UserID)
		}
		return fmt.Errorf("sqlstore: creating task: %w", err)
	}

	return nil
}

func (db *DB) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task

	err := db.conn.GetContext(ctx, &t,
		db.q(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlstore: getting task %s: %w", id, err)
	}

	return &t, nil
}

// ListTasks returns a user's tasks, newest first.
func (db *DB) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	tasks := make([]model.Task, 0)

	err := db.conn.SelectContext(ctx, &tasks,
		db.q(`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = ?
		 ORDER BY created_at DESC`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask writes title and completion state.
func (db *DB) UpdateTask(ctx context.Context, t *model.Task) error {
	return db.execOne(ctx, "updating", "task", t.ID,
		`UPDATE tasks SET title = ?, completed = ?, completed_at = ? WHERE id = ?`,
		t.Title,
		t.Completed,
		t.CompletedAt,
		t.ID,
	)
}

func (db *DB) DeleteTask(ctx context.Context, id string) error {
	return db.execOne(ctx, "deleting", "task", id,
		`DELETE FROM tasks WHERE id = ?`, id)
}
