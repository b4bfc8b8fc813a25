package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/pkg/metrics"
)

const taskColumns = `id, title, description, progress, deadline, status, user_id, photos, created_at, admin_comments`

type PostgresTaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db, logger: logger}
}

func (r *PostgresTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	defer observe("tasks", "list", time.Now())

	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY seq`)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	r.logger.Debug("Tasks listed successfully", zap.Int("count", len(tasks)))
	return tasks, nil
}

func (r *PostgresTaskRepository) Get(ctx context.Context, id string) (model.Task, bool, error) {
	defer observe("tasks", "get", time.Now())

	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, false, nil
	}
	if err != nil {
		r.logger.Error("Failed to get task", zap.String("task_id", id), zap.Error(err))
		return model.Task{}, false, err
	}
	return t, true, nil
}

func (r *PostgresTaskRepository) Insert(ctx context.Context, t model.Task) error {
	defer observe("tasks", "insert", time.Now())

	r.logger.Debug("Inserting task",
		zap.String("task_id", t.ID),
		zap.String("user_id", t.UserID),
		zap.String("title", t.Title),
	)
	query := `
        INSERT INTO tasks (` + taskColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.db.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.Progress, t.Deadline,
		string(t.Status), t.UserID, photosOrEmpty(t.Photos), t.CreatedAt, t.AdminComments,
	)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("task_id", t.ID),
			zap.String("user_id", t.UserID),
		)
		return fmt.Errorf("failed to insert task: %w", err)
	}
	r.logger.Info("Task inserted successfully", zap.String("task_id", t.ID))
	return nil
}

func (r *PostgresTaskRepository) Replace(ctx context.Context, t model.Task) (bool, error) {
	return r.Update(ctx, t.ID, func(cur *model.Task) {
		*cur = t.Clone()
	})
}

// Update locks the row, applies fn and writes every column back.
func (r *PostgresTaskRepository) Update(ctx context.Context, id string, fn func(*model.Task)) (bool, error) {
	defer observe("tasks", "update", time.Now())

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	t, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Debug("Task not found for update", zap.String("task_id", id))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock task %s: %w", id, err)
	}

	fn(&t)
	query := `
        UPDATE tasks
        SET title = $2, description = $3, progress = $4, deadline = $5, status = $6,
            user_id = $7, photos = $8, admin_comments = $9
        WHERE id = $1
    `
	if _, err := tx.Exec(ctx, query,
		id, t.Title, t.Description, t.Progress, t.Deadline, string(t.Status),
		t.UserID, photosOrEmpty(t.Photos), t.AdminComments,
	); err != nil {
		r.logger.Error("Failed to update task", zap.String("task_id", id), zap.Error(err))
		return false, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit task %s: %w", id, err)
	}
	return true, nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer observe("tasks", "delete", time.Now())

	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.String("task_id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	rowsAffected := result.RowsAffected()
	r.logger.Info("Task deleted",
		zap.String("task_id", id),
		zap.Int64("rows_affected", rowsAffected),
	)
	return rowsAffected > 0, nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t      model.Task
		status string
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Progress,
		&t.Deadline,
		&status,
		&t.UserID,
		&t.Photos,
		&t.CreatedAt,
		&t.AdminComments,
	)
	t.Status = model.Status(status)
	return t, err
}

func photosOrEmpty(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}

func observe(table, operation string, start time.Time) {
	metrics.RecordDBQueryDuration(operation, table, time.Since(start))
}
