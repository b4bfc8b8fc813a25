package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

const insertTimeout = 3 * time.Second

// Event 表示一个待发布的事件
type Event struct {
	ID          int64
	RoutingKey  string
	Payload     json.RawMessage
	Status      string
	RetryCount  int
	NextRetryAt *time.Time
	CreatedAt   time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id            BIGSERIAL PRIMARY KEY,
	routing_key   TEXT        NOT NULL,
	payload       JSONB       NOT NULL,
	status        TEXT        NOT NULL DEFAULT 'pending',
	retry_count   INT         NOT NULL DEFAULT 0,
	next_retry_at TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS outbox_events_pending_idx ON outbox_events (status, next_retry_at);
`

// Repository stores events in postgres until the Dispatcher relays them.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create outbox_events: %w", err)
	}
	return nil
}

// Publish queues the event. It satisfies the store's publisher interface, so
// a store write only waits for the insert, never for the broker.
func (r *Repository) Publish(routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", routingKey, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	_, err = r.db.Exec(ctx,
		`INSERT INTO outbox_events (routing_key, payload, status) VALUES ($1, $2, $3)`,
		routingKey, body, StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// Pending 获取待发送的事件，按写入顺序
func (r *Repository) Pending(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, routing_key, payload, status, retry_count, next_retry_at, created_at
		FROM outbox_events
		WHERE status = 'pending'
		AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.RoutingKey, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *Repository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE outbox_events SET status = 'sent', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark event as sent: %w", err)
	}
	return nil
}

// MarkFailed records a failed attempt. The dispatcher has already decided the
// next status and retry time.
func (r *Repository) MarkFailed(ctx context.Context, id int64, status string, retryCount int, nextRetryAt *time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_events
		SET status = $1, retry_count = $2, next_retry_at = $3, updated_at = NOW()
		WHERE id = $4
	`, status, retryCount, nextRetryAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark event as failed: %w", err)
	}
	return nil
}
