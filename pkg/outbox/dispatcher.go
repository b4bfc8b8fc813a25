package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskboard/pkg/metrics"
)

// Queue is the part of Repository the Dispatcher drives.
type Queue interface {
	Pending(ctx context.Context, limit int) ([]Event, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, status string, retryCount int, nextRetryAt *time.Time) error
}

// Sender delivers one event to the broker. pkg/mq.Publisher satisfies it.
type Sender interface {
	Publish(routingKey string, payload any) error
}

// Dispatcher 负责从 outbox 中读取事件并发布到 MQ
type Dispatcher struct {
	queue      Queue
	sender     Sender
	logger     *zap.Logger
	maxRetries int
	interval   time.Duration
	batchSize  int
	backoff    time.Duration
	now        func() time.Time
}

func NewDispatcher(queue Queue, sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		queue:      queue,
		sender:     sender,
		logger:     logger,
		maxRetries: 5,
		interval:   1 * time.Second,
		batchSize:  100,
		backoff:    5 * time.Second,
		now:        time.Now,
	}
}

// WithMaxRetries 设置最大重试次数
func (d *Dispatcher) WithMaxRetries(maxRetries int) *Dispatcher {
	d.maxRetries = maxRetries
	return d
}

// WithInterval 设置扫描间隔
func (d *Dispatcher) WithInterval(interval time.Duration) *Dispatcher {
	d.interval = interval
	return d
}

// Start blocks until ctx is cancelled, draining the queue every interval.
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting Outbox Dispatcher",
		zap.Int("max_retries", d.maxRetries),
		zap.Duration("interval", d.interval),
		zap.Int("batch_size", d.batchSize),
	)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox Dispatcher stopped")
			return
		case <-ticker.C:
			d.Flush(ctx)
		}
	}
}

// Flush sends one batch and returns how many events went out.
func (d *Dispatcher) Flush(ctx context.Context) int {
	events, err := d.queue.Pending(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("Failed to get pending events", zap.Error(err))
		return 0
	}

	sent := 0
	for _, e := range events {
		if err := d.sender.Publish(e.RoutingKey, e.Payload); err != nil {
			d.fail(ctx, e, err)
			continue
		}
		metrics.IncrementEventPublish(e.RoutingKey, "ok")
		if err := d.queue.MarkSent(ctx, e.ID); err != nil {
			d.logger.Error("Failed to mark event as sent", zap.Int64("event_id", e.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// fail 线性退避：5s, 10s, 15s... 超过上限后不再重试
func (d *Dispatcher) fail(ctx context.Context, e Event, cause error) {
	retries := e.RetryCount + 1
	status := StatusPending
	var next *time.Time
	if retries >= d.maxRetries {
		status = StatusFailed
	} else {
		at := d.now().Add(time.Duration(retries) * d.backoff)
		next = &at
	}

	metrics.IncrementEventPublish(e.RoutingKey, "failed")
	d.logger.Warn("Failed to publish outbox event",
		zap.Int64("event_id", e.ID),
		zap.String("routing_key", e.RoutingKey),
		zap.Int("retry_count", retries),
		zap.String("status", status),
		zap.Error(cause),
	)

	if err := d.queue.MarkFailed(ctx, e.ID, status, retries, next); err != nil {
		d.logger.Error("Failed to mark event as failed", zap.Int64("event_id", e.ID), zap.Error(err))
	}
}
