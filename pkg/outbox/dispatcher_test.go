package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failure struct {
	status  string
	retries int
	next    *time.Time
}

type fakeQueue struct {
	events []Event
	sent   []int64
	failed map[int64]failure
}

func (q *fakeQueue) Pending(_ context.Context, limit int) ([]Event, error) {
	if len(q.events) > limit {
		return q.events[:limit], nil
	}
	return q.events, nil
}

func (q *fakeQueue) MarkSent(_ context.Context, id int64) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id int64, status string, retries int, next *time.Time) error {
	q.failed[id] = failure{status, retries, next}
	return nil
}

type fakeSender struct {
	fail map[string]bool
	got  []string
}

func (s *fakeSender) Publish(routingKey string, payload any) error {
	if s.fail[routingKey] {
		return errors.New("broker down")
	}
	raw, ok := payload.(json.RawMessage)
	if !ok {
		return errors.New("payload is not raw json")
	}
	s.got = append(s.got, routingKey+" "+string(raw))
	return nil
}

func TestFlushSendsAndMarks(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	q := &fakeQueue{
		failed: map[int64]failure{},
		events: []Event{
			{ID: 1, RoutingKey: "task.created", Payload: json.RawMessage(`{"task_id":"a"}`)},
			{ID: 2, RoutingKey: "task.approved", Payload: json.RawMessage(`{"task_id":"a"}`), RetryCount: 1},
			{ID: 3, RoutingKey: "task.approved", Payload: json.RawMessage(`{"task_id":"b"}`), RetryCount: 4},
		},
	}
	s := &fakeSender{fail: map[string]bool{"task.approved": true}}
	d := NewDispatcher(q, s, zap.NewNop())
	d.now = func() time.Time { return now }

	assert.Equal(t, 1, d.Flush(context.Background()))
	assert.Equal(t, []int64{1}, q.sent)
	assert.Equal(t, []string{`task.created {"task_id":"a"}`}, s.got)

	retry := q.failed[2]
	assert.Equal(t, StatusPending, retry.status)
	assert.Equal(t, 2, retry.retries)
	require.NotNil(t, retry.next)
	assert.Equal(t, now.Add(10*time.Second), *retry.next)

	gaveUp := q.failed[3]
	assert.Equal(t, StatusFailed, gaveUp.status)
	assert.Equal(t, 5, gaveUp.retries)
	assert.Nil(t, gaveUp.next)
}

func TestFlushHonoursMaxRetries(t *testing.T) {
	q := &fakeQueue{
		failed: map[int64]failure{},
		events: []Event{
			{ID: 7, RoutingKey: "task.deleted", Payload: json.RawMessage(`{"task_id":"c"}`), RetryCount: 1},
		},
	}
	s := &fakeSender{fail: map[string]bool{"task.deleted": true}}
	d := NewDispatcher(q, s, zap.NewNop()).WithMaxRetries(2)

	assert.Equal(t, 0, d.Flush(context.Background()))
	gaveUp := q.failed[7]
	assert.Equal(t, StatusFailed, gaveUp.status)
	assert.Equal(t, 2, gaveUp.retries)
	assert.Nil(t, gaveUp.next)
}

func TestStartStopsOnCancel(t *testing.T) {
	q := &fakeQueue{failed: map[int64]failure{}}
	d := NewDispatcher(q, &fakeSender{}, zap.NewNop()).WithInterval(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
