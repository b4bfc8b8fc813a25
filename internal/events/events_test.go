package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"taskboard/pkg/circuitbreaker"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(string, any) error {
	f.calls++
	return errors.New("broker down")
}

func TestGuardedSwallowsErrorsAndTrips(t *testing.T) {
	next := &failingPublisher{}
	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Hour, HalfOpenMaxRequests: 1,
	})
	g := NewGuarded(next, breaker, zap.NewNop())

	for i := 0; i < 5; i++ {
		assert.NoError(t, g.Publish("task.created", map[string]string{"task_id": "x"}))
	}
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, circuitbreaker.StateOpen, breaker.GetState())
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish("task.created", nil))
}
