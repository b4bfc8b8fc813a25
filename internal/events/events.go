package events

import (
	"errors"

	"go.uber.org/zap"

	"taskboard/pkg/circuitbreaker"
	"taskboard/pkg/metrics"
)

// Publisher sends a lifecycle event. pkg/mq.Publisher satisfies it.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(string, any) error { return nil }

// Guarded publishes through a circuit breaker and never returns an error:
// events are notifications, and a broker outage must not fail a store write.
type Guarded struct {
	next    Publisher
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewGuarded(next Publisher, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *Guarded {
	return &Guarded{next: next, breaker: breaker, logger: logger}
}

func (g *Guarded) Publish(routingKey string, payload any) error {
	err := g.breaker.Execute(func() error {
		return g.next.Publish(routingKey, payload)
	})
	switch {
	case err == nil:
		metrics.IncrementEventPublish(routingKey, "ok")
	case errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen):
		metrics.IncrementEventPublish(routingKey, "dropped")
		g.logger.Debug("Event dropped, circuit open", zap.String("routing_key", routingKey))
	default:
		metrics.IncrementEventPublish(routingKey, "failed")
		g.logger.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
	return nil
}
