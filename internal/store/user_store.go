package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"taskboard/contracts/mq"
	"taskboard/internal/model"
	"taskboard/pkg/logger"
	"taskboard/pkg/metrics"
)

var ErrEmptyRoster = errors.New("user roster is empty")

// UserStore holds the roster and the single current-user selection. The
// selection is process-wide demo state, not an authenticated session: request
// handlers act as the token's user and only GET /session reports the selection.
type UserStore struct {
	repo      UserRepository
	publisher Publisher
	logger    *zap.Logger

	mu      sync.RWMutex
	current model.User
}

// NewUserStore selects the first non-admin roster entry as current (or the
// first entry when everyone is an admin).
func NewUserStore(ctx context.Context, repo UserRepository, publisher Publisher, logger *zap.Logger) (*UserStore, error) {
	users, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrEmptyRoster
	}

	current := users[0]
	for _, u := range users {
		if !u.IsAdmin() {
			current = u
			break
		}
	}
	return &UserStore{repo: repo, publisher: publisher, logger: logger, current: current}, nil
}

func (s *UserStore) Users(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *UserStore) User(ctx context.Context, id string) (model.User, bool, error) {
	return s.repo.Get(ctx, id)
}

func (s *UserStore) Current() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SwitchUser makes the roster entry with id current. Unknown ids are ignored.
func (s *UserStore) SwitchUser(ctx context.Context, id string) error {
	log := logger.WithTrace(ctx, s.logger)

	u, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("switch user %s: %w", id, err)
	}
	if !found {
		log.Debug("SwitchUser: unknown user, ignoring", zap.String("user_id", id))
		return nil
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	metrics.IncrementUserOperation("switch")
	log.Info("Current user switched", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	s.publish(mq.RoutingUserSwitched, mq.UserSwitchedPayload{UserID: u.ID, Role: string(u.Role)})
	return nil
}

// UpdateUser replaces the roster entry with the same id. The stored role is
// kept; if the user is current, the selection is refreshed too.
func (s *UserStore) UpdateUser(ctx context.Context, u model.User) error {
	log := logger.WithTrace(ctx, s.logger)

	existing, found, err := s.repo.Get(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	if !found {
		log.Debug("UpdateUser: unknown user, ignoring", zap.String("user_id", u.ID))
		return nil
	}
	u.Role = existing.Role

	if _, err := s.repo.Replace(ctx, u); err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}

	s.mu.Lock()
	if s.current.ID == u.ID {
		s.current = u
	}
	s.mu.Unlock()

	metrics.IncrementUserOperation("update")
	log.Info("User updated", zap.String("user_id", u.ID))
	s.publish(mq.RoutingUserUpdated, mq.UserUpdatedPayload{UserID: u.ID, FullName: u.FullName})
	return nil
}

func (s *UserStore) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Failed to publish user event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
