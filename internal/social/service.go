// Package social implements the recipe-sharing side of RecipeBox: profiles,
// recipe authorship, follows, likes, bookmarks, collections, feed,
// suggestions and notifications. It enforces ownership and emits
// notifications; persistence is delegated to a Store.
package social

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Store is everything the service persists. storage.SQLiteStore satisfies it.
type Store interface {
	domain.RecipeStore
	domain.UserStore
	domain.SocialStore
	domain.CollectionStore
	domain.NotificationStore
}

// Option configures the service.
type Option func(*Service)

// WithNotifier fans every stored notification out to n as well.
func WithNotifier(n domain.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// Service is the social application layer.
type Service struct {
	store    Store
	notifier domain.Notifier
	log      *logger.Logger
}

// NewService creates a service over store.
func NewService(store Store, log *logger.Logger, opts ...Option) *Service {
	s := &Service{store: store, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requireUser checks that id names an existing user.
func (s *Service) requireUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalid)
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", id, err)
	}
	return u, nil
}

// usersByID loads users in order, skipping any that have gone missing.
func (s *Service) usersByID(ctx context.Context, ids []string) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.store.GetUser(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("loading user %s: %w", id, err)
		}
		out = append(out, u)
	}
	return out, nil
}
