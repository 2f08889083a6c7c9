package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// ProfilePatch holds the editable profile fields. Nil fields are left alone.
type ProfilePatch struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

// Register validates and stores a new user.
func (s *Service) Register(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	s.log.Info("registered user %s (%s)", u.Username, u.ID)
	return u, nil
}

// User returns a user by ID, falling back to a username lookup.
func (s *Service) User(ctx context.Context, idOrUsername string) (*domain.User, error) {
	u, err := s.store.GetUser(ctx, idOrUsername)
	if isNotFound(err) {
		u, err = s.store.GetUserByUsername(ctx, strings.ToLower(idOrUsername))
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", idOrUsername, err)
	}
	return u, nil
}

// Users lists users by username.
func (s *Service) Users(ctx context.Context, page domain.Page) ([]*domain.User, error) {
	return s.store.ListUsers(ctx, page)
}

// Profile returns a user with follower, following and recipe counts.
func (s *Service) Profile(ctx context.Context, idOrUsername string) (*domain.Profile, error) {
	u, err := s.User(ctx, idOrUsername)
	if err != nil {
		return nil, err
	}
	followers, err := s.store.Followers(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("counting followers: %w", err)
	}
	following, err := s.store.Following(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("counting following: %w", err)
	}
	recipes, err := s.store.CountByAuthor(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("counting recipes: %w", err)
	}
	return &domain.Profile{
		User:      *u,
		Followers: len(followers),
		Following: len(following),
		Recipes:   recipes,
	}, nil
}

// UpdateProfile applies patch to userID's profile. Only the user may edit
// their own profile.
func (s *Service) UpdateProfile(ctx context.Context, actorID, userID string, patch ProfilePatch) (*domain.User, error) {
	if actorID != userID {
		return nil, domain.ErrForbidden
	}
	u, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}

// Follow makes actorID follow targetID. Following twice is not an error.
func (s *Service) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domain.ErrSelfFollow
	}
	if _, err := s.requireUser(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.requireUser(ctx, targetID); err != nil {
		return err
	}

	changed, err := s.store.Follow(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("following: %w", err)
	}
	if changed {
		s.log.Debug("%s followed %s", actorID, targetID)
		s.notify(ctx, targetID, actorID, domain.NotifyFollow, "")
	}
	return nil
}

// Unfollow removes the follow edge if present.
func (s *Service) Unfollow(ctx context.Context, actorID, targetID string) error {
	if _, err := s.store.Unfollow(ctx, actorID, targetID); err != nil {
		return fmt.Errorf("unfollowing: %w", err)
	}
	return nil
}

// Followers lists the users following userID.
func (s *Service) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.store.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing followers: %w", err)
	}
	return s.usersByID(ctx, ids)
}

// Following lists the users userID follows.
func (s *Service) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.store.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing following: %w", err)
	}
	return s.usersByID(ctx, ids)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
