package social

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/go-playground/colors.v1"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// DefaultCollectionColor is used when a collection is created without one.
const DefaultCollectionColor = "#6b7280"

// CollectionPatch holds the editable collection fields. Nil fields are left
// alone.
type CollectionPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// NormalizeColor accepts any CSS hex or rgb() colour and returns it as
// lowercase #rrggbb.
func NormalizeColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCollectionColor, nil
	}
	c, err := colors.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: colour %q: %v", domain.ErrInvalid, s, err)
	}
	return strings.ToLower(c.ToRGB().ToHEX().String()), nil
}

func validateCollection(c *domain.Collection) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: collection name is required", domain.ErrInvalid)
	}
	if len(c.Name) > 60 {
		return fmt.Errorf("%w: collection name longer than 60 characters", domain.ErrInvalid)
	}
	c.Description = strings.TrimSpace(c.Description)
	color, err := NormalizeColor(c.Color)
	if err != nil {
		return err
	}
	c.Color = color
	return nil
}

// CreateCollection stores a new, empty collection owned by actorID.
func (s *Service) CreateCollection(ctx context.Context, actorID string, c *domain.Collection) (*domain.Collection, error) {
	if _, err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}
	c.OwnerID = actorID
	if err := validateCollection(c); err != nil {
		return nil, err
	}
	if err := s.store.CreateCollection(ctx, c); err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	s.log.Debug("%s created collection %q", actorID, c.Name)
	return c, nil
}

// Collection returns a collection by ID.
func (s *Service) Collection(ctx context.Context, id string) (*domain.Collection, error) {
	c, err := s.store.GetCollection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading collection: %w", err)
	}
	return c, nil
}

// Collections lists the collections ownerID has made.
func (s *Service) Collections(ctx context.Context, ownerID string) ([]*domain.Collection, error) {
	return s.store.ListCollections(ctx, ownerID)
}

// UpdateCollection applies patch. Only the owner may edit.
func (s *Service) UpdateCollection(ctx context.Context, actorID, id string, patch CollectionPatch) (*domain.Collection, error) {
	c, err := s.ownedCollection(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	if err := validateCollection(c); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCollection(ctx, c); err != nil {
		return nil, fmt.Errorf("updating collection: %w", err)
	}
	return c, nil
}

// DeleteCollection removes a collection. Only the owner may delete.
func (s *Service) DeleteCollection(ctx context.Context, actorID, id string) error {
	if _, err := s.ownedCollection(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.store.DeleteCollection(ctx, id); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// AddToCollection appends a recipe to one of actorID's collections.
func (s *Service) AddToCollection(ctx context.Context, actorID, collectionID, recipeID string) (*domain.Collection, error) {
	if _, err := s.ownedCollection(ctx, actorID, collectionID); err != nil {
		return nil, err
	}
	if err := s.store.AddToCollection(ctx, collectionID, recipeID); err != nil {
		return nil, fmt.Errorf("adding to collection: %w", err)
	}
	return s.Collection(ctx, collectionID)
}

// RemoveFromCollection drops a recipe from one of actorID's collections.
func (s *Service) RemoveFromCollection(ctx context.Context, actorID, collectionID, recipeID string) (*domain.Collection, error) {
	if _, err := s.ownedCollection(ctx, actorID, collectionID); err != nil {
		return nil, err
	}
	if err := s.store.RemoveFromCollection(ctx, collectionID, recipeID); err != nil {
		return nil, fmt.Errorf("removing from collection: %w", err)
	}
	return s.Collection(ctx, collectionID)
}

func (s *Service) ownedCollection(ctx context.Context, actorID, id string) (*domain.Collection, error) {
	c, err := s.Collection(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}
