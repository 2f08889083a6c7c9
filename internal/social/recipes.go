package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// PublishRecipe validates r and stores it as authored by actorID.
func (s *Service) PublishRecipe(ctx context.Context, actorID string, r *domain.Recipe) (*domain.Recipe, error) {
	if _, err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.AuthorID = actorID
	r.LikeCount, r.CookCount, r.Version = 0, 0, 0
	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating recipe: %w", err)
	}
	s.log.Info("%s published recipe %q (%s)", actorID, r.Title, r.ID)
	return r, nil
}

// EditRecipe replaces the content of an existing recipe. Only the author
// may edit it.
func (s *Service) EditRecipe(ctx context.Context, actorID string, r *domain.Recipe) (*domain.Recipe, error) {
	existing, err := s.store.Get(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("loading recipe: %w", err)
	}
	if existing.AuthorID != actorID {
		return nil, domain.ErrForbidden
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.AuthorID = existing.AuthorID
	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("updating recipe: %w", err)
	}
	return s.store.Get(ctx, r.ID)
}

// DeleteRecipe removes a recipe. Only the author may delete it.
func (s *Service) DeleteRecipe(ctx context.Context, actorID, recipeID string) error {
	existing, err := s.store.Get(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("loading recipe: %w", err)
	}
	if existing.AuthorID != actorID {
		return domain.ErrForbidden
	}
	if err := s.store.Delete(ctx, recipeID); err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	s.log.Info("%s deleted recipe %s", actorID, recipeID)
	return nil
}

// Recipe returns one recipe.
func (s *Service) Recipe(ctx context.Context, id string) (*domain.Recipe, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading recipe: %w", err)
	}
	return r, nil
}

// Recipes lists recipes newest first, or searches them when query is set.
func (s *Service) Recipes(ctx context.Context, query string, page domain.Page) ([]domain.RecipeSummary, error) {
	if q := strings.TrimSpace(query); q != "" {
		return s.store.Search(ctx, q, page)
	}
	return s.store.List(ctx, page)
}

// RecipesBy lists one author's recipes.
func (s *Service) RecipesBy(ctx context.Context, authorID string, page domain.Page) ([]domain.RecipeSummary, error) {
	if _, err := s.requireUser(ctx, authorID); err != nil {
		return nil, err
	}
	return s.store.ListByAuthor(ctx, authorID, page)
}

// Like records actorID liking recipeID and notifies the author.
func (s *Service) Like(ctx context.Context, actorID, recipeID string) error {
	r, err := s.recipeForActor(ctx, actorID, recipeID)
	if err != nil {
		return err
	}
	changed, err := s.store.Like(ctx, actorID, recipeID)
	if err != nil {
		return fmt.Errorf("liking recipe: %w", err)
	}
	if changed {
		s.notify(ctx, r.AuthorID, actorID, domain.NotifyLike, r.ID)
	}
	return nil
}

// Unlike removes a like.
func (s *Service) Unlike(ctx context.Context, actorID, recipeID string) error {
	if _, err := s.store.Unlike(ctx, actorID, recipeID); err != nil {
		return fmt.Errorf("unliking recipe: %w", err)
	}
	return nil
}

// Bookmark saves recipeID for actorID and notifies the author.
func (s *Service) Bookmark(ctx context.Context, actorID, recipeID string) error {
	r, err := s.recipeForActor(ctx, actorID, recipeID)
	if err != nil {
		return err
	}
	changed, err := s.store.Bookmark(ctx, actorID, recipeID)
	if err != nil {
		return fmt.Errorf("bookmarking recipe: %w", err)
	}
	if changed {
		s.notify(ctx, r.AuthorID, actorID, domain.NotifyBookmark, r.ID)
	}
	return nil
}

// Unbookmark removes a saved recipe.
func (s *Service) Unbookmark(ctx context.Context, actorID, recipeID string) error {
	if _, err := s.store.Unbookmark(ctx, actorID, recipeID); err != nil {
		return fmt.Errorf("removing bookmark: %w", err)
	}
	return nil
}

// Bookmarks lists actorID's saved recipes.
func (s *Service) Bookmarks(ctx context.Context, actorID string, page domain.Page) ([]domain.RecipeSummary, error) {
	return s.store.Bookmarks(ctx, actorID, page)
}

// Feed lists recipes by the people actorID follows.
func (s *Service) Feed(ctx context.Context, actorID string, page domain.Page) ([]domain.RecipeSummary, error) {
	if _, err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}
	return s.store.Feed(ctx, actorID, page)
}

func (s *Service) recipeForActor(ctx context.Context, actorID, recipeID string) (*domain.Recipe, error) {
	if _, err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}
	r, err := s.store.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("loading recipe: %w", err)
	}
	return r, nil
}
