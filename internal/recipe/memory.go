// Package recipe provides recipe source implementations: an in-memory store
// preloaded with built-in recipes, a YAML loader and a directory watcher
// that keeps a store in sync with YAML files on disk.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeStore = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent use. Recipes
// are copied on the way in and out so callers never share backing arrays.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
	now     func() time.Time
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := NewEmptySource(log)
	src.seed()
	return src
}

// NewEmptySource creates a recipe source with no recipes.
func NewEmptySource(log *logger.Logger) *MemorySource {
	return &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
		now:     time.Now,
	}
}

// List returns summaries of all recipes, newest first.
func (s *MemorySource) List(ctx context.Context, page domain.Page) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))
	return s.collect(page, func(*domain.Recipe) bool { return true }), nil
}

// Get returns a copy of the recipe with the given ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return clone(r), nil
}

// Search returns recipes whose title, description or tags contain the
// query string, case-insensitively.
func (s *MemorySource) Search(ctx context.Context, query string, page domain.Page) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	s.log.Debug("searching recipes for: %s", q)
	return s.collect(page, func(r *domain.Recipe) bool { return matches(r, q) }), nil
}

// ListByAuthor returns one author's recipes, newest first.
func (s *MemorySource) ListByAuthor(ctx context.Context, authorID string, page domain.Page) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(page, func(r *domain.Recipe) bool { return r.AuthorID == authorID }), nil
}

// CountByAuthor returns how many recipes authorID owns.
func (s *MemorySource) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.recipes {
		if r.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// Create adds a recipe, assigning an ID when it has none.
func (s *MemorySource) Create(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if _, ok := s.recipes[recipe.ID]; ok {
		return domain.ErrAlreadyExists
	}
	now := s.now().UTC()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now
	if recipe.Version == 0 {
		recipe.Version = 1
	}
	s.recipes[recipe.ID] = clone(recipe)
	s.log.Debug("recipe created: %s (%s)", recipe.Title, recipe.ID)
	return nil
}

// Update replaces a recipe in the source. The recipe ID must already exist.
// Counters and authorship are kept from the stored copy.
func (s *MemorySource) Update(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.recipes[recipe.ID]
	if !ok {
		return domain.ErrNotFound
	}
	recipe.AuthorID = old.AuthorID
	recipe.LikeCount = old.LikeCount
	recipe.CookCount = old.CookCount
	recipe.CreatedAt = old.CreatedAt
	recipe.Version = old.Version + 1
	recipe.UpdatedAt = s.now().UTC()
	s.recipes[recipe.ID] = clone(recipe)
	s.log.Info("recipe updated: %s (v%d)", recipe.Title, recipe.Version)
	return nil
}

// Delete removes a recipe.
func (s *MemorySource) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.recipes, id)
	s.log.Debug("recipe deleted: %s", id)
	return nil
}

// IncrementCookCount records one finished cook session.
func (s *MemorySource) IncrementCookCount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.CookCount++
	return nil
}

// collect filters, sorts newest first (ID breaks ties) and pages. Callers
// hold the read lock.
func (s *MemorySource) collect(page domain.Page, keep func(*domain.Recipe) bool) []domain.RecipeSummary {
	page = page.Normalize()

	matched := make([]*domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if keep(r) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	out := []domain.RecipeSummary{}
	for i := page.Offset; i < len(matched) && len(out) < page.Limit; i++ {
		out = append(out, matched[i].Summary())
	}
	return out
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func clone(r *domain.Recipe) *domain.Recipe {
	c := *r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	for _, r := range Builtin() {
		if err := s.Create(context.Background(), r); err != nil {
			s.log.Warn("seeding %s: %v", r.ID, err)
		}
	}
	s.log.Debug("seeded %d recipes", len(s.recipes))
}
