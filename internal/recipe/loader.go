package recipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// IsRecipeFile reports whether path looks like a recipe YAML file.
func IsRecipeFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return !strings.HasPrefix(filepath.Base(path), ".")
	}
	return false
}

// IDFromPath derives a recipe ID from a file name: "Pad Thai.yaml" becomes
// "pad-thai".
func IDFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.ToLower(strings.TrimSpace(stem))
	return strings.Join(strings.FieldsFunc(stem, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), "-")
}

// LoadFile parses and validates a single recipe file. A missing id is
// derived from the file name.
func LoadFile(path string) (*domain.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file: %w", err)
	}

	var r domain.Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalid, filepath.Base(path), err)
	}
	if r.ID == "" {
		r.ID = IDFromPath(path)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &r, nil
}

// LoadDir loads every recipe file in dir (not recursive), sorted by file
// name. Files that fail to parse are reported in the joined error while
// the rest are still returned.
func LoadDir(dir string) ([]*domain.Recipe, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading recipe dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && IsRecipeFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var (
		out  []*domain.Recipe
		errs []error
	)
	for _, name := range names {
		r, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, r)
	}
	return out, errors.Join(errs...)
}

// ImportResult says what an import did to the store.
type ImportResult int

const (
	ImportUnchanged ImportResult = iota
	ImportCreated
	ImportUpdated
	ImportSkipped
)

func (r ImportResult) String() string {
	switch r {
	case ImportCreated:
		return "created"
	case ImportUpdated:
		return "updated"
	case ImportSkipped:
		return "skipped"
	default:
		return "unchanged"
	}
}

// Importer writes recipes loaded from disk into a store. Recipes without
// an author are attributed to the importer's default author.
type Importer struct {
	store    domain.RecipeStore
	authorID string
	log      *logger.Logger
}

// NewImporter creates an importer writing into store.
func NewImporter(store domain.RecipeStore, authorID string, log *logger.Logger) *Importer {
	return &Importer{store: store, authorID: authorID, log: log}
}

// Import creates the recipe or updates the stored copy when its content
// differs. Re-importing an identical file leaves the version untouched. A
// stored recipe with the same ID but another author is never overwritten.
func (im *Importer) Import(ctx context.Context, r *domain.Recipe) (ImportResult, error) {
	if r.AuthorID == "" {
		r.AuthorID = im.authorID
	}

	existing, err := im.store.Get(ctx, r.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := im.store.Create(ctx, r); err != nil {
			return ImportUnchanged, fmt.Errorf("creating recipe %s: %w", r.ID, err)
		}
		im.log.Info("imported recipe %s", r.ID)
		return ImportCreated, nil
	case err != nil:
		return ImportUnchanged, fmt.Errorf("loading recipe %s: %w", r.ID, err)
	}

	if existing.AuthorID != r.AuthorID {
		im.log.Warn("skipping recipe %s: id already taken by %s", r.ID, existing.AuthorID)
		return ImportSkipped, nil
	}
	if sameContent(existing, r) {
		return ImportUnchanged, nil
	}
	if err := im.store.Update(ctx, r); err != nil {
		return ImportUnchanged, fmt.Errorf("updating recipe %s: %w", r.ID, err)
	}
	im.log.Info("re-imported recipe %s (v%d)", r.ID, r.Version)
	return ImportUpdated, nil
}

// ImportFile loads and imports one file.
func (im *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	r, err := LoadFile(path)
	if err != nil {
		return ImportUnchanged, err
	}
	return im.Import(ctx, r)
}

// ImportDir imports every recipe file in dir and returns per-outcome
// counts. Bad files are skipped and reported in the error.
func (im *Importer) ImportDir(ctx context.Context, dir string) (map[ImportResult]int, error) {
	recipes, loadErr := LoadDir(dir)
	counts := make(map[ImportResult]int)
	errs := []error{loadErr}
	for _, r := range recipes {
		res, err := im.Import(ctx, r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		counts[res]++
	}
	return counts, errors.Join(errs...)
}

func sameContent(a, b *domain.Recipe) bool {
	return a.Title == b.Title &&
		a.Description == b.Description &&
		a.Servings == b.Servings &&
		a.PrepMinutes == b.PrepMinutes &&
		a.CookMinutes == b.CookMinutes &&
		a.ImageURL == b.ImageURL &&
		slices.Equal(a.Ingredients, b.Ingredients) &&
		slices.Equal(a.Instructions, b.Instructions) &&
		slices.Equal(a.Tags, b.Tags)
}
