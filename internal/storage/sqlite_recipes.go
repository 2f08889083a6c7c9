package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

const recipeColumns = `id, author_id, title, description, ingredients_json, instructions_json,
	tags_json, servings, prep_minutes, cook_minutes, image_url, like_count, cook_count,
	version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var (
		r                              domain.Recipe
		ingredients, instructions, tag string
		created, updated               int64
	)
	err := row.Scan(&r.ID, &r.AuthorID, &r.Title, &r.Description, &ingredients, &instructions,
		&tag, &r.Servings, &r.PrepMinutes, &r.CookMinutes, &r.ImageURL, &r.LikeCount, &r.CookCount,
		&r.Version, &created, &updated)
	if err != nil {
		return nil, err
	}
	if r.Ingredients, err = decodeList(ingredients); err != nil {
		return nil, err
	}
	if r.Instructions, err = decodeList(instructions); err != nil {
		return nil, err
	}
	if r.Tags, err = decodeList(tag); err != nil {
		return nil, err
	}
	r.CreatedAt = fromMillis(created)
	r.UpdatedAt = fromMillis(updated)
	return &r, nil
}

func (s *SQLiteStore) querySummaries(ctx context.Context, query string, args ...any) ([]domain.RecipeSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying recipes")
	}
	defer rows.Close()

	out := []domain.RecipeSummary{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning recipe")
		}
		out = append(out, r.Summary())
	}
	return out, errors.Wrap(rows.Err(), "iterating recipes")
}

// List returns recipe summaries, newest first.
func (s *SQLiteStore) List(ctx context.Context, page domain.Page) ([]domain.RecipeSummary, error) {
	page = page.Normalize()
	return s.querySummaries(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		page.Limit, page.Offset)
}

// Get returns a recipe by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading recipe %s", id)
	}
	return r, nil
}

// Search matches the query against title, description and each tag on its
// own.
func (s *SQLiteStore) Search(ctx context.Context, query string, page domain.Page) ([]domain.RecipeSummary, error) {
	page = page.Normalize()
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	return s.querySummaries(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		 WHERE lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\'
		    OR EXISTS (SELECT 1 FROM json_each(recipes.tags_json) AS tag WHERE lower(tag.value) LIKE ? ESCAPE '\')
		 ORDER BY like_count DESC, created_at DESC LIMIT ? OFFSET ?`,
		like, like, like, page.Limit, page.Offset)
}

// ListByAuthor returns one author's recipes, newest first.
func (s *SQLiteStore) ListByAuthor(ctx context.Context, authorID string, page domain.Page) ([]domain.RecipeSummary, error) {
	page = page.Normalize()
	return s.querySummaries(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE author_id = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		authorID, page.Limit, page.Offset)
}

// CountByAuthor returns how many recipes authorID has published.
func (s *SQLiteStore) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE author_id = ?`, authorID).Scan(&n)
	return n, errors.Wrap(err, "counting recipes")
}

// Create inserts a recipe, assigning an ID and timestamps when missing.
func (s *SQLiteStore) Create(ctx context.Context, r *domain.Recipe) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if r.Version == 0 {
		r.Version = 1
	}

	ingredients, instructions, tags, err := encodeRecipeLists(r)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx, `SELECT 1 FROM recipes WHERE id = ?`, r.ID)
		if err != nil {
			return errors.Wrap(err, "checking recipe id")
		}
		if dup {
			return domain.ErrAlreadyExists
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO recipes (`+recipeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.AuthorID, r.Title, r.Description, ingredients, instructions, tags,
			r.Servings, r.PrepMinutes, r.CookMinutes, r.ImageURL, r.LikeCount, r.CookCount,
			r.Version, millis(r.CreatedAt), millis(r.UpdatedAt))
		if err != nil {
			return errors.Wrap(err, "inserting recipe")
		}
		s.log.Debug("recipe created: %s (%s)", r.Title, r.ID)
		return nil
	})
}

// Update replaces the editable fields of an existing recipe and bumps its
// version. Counters and authorship are left alone.
func (s *SQLiteStore) Update(ctx context.Context, r *domain.Recipe) error {
	ingredients, instructions, tags, err := encodeRecipeLists(r)
	if err != nil {
		return err
	}
	r.UpdatedAt = s.now().UTC()

	res, err := s.db.ExecContext(ctx, `UPDATE recipes SET title = ?, description = ?,
		ingredients_json = ?, instructions_json = ?, tags_json = ?, servings = ?,
		prep_minutes = ?, cook_minutes = ?, image_url = ?, version = version + 1, updated_at = ?
		WHERE id = ?`,
		r.Title, r.Description, ingredients, instructions, tags, r.Servings,
		r.PrepMinutes, r.CookMinutes, r.ImageURL, millis(r.UpdatedAt), r.ID)
	if err != nil {
		return errors.Wrapf(err, "updating recipe %s", r.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	r.Version++
	s.log.Info("recipe updated: %s (v%d)", r.Title, r.Version)
	return nil
}

// Delete removes a recipe and everything that points at it.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
		if err != nil {
			return errors.Wrapf(err, "deleting recipe %s", id)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		for _, q := range []string{
			`DELETE FROM likes WHERE recipe_id = ?`,
			`DELETE FROM bookmarks WHERE recipe_id = ?`,
			`DELETE FROM collection_recipes WHERE recipe_id = ?`,
			`DELETE FROM notifications WHERE recipe_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return errors.Wrap(err, "cascading recipe delete")
			}
		}
		s.log.Debug("recipe deleted: %s", id)
		return nil
	})
}

// IncrementCookCount records one finished cook session.
func (s *SQLiteStore) IncrementCookCount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE recipes SET cook_count = cook_count + 1 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "incrementing cook count")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func encodeRecipeLists(r *domain.Recipe) (string, string, string, error) {
	ingredients, err := encodeList(r.Ingredients)
	if err != nil {
		return "", "", "", err
	}
	instructions, err := encodeList(r.Instructions)
	if err != nil {
		return "", "", "", err
	}
	tags, err := encodeList(r.Tags)
	if err != nil {
		return "", "", "", err
	}
	return ingredients, instructions, tags, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
