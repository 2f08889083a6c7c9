package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

const collectionColumns = `id, owner_id, name, description, color, created_at, updated_at`

func scanCollection(row rowScanner) (*domain.Collection, error) {
	var (
		c                domain.Collection
		created, updated int64
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Color, &created, &updated); err != nil {
		return nil, err
	}
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updated)
	return &c, nil
}

// CreateCollection inserts an empty collection.
func (s *SQLiteStore) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	c.RecipeIDs = []string{}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (`+collectionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Description, c.Color, millis(now), millis(now))
	return errors.Wrap(err, "inserting collection")
}

// GetCollection returns a collection with its recipe IDs in insertion order.
func (s *SQLiteStore) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	c, err := scanCollection(s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading collection")
	}
	if c.RecipeIDs, err = s.collectionRecipeIDs(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCollection replaces name, description and colour.
func (s *SQLiteStore) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	c.UpdatedAt = s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE collections SET name = ?, description = ?, color = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Description, c.Color, millis(c.UpdatedAt), c.ID)
	if err != nil {
		return errors.Wrap(err, "updating collection")
	}
	if !changed(res) {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCollection removes a collection and its membership rows.
func (s *SQLiteStore) DeleteCollection(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
		if err != nil {
			return errors.Wrap(err, "deleting collection")
		}
		if !changed(res) {
			return domain.ErrNotFound
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM collection_recipes WHERE collection_id = ?`, id)
		return errors.Wrap(err, "deleting collection entries")
	})
}

// ListCollections returns every collection owned by ownerID, by name.
func (s *SQLiteStore) ListCollections(ctx context.Context, ownerID string) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE owner_id = ? ORDER BY name, id`, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "listing collections")
	}

	out := []*domain.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scanning collection")
		}
		out = append(out, c)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, errors.Wrap(err, "iterating collections")
	}

	// The pool has a single connection, so members are fetched only after
	// the outer cursor is closed.
	for _, c := range out {
		if c.RecipeIDs, err = s.collectionRecipeIDs(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AddToCollection appends recipeID. Adding a member twice is a no-op.
func (s *SQLiteStore) AddToCollection(ctx context.Context, collectionID, recipeID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM collections WHERE id = ?`, collectionID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, `SELECT 1 FROM recipes WHERE id = ?`, recipeID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO collection_recipes (collection_id, recipe_id, position)
			VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM collection_recipes WHERE collection_id = ?))`,
			collectionID, recipeID, collectionID)
		if err != nil {
			return errors.Wrap(err, "adding to collection")
		}
		_, err = tx.ExecContext(ctx, `UPDATE collections SET updated_at = ? WHERE id = ?`,
			millis(s.now()), collectionID)
		return errors.Wrap(err, "touching collection")
	})
}

// RemoveFromCollection drops recipeID from the collection.
func (s *SQLiteStore) RemoveFromCollection(ctx context.Context, collectionID, recipeID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM collections WHERE id = ?`, collectionID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM collection_recipes WHERE collection_id = ? AND recipe_id = ?`, collectionID, recipeID)
		if err != nil {
			return errors.Wrap(err, "removing from collection")
		}
		if !changed(res) {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (s *SQLiteStore) collectionRecipeIDs(ctx context.Context, collectionID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT recipe_id FROM collection_recipes WHERE collection_id = ? ORDER BY position`, collectionID)
}

// requireRow turns an empty result into domain.ErrNotFound.
func requireRow(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	ok, err := exists(ctx, tx, query, args...)
	if err != nil {
		return errors.Wrap(err, "checking row")
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
