package storage

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Follow records followerID -> followeeID.
func (s *SQLiteStore) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return false, domain.ErrSelfFollow
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, ?)`,
		followerID, followeeID, millis(s.now()))
	if err != nil {
		return false, errors.Wrap(err, "inserting follow")
	}
	return changed(res), nil
}

// Unfollow removes followerID -> followeeID.
func (s *SQLiteStore) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID)
	if err != nil {
		return false, errors.Wrap(err, "deleting follow")
	}
	return changed(res), nil
}

// Followers returns the IDs following userID, oldest first.
func (s *SQLiteStore) Followers(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT follower_id FROM follows WHERE followee_id = ? ORDER BY created_at, follower_id`, userID)
}

// Following returns the IDs userID follows, oldest first.
func (s *SQLiteStore) Following(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY created_at, followee_id`, userID)
}

// AllFollows returns every edge of the social graph.
func (s *SQLiteStore) AllFollows(ctx context.Context) ([]domain.Follow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT follower_id, followee_id, created_at FROM follows ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "listing follows")
	}
	defer rows.Close()

	var out []domain.Follow
	for rows.Next() {
		var (
			f  domain.Follow
			ms int64
		)
		if err := rows.Scan(&f.FollowerID, &f.FolloweeID, &ms); err != nil {
			return nil, errors.Wrap(err, "scanning follow")
		}
		f.CreatedAt = fromMillis(ms)
		out = append(out, f)
	}
	return out, errors.Wrap(rows.Err(), "iterating follows")
}

// Like records a like and bumps the recipe's like counter.
func (s *SQLiteStore) Like(ctx context.Context, userID, recipeID string) (bool, error) {
	var did bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM recipes WHERE id = ?`, recipeID)
		if err != nil {
			return errors.Wrap(err, "checking recipe")
		}
		if !ok {
			return domain.ErrNotFound
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO likes (user_id, recipe_id, created_at) VALUES (?, ?, ?)`,
			userID, recipeID, millis(s.now()))
		if err != nil {
			return errors.Wrap(err, "inserting like")
		}
		if did = changed(res); did {
			_, err = tx.ExecContext(ctx, `UPDATE recipes SET like_count = like_count + 1 WHERE id = ?`, recipeID)
			return errors.Wrap(err, "bumping like count")
		}
		return nil
	})
	return did, err
}

// Unlike removes a like and decrements the counter.
func (s *SQLiteStore) Unlike(ctx context.Context, userID, recipeID string) (bool, error) {
	var did bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
		if err != nil {
			return errors.Wrap(err, "deleting like")
		}
		if did = changed(res); did {
			_, err = tx.ExecContext(ctx,
				`UPDATE recipes SET like_count = MAX(like_count - 1, 0) WHERE id = ?`, recipeID)
			return errors.Wrap(err, "dropping like count")
		}
		return nil
	})
	return did, err
}

// HasLiked reports whether userID likes recipeID.
func (s *SQLiteStore) HasLiked(ctx context.Context, userID, recipeID string) (bool, error) {
	ok, err := exists(ctx, s.db, `SELECT 1 FROM likes WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	return ok, errors.Wrap(err, "checking like")
}

// Bookmark saves recipeID for userID.
func (s *SQLiteStore) Bookmark(ctx context.Context, userID, recipeID string) (bool, error) {
	var did bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM recipes WHERE id = ?`, recipeID)
		if err != nil {
			return errors.Wrap(err, "checking recipe")
		}
		if !ok {
			return domain.ErrNotFound
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO bookmarks (user_id, recipe_id, created_at) VALUES (?, ?, ?)`,
			userID, recipeID, millis(s.now()))
		if err != nil {
			return errors.Wrap(err, "inserting bookmark")
		}
		did = changed(res)
		return nil
	})
	return did, err
}

// Unbookmark removes a saved recipe.
func (s *SQLiteStore) Unbookmark(ctx context.Context, userID, recipeID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	if err != nil {
		return false, errors.Wrap(err, "deleting bookmark")
	}
	return changed(res), nil
}

// Bookmarks lists a user's saved recipes, most recently saved first.
func (s *SQLiteStore) Bookmarks(ctx context.Context, userID string, page domain.Page) ([]domain.RecipeSummary, error) {
	page = page.Normalize()
	return s.querySummaries(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		 WHERE id IN (SELECT recipe_id FROM bookmarks WHERE user_id = ?)
		 ORDER BY (SELECT b.created_at FROM bookmarks b WHERE b.recipe_id = recipes.id AND b.user_id = ?) DESC, id
		 LIMIT ? OFFSET ?`,
		userID, userID, page.Limit, page.Offset)
}

// Feed lists recipes by the authors userID follows, newest first.
func (s *SQLiteStore) Feed(ctx context.Context, userID string, page domain.Page) ([]domain.RecipeSummary, error) {
	page = page.Normalize()
	return s.querySummaries(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		 WHERE author_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)
		 ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset)
}

func (s *SQLiteStore) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying ids")
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning id")
		}
		out = append(out, id)
	}
	return out, errors.Wrap(rows.Err(), "iterating ids")
}

func changed(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}
