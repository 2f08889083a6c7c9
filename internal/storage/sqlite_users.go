package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

const userColumns = `id, username, display_name, bio, avatar_url, created_at`

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u       domain.User
		created int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Bio, &u.AvatarURL, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(created)
	return &u, nil
}

// CreateUser inserts a user. Usernames are unique.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, `SELECT 1 FROM users WHERE username = ? OR id = ?`, u.Username, u.ID)
		if err != nil {
			return errors.Wrap(err, "checking username")
		}
		if taken {
			return domain.ErrAlreadyExists
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			u.ID, u.Username, u.DisplayName, u.Bio, u.AvatarURL, millis(u.CreatedAt))
		if err != nil {
			return errors.Wrap(err, "inserting user")
		}
		s.log.Debug("user created: %s (%s)", u.Username, u.ID)
		return nil
	})
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading user")
	}
	return u, nil
}

// GetUser returns a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByUsername returns a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, "username = ?", username)
}

// UpdateUser replaces the profile fields. Username and ID are fixed.
func (s *SQLiteStore) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, bio = ?, avatar_url = ? WHERE id = ?`,
		u.DisplayName, u.Bio, u.AvatarURL, u.ID)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListUsers returns users ordered by username.
func (s *SQLiteStore) ListUsers(ctx context.Context, page domain.Page) ([]*domain.User, error) {
	page = page.Normalize()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username LIMIT ? OFFSET ?`, page.Limit, page.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	defer rows.Close()

	out := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning user")
		}
		out = append(out, u)
	}
	return out, errors.Wrap(rows.Err(), "iterating users")
}
