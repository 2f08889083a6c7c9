package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// AddNotification stores a notification for n.UserID.
func (s *SQLiteStore) AddNotification(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, actor_id, kind, recipe_id, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.ActorID, string(n.Kind), n.RecipeID, n.Read, millis(n.CreatedAt))
	return errors.Wrap(err, "inserting notification")
}

// ListNotifications returns a user's notifications, newest first.
func (s *SQLiteStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool, page domain.Page) ([]*domain.Notification, error) {
	page = page.Normalize()
	query := `SELECT id, user_id, actor_id, kind, recipe_id, read, created_at FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	defer rows.Close()

	out := []*domain.Notification{}
	for rows.Next() {
		var (
			n    domain.Notification
			kind string
			ms   int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.ActorID, &kind, &n.RecipeID, &n.Read, &ms); err != nil {
			return nil, errors.Wrap(err, "scanning notification")
		}
		n.Kind = domain.NotificationKind(kind)
		n.CreatedAt = fromMillis(ms)
		out = append(out, &n)
	}
	return out, errors.Wrap(rows.Err(), "iterating notifications")
}

// MarkRead marks one of userID's notifications as read.
func (s *SQLiteStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?`, notificationID, userID)
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	if !changed(res) {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for userID and returns how
// many changed.
func (s *SQLiteStore) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0`, userID)
	if err != nil {
		return 0, errors.Wrap(err, "marking notifications read")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "counting marked notifications")
}

// UnreadCount returns how many notifications userID has not read.
func (s *SQLiteStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID).Scan(&n)
	return n, errors.Wrap(err, "counting unread notifications")
}
