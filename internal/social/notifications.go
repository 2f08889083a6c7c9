package social

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// notify stores a notification for recipientID and fans it out. Acting on
// your own content never notifies you. Failures are logged, not returned:
// the social action itself already succeeded.
func (s *Service) notify(ctx context.Context, recipientID, actorID string, kind domain.NotificationKind, recipeID string) {
	if recipientID == "" || recipientID == actorID {
		return
	}

	n := &domain.Notification{
		UserID:   recipientID,
		ActorID:  actorID,
		Kind:     kind,
		RecipeID: recipeID,
	}
	if err := s.store.AddNotification(ctx, n); err != nil {
		s.log.Error("storing %s notification for %s: %v", kind, recipientID, err)
		return
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, s.describe(ctx, n)); err != nil {
		s.log.Error("delivering notification %s: %v", n.ID, err)
	}
}

// describe renders a notification as one line of text.
func (s *Service) describe(ctx context.Context, n *domain.Notification) string {
	actor := n.ActorID
	if u, err := s.store.GetUser(ctx, n.ActorID); err == nil {
		actor = "@" + u.Username
	}
	title := n.RecipeID
	if n.RecipeID != "" {
		if r, err := s.store.Get(ctx, n.RecipeID); err == nil {
			title = r.Title
		}
	}

	switch n.Kind {
	case domain.NotifyFollow:
		return fmt.Sprintf("%s started following you", actor)
	case domain.NotifyLike:
		return fmt.Sprintf("%s liked %s", actor, title)
	case domain.NotifyBookmark:
		return fmt.Sprintf("%s saved %s", actor, title)
	default:
		return fmt.Sprintf("%s: %s", actor, n.Kind)
	}
}

// Notifications lists userID's notifications, newest first.
func (s *Service) Notifications(ctx context.Context, userID string, unreadOnly bool, page domain.Page) ([]*domain.Notification, error) {
	return s.store.ListNotifications(ctx, userID, unreadOnly, page)
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.store.MarkRead(ctx, userID, notificationID); err != nil {
		return fmt.Errorf("marking notification: %w", err)
	}
	return nil
}

// MarkAllRead marks every notification as read and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.store.MarkAllRead(ctx, userID)
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.UnreadCount(ctx, userID)
}
