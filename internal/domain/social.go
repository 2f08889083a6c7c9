package domain

import "time"

// Follow is a directed edge in the social graph.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Collection is a named, user-owned list of recipes.
type Collection struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"` // normalised #rrggbb
	RecipeIDs   []string  `json:"recipe_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NotificationKind says what happened.
type NotificationKind string

const (
	NotifyFollow   NotificationKind = "follow"
	NotifyLike     NotificationKind = "like"
	NotifyBookmark NotificationKind = "bookmark"
)

// Notification tells UserID that ActorID did something.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	ActorID   string           `json:"actor_id"`
	Kind      NotificationKind `json:"kind"`
	RecipeID  string           `json:"recipe_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
