package domain

import "context"

// RecipeSource provides recipes. Implementations can be in-memory (seeded
// or loaded from YAML files) or backed by SQLite.
type RecipeSource interface {
	List(ctx context.Context, page Page) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, query string, page Page) ([]RecipeSummary, error)
}

// RecipeStore is a RecipeSource that also accepts writes.
type RecipeStore interface {
	RecipeSource
	Create(ctx context.Context, recipe *Recipe) error
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id string) error
	ListByAuthor(ctx context.Context, authorID string, page Page) ([]RecipeSummary, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	IncrementCookCount(ctx context.Context, id string) error
}

// UserStore persists user profiles.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context, page Page) ([]*User, error)
}

// SocialStore persists follows, likes and bookmarks. Writes are idempotent:
// the bool result reports whether anything changed.
type SocialStore interface {
	Follow(ctx context.Context, followerID, followeeID string) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
	AllFollows(ctx context.Context) ([]Follow, error)

	Like(ctx context.Context, userID, recipeID string) (bool, error)
	Unlike(ctx context.Context, userID, recipeID string) (bool, error)
	HasLiked(ctx context.Context, userID, recipeID string) (bool, error)

	Bookmark(ctx context.Context, userID, recipeID string) (bool, error)
	Unbookmark(ctx context.Context, userID, recipeID string) (bool, error)
	Bookmarks(ctx context.Context, userID string, page Page) ([]RecipeSummary, error)

	Feed(ctx context.Context, userID string, page Page) ([]RecipeSummary, error)
}

// CollectionStore persists recipe collections.
type CollectionStore interface {
	CreateCollection(ctx context.Context, c *Collection) error
	GetCollection(ctx context.Context, id string) (*Collection, error)
	UpdateCollection(ctx context.Context, c *Collection) error
	DeleteCollection(ctx context.Context, id string) error
	ListCollections(ctx context.Context, ownerID string) ([]*Collection, error)
	AddToCollection(ctx context.Context, collectionID, recipeID string) error
	RemoveFromCollection(ctx context.Context, collectionID, recipeID string) error
}

// NotificationStore persists in-app notifications.
type NotificationStore interface {
	AddNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, page Page) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

// SessionStore holds cook sessions. Sessions are transient, so the only
// implementation is in-memory.
type SessionStore interface {
	Save(ctx context.Context, session *CookSession) error
	Load(ctx context.Context, id string) (*CookSession, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*CookSession, error)
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string, session *CookSession) (*Intent, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or fan out to several sinks.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
