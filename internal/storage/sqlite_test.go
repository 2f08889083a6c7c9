package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// newTestStore opens an in-memory store whose clock advances one second per
// call, so ordering by time is deterministic.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(":memory:", logger.New(logger.LevelOff, nil))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func mustUser(t *testing.T, s *SQLiteStore, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, DisplayName: username}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mustRecipe(t *testing.T, s *SQLiteStore, authorID, title string, tags ...string) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		AuthorID:     authorID,
		Title:        title,
		Ingredients:  []string{"salt", "water"},
		Instructions: []string{"boil", "season"},
		Tags:         tags,
	}
	require.NoError(t, s.Create(context.Background(), r))
	return r
}

func TestSQLiteRecipeCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	r := mustRecipe(t, s, alice.ID, "Pasta", "italian")
	require.NotEmpty(t, r.ID)
	assert.Equal(t, 1, r.Version)

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got.Title)
	assert.Equal(t, []string{"salt", "water"}, got.Ingredients)
	assert.Equal(t, []string{"boil", "season"}, got.Instructions)
	assert.Equal(t, []string{"italian"}, got.Tags)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt))

	got.Title = "Better Pasta"
	got.Instructions = append(got.Instructions, "serve")
	require.NoError(t, s.Update(ctx, got))
	assert.Equal(t, 2, got.Version)

	again, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better Pasta", again.Title)
	assert.Len(t, again.Instructions, 3)
	assert.Equal(t, 2, again.Version)

	assert.ErrorIs(t, s.Create(ctx, &domain.Recipe{ID: r.ID, Title: "dup"}), domain.ErrAlreadyExists)

	require.NoError(t, s.Delete(ctx, r.ID))
	_, err = s.Get(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, r.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, r), domain.ErrNotFound)
}

func TestSQLiteListAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	first := mustRecipe(t, s, alice.ID, "Tomato Soup", "vegan")
	second := mustRecipe(t, s, bob.ID, "Beef Stew")
	third := mustRecipe(t, s, alice.ID, "Green Curry", "vegan", "thai")

	all, err := s.List(ctx, domain.Page{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, summaryIDs(all))

	paged, err := s.List(ctx, domain.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, summaryIDs(paged))

	vegan, err := s.Search(ctx, "VEGAN", domain.Page{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, third.ID}, summaryIDs(vegan))

	stew, err := s.Search(ctx, "stew", domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, summaryIDs(stew))

	for _, q := range []string{"100%", `"`, ",", "[", `vegan","thai`} {
		none, err := s.Search(ctx, q, domain.Page{})
		require.NoError(t, err)
		assert.Empty(t, none, "query %q", q)
	}

	thai, err := s.Search(ctx, "tha", domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID}, summaryIDs(thai))

	mine, err := s.ListByAuthor(ctx, alice.ID, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, first.ID}, summaryIDs(mine))

	n, err := s.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteCookCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := mustRecipe(t, s, "someone", "Toast")

	require.NoError(t, s.IncrementCookCount(ctx, r.ID))
	require.NoError(t, s.IncrementCookCount(ctx, r.ID))
	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CookCount)

	assert.ErrorIs(t, s.IncrementCookCount(ctx, "missing"), domain.ErrNotFound)
}

func TestSQLiteUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	assert.ErrorIs(t, s.CreateUser(ctx, &domain.User{Username: "alice"}), domain.ErrAlreadyExists)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	alice.Bio = "cooks a lot"
	require.NoError(t, s.UpdateUser(ctx, alice))
	got, err := s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "cooks a lot", got.Bio)

	mustUser(t, s, "bob")
	users, err := s.ListUsers(ctx, domain.Page{})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.UpdateUser(ctx, &domain.User{ID: "missing"}), domain.ErrNotFound)
}

func TestSQLiteFollowsAndFeed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	carol := mustUser(t, s, "carol")

	did, err := s.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, did)

	did, err = s.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, did, "second follow is a no-op")

	_, err = s.Follow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrSelfFollow)

	_, err = s.Follow(ctx, carol.ID, bob.ID)
	require.NoError(t, err)

	followers, err := s.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID, carol.ID}, followers)

	following, err := s.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, following)

	edges, err := s.AllFollows(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 2)

	mustRecipe(t, s, carol.ID, "Not in feed")
	older := mustRecipe(t, s, bob.ID, "Older")
	newer := mustRecipe(t, s, bob.ID, "Newer")

	feed, err := s.Feed(ctx, alice.ID, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{newer.ID, older.ID}, summaryIDs(feed))

	did, err = s.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, did)
	feed, err = s.Feed(ctx, alice.ID, domain.Page{})
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestSQLiteLikesAndBookmarks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	r1 := mustRecipe(t, s, "x", "One")
	r2 := mustRecipe(t, s, "x", "Two")

	did, err := s.Like(ctx, alice.ID, r1.ID)
	require.NoError(t, err)
	assert.True(t, did)
	did, err = s.Like(ctx, alice.ID, r1.ID)
	require.NoError(t, err)
	assert.False(t, did)

	got, err := s.Get(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)

	liked, err := s.HasLiked(ctx, alice.ID, r1.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	_, err = s.Like(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	did, err = s.Unlike(ctx, alice.ID, r1.ID)
	require.NoError(t, err)
	assert.True(t, did)
	got, err = s.Get(ctx, r1.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikeCount)

	_, err = s.Bookmark(ctx, alice.ID, r1.ID)
	require.NoError(t, err)
	_, err = s.Bookmark(ctx, alice.ID, r2.ID)
	require.NoError(t, err)

	saved, err := s.Bookmarks(ctx, alice.ID, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{r2.ID, r1.ID}, summaryIDs(saved))

	// Deleting a recipe removes it from bookmarks.
	require.NoError(t, s.Delete(ctx, r2.ID))
	saved, err = s.Bookmarks(ctx, alice.ID, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{r1.ID}, summaryIDs(saved))

	did, err = s.Unbookmark(ctx, alice.ID, r1.ID)
	require.NoError(t, err)
	assert.True(t, did)
}

func TestSQLiteCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	r1 := mustRecipe(t, s, alice.ID, "One")
	r2 := mustRecipe(t, s, alice.ID, "Two")

	c := &domain.Collection{OwnerID: alice.ID, Name: "Weeknight", Color: "#ff8800"}
	require.NoError(t, s.CreateCollection(ctx, c))
	require.NotEmpty(t, c.ID)

	require.NoError(t, s.AddToCollection(ctx, c.ID, r2.ID))
	require.NoError(t, s.AddToCollection(ctx, c.ID, r1.ID))
	require.NoError(t, s.AddToCollection(ctx, c.ID, r2.ID))
	assert.ErrorIs(t, s.AddToCollection(ctx, c.ID, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, s.AddToCollection(ctx, "missing", r1.ID), domain.ErrNotFound)

	got, err := s.GetCollection(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{r2.ID, r1.ID}, got.RecipeIDs)
	assert.Equal(t, "#ff8800", got.Color)

	got.Name = "Weekend"
	require.NoError(t, s.UpdateCollection(ctx, got))

	require.NoError(t, s.CreateCollection(ctx, &domain.Collection{OwnerID: alice.ID, Name: "Baking"}))
	list, err := s.ListCollections(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Baking", list[0].Name)
	assert.Equal(t, "Weekend", list[1].Name)
	assert.Len(t, list[1].RecipeIDs, 2)

	require.NoError(t, s.RemoveFromCollection(ctx, c.ID, r2.ID))
	assert.ErrorIs(t, s.RemoveFromCollection(ctx, c.ID, r2.ID), domain.ErrNotFound)

	require.NoError(t, s.DeleteCollection(ctx, c.ID))
	_, err = s.GetCollection(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteNotifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &domain.Notification{UserID: "u1", ActorID: "u2", Kind: domain.NotifyFollow}
	second := &domain.Notification{UserID: "u1", ActorID: "u3", Kind: domain.NotifyLike, RecipeID: "r1"}
	other := &domain.Notification{UserID: "u2", ActorID: "u1", Kind: domain.NotifyFollow}
	for _, n := range []*domain.Notification{first, second, other} {
		require.NoError(t, s.AddNotification(ctx, n))
	}

	list, err := s.ListNotifications(ctx, "u1", false, domain.Page{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, domain.NotifyLike, list[0].Kind)
	assert.Equal(t, "r1", list[0].RecipeID)

	require.NoError(t, s.MarkRead(ctx, "u1", first.ID))
	assert.ErrorIs(t, s.MarkRead(ctx, "u2", first.ID), domain.ErrNotFound, "not the owner")

	unread, err := s.ListNotifications(ctx, "u1", true, domain.Page{})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	count, err := s.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	marked, err := s.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	count, err = s.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteFileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recipebox.db")
	log := logger.New(logger.LevelOff, nil)

	s, err := OpenSQLite(path, log)
	require.NoError(t, err)
	u := &domain.User{Username: "alice", DisplayName: "Alice"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, log)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, path, s.Path())
}

func summaryIDs(list []domain.RecipeSummary) []string {
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	return ids
}
