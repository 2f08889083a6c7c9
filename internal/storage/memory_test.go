package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

func TestMemoryStoreCRUD(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	session := &domain.CookSession{
		ID:          "test-session-1",
		RecipeID:    "test-recipe",
		RecipeTitle: "Test Recipe",
		Progress:    domain.CookProgress{Mode: domain.CookCollecting, Checked: []bool{false, false}, StepCount: 2},
		StartedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)

	// Mutating the loaded copy must not leak into the store.
	loaded.Progress.Checked[0] = true
	again, err := store.Load(ctx, "test-session-1")
	require.NoError(t, err)
	assert.False(t, again.Progress.Checked[0])

	_, err = store.Load(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, store.Delete(ctx, "test-session-1"))
	_, err = store.Load(ctx, "test-session-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "nonexistent"), domain.ErrNotFound)
}

func TestMemoryStoreListActiveFilters(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	now := time.Now()
	sessions := []*domain.CookSession{
		{ID: "s1", StartedAt: now.Add(-time.Minute), Progress: domain.CookProgress{Mode: domain.CookExecuting}},
		{ID: "s2", StartedAt: now.Add(-time.Hour), Progress: domain.CookProgress{Mode: domain.CookCollecting}},
		{ID: "s3", StartedAt: now, Progress: domain.CookProgress{Mode: domain.CookInactive}},
	}
	for _, s := range sessions {
		require.NoError(t, store.Save(ctx, s))
	}

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "s2", active[0].ID, "oldest first")
	assert.Equal(t, "s1", active[1].ID)
}
