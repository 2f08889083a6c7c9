package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

type fixture struct {
	eng     *Engine
	recipes *recipe.MemorySource
	store   *storage.MemoryStore
	ctx     context.Context
}

func setupEngine(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	recipes := recipe.NewMemorySource(log)
	store := storage.NewMemoryStore(log)
	opts = append([]Option{WithCookRecorder(recipes)}, opts...)
	return &fixture{
		eng:     New(recipes, store, log, opts...),
		recipes: recipes,
		store:   store,
		ctx:     context.Background(),
	}
}

// addRecipe stores a recipe with the given number of ingredients and steps.
func (f *fixture) addRecipe(t *testing.T, id string, ingredients, instructions int) {
	t.Helper()
	r := &domain.Recipe{ID: id, Title: id}
	for i := 0; i < ingredients; i++ {
		r.Ingredients = append(r.Ingredients, "ingredient")
	}
	for i := 0; i < instructions; i++ {
		r.Instructions = append(r.Instructions, "instruction")
	}
	require.NoError(t, f.recipes.Create(f.ctx, r))
}

func TestStartSession(t *testing.T) {
	f := setupEngine(t)

	tests := []struct {
		name     string
		recipeID string
		wantErr  error
	}{
		{"valid recipe", "chicken-alfredo", nil},
		{"another recipe", "vegetable-stir-fry", nil},
		{"unknown recipe", "nonexistent", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := f.eng.StartSession(f.ctx, tt.recipeID, "alice")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.ID)
			assert.Equal(t, "alice", session.UserID)
			assert.Equal(t, domain.CookCollecting, session.Progress.Mode)
			assert.Zero(t, session.Progress.CheckedCount())

			r, err := f.recipes.Get(f.ctx, tt.recipeID)
			require.NoError(t, err)
			assert.Len(t, session.Progress.Checked, len(r.Ingredients))
		})
	}
}

func TestScenarioFullRun(t *testing.T) {
	f := setupEngine(t)
	f.addRecipe(t, "three-two", 3, 2)

	session, err := f.eng.StartSession(f.ctx, "three-two", "")
	require.NoError(t, err)
	id := session.ID

	for i := 0; i < 3; i++ {
		snap, err := f.eng.ToggleIngredient(f.ctx, id, i)
		require.NoError(t, err)
		assert.True(t, snap.Changed)
	}

	snap, err := f.eng.Proceed(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.Changed)
	assert.Equal(t, domain.CookExecuting, snap.Mode)
	assert.Equal(t, 0, snap.Step)
	assert.Equal(t, "instruction", snap.Instruction)

	snap, err = f.eng.Next(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Step)
	assert.True(t, snap.IsLastStep)

	snap, err = f.eng.Next(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.Finished)
	assert.Equal(t, domain.CookInactive, snap.Mode)

	// Finished sessions are discarded and counted.
	_, err = f.eng.Status(f.ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	r, err := f.recipes.Get(f.ctx, "three-two")
	require.NoError(t, err)
	assert.Equal(t, 1, r.CookCount)
}

func TestScenarioPartialChecklist(t *testing.T) {
	f := setupEngine(t)
	f.addRecipe(t, "three-two", 3, 2)

	session, err := f.eng.StartSession(f.ctx, "three-two", "")
	require.NoError(t, err)

	_, err = f.eng.ToggleIngredient(f.ctx, session.ID, 0)
	require.NoError(t, err)

	snap, err := f.eng.Proceed(f.ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, snap.Changed)
	assert.Equal(t, domain.CookCollecting, snap.Mode)
	assert.False(t, snap.AllCollected)
	assert.Empty(t, snap.Instruction)
}

func TestGuardedNoops(t *testing.T) {
	f := setupEngine(t)
	f.addRecipe(t, "r", 2, 3)

	session, err := f.eng.StartSession(f.ctx, "r", "")
	require.NoError(t, err)
	id := session.ID

	tests := []struct {
		name string
		op   func() (*Snapshot, error)
	}{
		{"toggle out of range", func() (*Snapshot, error) { return f.eng.ToggleIngredient(f.ctx, id, 7) }},
		{"negative toggle", func() (*Snapshot, error) { return f.eng.ToggleIngredient(f.ctx, id, -1) }},
		{"next while collecting", func() (*Snapshot, error) { return f.eng.Next(f.ctx, id) }},
		{"previous while collecting", func() (*Snapshot, error) { return f.eng.Previous(f.ctx, id) }},
		{"proceed with nothing checked", func() (*Snapshot, error) { return f.eng.Proceed(f.ctx, id) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := tt.op()
			require.NoError(t, err)
			assert.False(t, snap.Changed)
			assert.Equal(t, domain.CookCollecting, snap.Mode)
		})
	}

	f.eng.ToggleIngredient(f.ctx, id, 0)
	f.eng.ToggleIngredient(f.ctx, id, 1)
	_, err = f.eng.Proceed(f.ctx, id)
	require.NoError(t, err)

	snap, err := f.eng.Previous(f.ctx, id)
	require.NoError(t, err)
	assert.False(t, snap.Changed, "previous at step 0")
	assert.Equal(t, 0, snap.Step)

	snap, err = f.eng.ToggleIngredient(f.ctx, id, 0)
	require.NoError(t, err)
	assert.False(t, snap.Changed, "checklist frozen while executing")
	assert.True(t, snap.Ingredients[0].Checked)
}

func TestExitDiscardsSession(t *testing.T) {
	f := setupEngine(t)

	session, err := f.eng.StartSession(f.ctx, "soft-scrambled-eggs", "")
	require.NoError(t, err)
	_, err = f.eng.ToggleIngredient(f.ctx, session.ID, 1)
	require.NoError(t, err)

	snap, err := f.eng.Exit(f.ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, snap.Changed)
	assert.False(t, snap.Finished)
	assert.Equal(t, domain.CookInactive, snap.Mode)
	assert.Empty(t, snap.Ingredients)

	_, err = f.eng.Exit(f.ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	r, err := f.recipes.Get(f.ctx, "soft-scrambled-eggs")
	require.NoError(t, err)
	assert.Zero(t, r.CookCount, "exit is not a finished cook")
}

func TestExitIfIdle(t *testing.T) {
	start := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	now := start
	f := setupEngine(t, WithClock(func() time.Time { return now }))

	session, err := f.eng.StartSession(f.ctx, "soft-scrambled-eggs", "")
	require.NoError(t, err)

	now = start.Add(time.Hour)
	_, err = f.eng.ToggleIngredient(f.ctx, session.ID, 0)
	require.NoError(t, err)

	snap, exited, err := f.eng.ExitIfIdle(f.ctx, session.ID, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.False(t, exited, "touched after the cutoff")
	assert.Equal(t, domain.CookCollecting, snap.Mode)
	_, err = f.store.Load(f.ctx, session.ID)
	require.NoError(t, err)

	snap, exited, err = f.eng.ExitIfIdle(f.ctx, session.ID, start.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, exited)
	assert.Equal(t, domain.CookInactive, snap.Mode)
	_, err = f.store.Load(f.ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = f.eng.ExitIfIdle(f.ctx, session.ID, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeEditMidSessionIsIgnored(t *testing.T) {
	f := setupEngine(t)
	f.addRecipe(t, "r", 1, 2)

	session, err := f.eng.StartSession(f.ctx, "r", "")
	require.NoError(t, err)

	edited := &domain.Recipe{ID: "r", Title: "r", Ingredients: []string{"a", "b", "c"}, Instructions: []string{"x"}}
	require.NoError(t, f.recipes.Update(f.ctx, edited))

	snap, err := f.eng.Status(f.ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, snap.Ingredients, 1)
	assert.Equal(t, 2, snap.StepCount)
}

func TestZeroIngredientRecipe(t *testing.T) {
	f := setupEngine(t)
	f.addRecipe(t, "no-shopping", 0, 1)

	session, err := f.eng.StartSession(f.ctx, "no-shopping", "")
	require.NoError(t, err)

	snap, err := f.eng.Proceed(f.ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, snap.Changed)

	text, ok, err := f.eng.CurrentInstruction(f.ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "instruction", text)

	snap, err = f.eng.Next(f.ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, snap.Finished)
}

func TestFinishHook(t *testing.T) {
	var finished []string
	f := setupEngine(t, WithFinishHook(func(_ context.Context, s *domain.CookSession) {
		finished = append(finished, s.RecipeID)
	}))
	f.addRecipe(t, "r", 0, 1)

	session, err := f.eng.StartSession(f.ctx, "r", "")
	require.NoError(t, err)
	_, err = f.eng.Proceed(f.ctx, session.ID)
	require.NoError(t, err)
	_, err = f.eng.Next(f.ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"r"}, finished)
}

func TestUnknownSession(t *testing.T) {
	f := setupEngine(t)

	_, err := f.eng.Next(f.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = f.eng.CurrentInstruction(f.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.eng.Session(f.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentToggles(t *testing.T) {
	f := setupEngine(t)
	f.addRecipe(t, "many", 50, 1)

	session, err := f.eng.StartSession(f.ctx, "many", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.eng.ToggleIngredient(f.ctx, session.ID, i)
		}(i)
	}
	wg.Wait()

	snap, err := f.eng.Status(f.ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, snap.AllCollected, "no toggle was lost")
}

func TestListRecipes(t *testing.T) {
	f := setupEngine(t)

	list, err := f.eng.ListRecipes(f.ctx, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, list, len(recipe.Builtin()))

	r, err := f.eng.GetRecipe(f.ctx, "chicken-alfredo")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Alfredo", r.Title)
}
