// Package engine runs guided cooking sessions on top of the cookmode
// navigator. Each operation loads a session, applies exactly one navigator
// transition, saves the result and returns a snapshot for rendering.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/recipebox/internal/cookmode"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// CookRecorder is notified when a session reaches the end of a recipe.
// domain.RecipeStore satisfies it.
type CookRecorder interface {
	IncrementCookCount(ctx context.Context, recipeID string) error
}

// FinishHook is called after a session completes its last step.
type FinishHook func(ctx context.Context, session *domain.CookSession)

// Option configures the engine.
type Option func(*Engine)

// WithCookRecorder records finished sessions against the recipe.
func WithCookRecorder(r CookRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithFinishHook registers a callback for finished sessions.
func WithFinishHook(fn FinishHook) Option {
	return func(e *Engine) {
		e.onFinish = append(e.onFinish, fn)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine manages cooking sessions. It depends only on interfaces and is
// fully testable with in-memory implementations.
type Engine struct {
	recipes  domain.RecipeSource
	store    domain.SessionStore
	log      *logger.Logger
	recorder CookRecorder
	onFinish []FinishHook
	now      func() time.Time

	// mu serialises load-apply-save so two requests for the same session
	// never interleave.
	mu sync.Mutex
	// pinned holds the recipe each live session started with. Edits made
	// to a recipe mid-session do not reach the cook.
	pinned map[string]*domain.Recipe
}

// New creates a cooking engine with the given dependencies and options.
func New(recipes domain.RecipeSource, store domain.SessionStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		recipes: recipes,
		store:   store,
		log:     log,
		now:     time.Now,
		pinned:  make(map[string]*domain.Recipe),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListRecipes returns a page of available recipes.
func (e *Engine) ListRecipes(ctx context.Context, page domain.Page) ([]domain.RecipeSummary, error) {
	return e.recipes.List(ctx, page)
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, id)
}

// StartSession begins a new cooking session for the given recipe. The
// session starts in the collecting phase with nothing checked.
func (e *Engine) StartSession(ctx context.Context, recipeID, userID string) (*domain.CookSession, error) {
	recipe, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	nav := cookmode.New()
	nav.Start(recipe)

	now := e.now()
	session := &domain.CookSession{
		ID:          generateID(),
		RecipeID:    recipe.ID,
		RecipeTitle: recipe.Title,
		UserID:      userID,
		Progress:    nav.Progress(),
		StartedAt:   now,
		UpdatedAt:   now,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	e.pinned[session.ID] = recipe

	e.log.Info("started session %s for recipe %q (%d ingredients, %d steps)",
		session.ID, recipe.Title, len(recipe.Ingredients), len(recipe.Instructions))
	return session, nil
}

// Status returns the current snapshot without changing anything.
func (e *Engine) Status(ctx context.Context, sessionID string) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, recipe, nav, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return snapshotOf(session, recipe, nav), nil
}

// Session returns the raw session record.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.CookSession, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return session, nil
}

// CurrentInstruction returns the instruction at the current step. The bool
// is false outside the executing phase or when the recipe has no steps.
func (e *Engine) CurrentInstruction(ctx context.Context, sessionID string) (string, bool, error) {
	snap, err := e.Status(ctx, sessionID)
	if err != nil {
		return "", false, err
	}
	return snap.Instruction, snap.Instruction != "", nil
}

// ToggleIngredient flips the checklist flag at index (0-based).
func (e *Engine) ToggleIngredient(ctx context.Context, sessionID string, index int) (*Snapshot, error) {
	return e.apply(ctx, sessionID, "toggle", func(nav *cookmode.Navigator) (bool, bool) {
		return nav.ToggleIngredient(index), false
	})
}

// Proceed moves from collecting to executing once every ingredient is
// checked.
func (e *Engine) Proceed(ctx context.Context, sessionID string) (*Snapshot, error) {
	return e.apply(ctx, sessionID, "proceed", func(nav *cookmode.Navigator) (bool, bool) {
		return nav.Proceed(), false
	})
}

// Next advances one step. At the last step it finishes the session, records
// the cook and discards the session.
func (e *Engine) Next(ctx context.Context, sessionID string) (*Snapshot, error) {
	return e.apply(ctx, sessionID, "next", func(nav *cookmode.Navigator) (bool, bool) {
		switch nav.Next() {
		case cookmode.NextAdvanced:
			return true, false
		case cookmode.NextFinished:
			return true, true
		default:
			return false, false
		}
	})
}

// Previous goes back one step.
func (e *Engine) Previous(ctx context.Context, sessionID string) (*Snapshot, error) {
	return e.apply(ctx, sessionID, "previous", func(nav *cookmode.Navigator) (bool, bool) {
		return nav.Previous(), false
	})
}

// Exit abandons the session from any state. Its progress is discarded.
func (e *Engine) Exit(ctx context.Context, sessionID string) (*Snapshot, error) {
	return e.apply(ctx, sessionID, "exit", func(nav *cookmode.Navigator) (bool, bool) {
		nav.Exit()
		return true, false
	})
}

// ExitIfIdle exits the session only if it has not been touched after
// cutoff. The bool reports whether the session was exited; a session used
// since cutoff is left alone.
func (e *Engine) ExitIfIdle(ctx context.Context, sessionID string, cutoff time.Time) (*Snapshot, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, recipe, nav, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if session.UpdatedAt.After(cutoff) {
		return snapshotOf(session, recipe, nav), false, nil
	}

	nav.Exit()
	snap, err := e.commit(ctx, session, recipe, nav, "expire", true, false)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// apply runs one navigator transition under the engine lock. fn reports
// whether the state changed and whether the recipe was completed.
func (e *Engine) apply(ctx context.Context, sessionID, op string, fn func(*cookmode.Navigator) (bool, bool)) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, recipe, nav, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed, finished := fn(nav)
	return e.commit(ctx, session, recipe, nav, op, changed, finished)
}

// commit stores the navigator state back into the session, deleting it once
// it is no longer active. Callers hold mu.
func (e *Engine) commit(ctx context.Context, session *domain.CookSession, recipe *domain.Recipe, nav *cookmode.Navigator, op string, changed, finished bool) (*Snapshot, error) {
	session.Progress = nav.Progress()
	session.UpdatedAt = e.now()

	snap := snapshotOf(session, recipe, nav)
	snap.Changed = changed
	snap.Finished = finished

	if !session.Active() {
		if err := e.store.Delete(ctx, session.ID); err != nil {
			return nil, fmt.Errorf("deleting session: %w", err)
		}
		delete(e.pinned, session.ID)
		switch {
		case finished:
			e.log.Info("session %s finished %q", session.ID, session.RecipeTitle)
			e.finish(ctx, session)
		default:
			e.log.Info("session %s %s", session.ID, exitVerb(op))
		}
		return snap, nil
	}

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	if changed {
		e.log.Debug("session %s %s: mode=%s step=%d/%d", session.ID, op, snap.Mode, snap.Step+1, snap.StepCount)
	} else {
		e.log.Debug("session %s %s ignored in mode %s", session.ID, op, snap.Mode)
	}
	return snap, nil
}

func exitVerb(op string) string {
	if op == "expire" {
		return "expired"
	}
	return "exited"
}

// load fetches the session and rebuilds its navigator. Callers hold mu.
func (e *Engine) load(ctx context.Context, sessionID string) (*domain.CookSession, *domain.Recipe, *cookmode.Navigator, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading session: %w", err)
	}

	recipe, ok := e.pinned[sessionID]
	if !ok {
		recipe, err = e.recipes.Get(ctx, session.RecipeID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("getting recipe: %w", err)
		}
		e.pinned[sessionID] = recipe
	}
	return session, recipe, cookmode.Resume(recipe, session.Progress), nil
}

func (e *Engine) finish(ctx context.Context, session *domain.CookSession) {
	if e.recorder != nil {
		if err := e.recorder.IncrementCookCount(ctx, session.RecipeID); err != nil {
			e.log.Warn("recording cook of %s: %v", session.RecipeID, err)
		}
	}
	for _, fn := range e.onFinish {
		fn(ctx, session)
	}
}
