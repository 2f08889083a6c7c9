package idle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher checks session state.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithNudgeAfter sets how long a session must be idle before a nudge.
func WithNudgeAfter(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.nudgeAfter = d
	}
}

// WithWatchClock overrides the time source.
func WithWatchClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		w.now = now
	}
}

// Watcher periodically looks at active sessions and reminds the user about
// the ones they have left alone. Each idle stretch is nudged at most once;
// any activity on the session re-arms it.
type Watcher struct {
	store      domain.SessionStore
	notifier   domain.Notifier
	log        *logger.Logger
	interval   time.Duration
	nudgeAfter time.Duration
	now        func() time.Time

	mu sync.Mutex
	// nudged maps session ID to the UpdatedAt value that was nudged.
	nudged map[string]time.Time
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(store domain.SessionStore, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		store:      store,
		notifier:   notifier,
		log:        log,
		interval:   5 * time.Minute,
		nudgeAfter: 15 * time.Minute,
		now:        time.Now,
		nudged:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("idle watcher started (interval=%s, nudge after %s)", w.interval, w.nudgeAfter)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("idle watcher stopped")
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check runs one watcher cycle and returns how many nudges were sent.
func (w *Watcher) Check(ctx context.Context) int {
	sessions, err := w.store.ListActive(ctx)
	if err != nil {
		w.log.Error("watcher: listing active sessions: %v", err)
		return 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	live := make(map[string]bool, len(sessions))
	sent := 0
	for _, session := range sessions {
		live[session.ID] = true

		idleFor := now.Sub(session.UpdatedAt)
		if idleFor < w.nudgeAfter {
			continue
		}
		if at, ok := w.nudged[session.ID]; ok && at.Equal(session.UpdatedAt) {
			continue
		}

		msg := NudgeMessage(session)
		if err := w.notifier.Notify(ctx, msg); err != nil {
			w.log.Error("watcher: notify: %v", err)
			continue
		}
		w.nudged[session.ID] = session.UpdatedAt
		sent++
		w.log.Debug("watcher: nudged session %s idle for %s", session.ID, formatDuration(idleFor))
	}

	for id := range w.nudged {
		if !live[id] {
			delete(w.nudged, id)
		}
	}
	return sent
}

// NudgeMessage describes where a session is left off.
func NudgeMessage(session *domain.CookSession) string {
	p := session.Progress
	switch p.Mode {
	case domain.CookCollecting:
		return fmt.Sprintf("[Cook] Still cooking %s? %d of %d ingredients ready.",
			session.RecipeTitle, p.CheckedCount(), len(p.Checked))
	case domain.CookExecuting:
		if p.StepCount == 0 {
			return fmt.Sprintf("[Cook] Still cooking %s?", session.RecipeTitle)
		}
		return fmt.Sprintf("[Cook] Still cooking %s? You're on step %d of %d.",
			session.RecipeTitle, p.Step+1, p.StepCount)
	default:
		return ""
	}
}
