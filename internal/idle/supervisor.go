// Package idle expires and nudges cook sessions that nobody is driving.
// Over HTTP the server never sees the user navigate away, so sessions that
// sit untouched past a TTL are exited on the user's behalf.
package idle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Exiter ends a cook session that has sat untouched since cutoff.
// *engine.Engine satisfies it.
type Exiter interface {
	ExitIfIdle(ctx context.Context, sessionID string, cutoff time.Time) (*engine.Snapshot, bool, error)
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor sweeps sessions.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithTTL sets how long a session may sit untouched before it is exited.
func WithTTL(d time.Duration) Option {
	return func(s *Supervisor) {
		s.ttl = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// WithWatcher also runs a nudge Watcher with the given options.
func WithWatcher(opts ...WatcherOption) Option {
	return func(s *Supervisor) {
		s.watcherEnabled = true
		s.watcherOpts = opts
	}
}

// Supervisor runs in the background and exits sessions idle longer than
// the TTL. Optionally runs a Watcher on a slower cycle that nudges users
// before their session expires.
type Supervisor struct {
	store        domain.SessionStore
	exiter       Exiter
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration
	ttl          time.Duration
	now          func() time.Time

	watcherEnabled bool
	watcherOpts    []WatcherOption
	watcher        *Watcher

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an idle supervisor. notifier may be nil.
func New(store domain.SessionStore, exiter Exiter, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		store:        store,
		exiter:       exiter,
		notifier:     notifier,
		log:          log,
		tickInterval: 30 * time.Second,
		ttl:          2 * time.Hour,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background sweep loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("idle supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(childCtx)
	}()

	if s.watcherEnabled && s.notifier != nil {
		opts := append([]WatcherOption{WithWatchClock(s.now)}, s.watcherOpts...)
		s.watcher = NewWatcher(s.store, s.notifier, s.log, opts...)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.watcher.Run(childCtx)
		}()
	}

	s.log.Info("idle supervisor started (tick=%s, ttl=%s)", s.tickInterval, s.ttl)
}

// Stop shuts down the supervisor and waits for its goroutines.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("idle supervisor stopped")
}

// Run starts the supervisor and blocks until ctx is cancelled. Suitable for
// an errgroup.
func (s *Supervisor) Run(ctx context.Context) error {
	s.Start(ctx)
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one cycle and returns how many sessions were exited.
func (s *Supervisor) Sweep(ctx context.Context) int {
	sessions, err := s.store.ListActive(ctx)
	if err != nil {
		s.log.Error("idle: listing active sessions: %v", err)
		return 0
	}

	now := s.now()
	cutoff := now.Add(-s.ttl)
	expired := 0
	for _, session := range sessions {
		idleFor := now.Sub(session.UpdatedAt)
		if idleFor < s.ttl {
			continue
		}

		// The list is a snapshot; the session may have moved on since.
		_, exited, err := s.exiter.ExitIfIdle(ctx, session.ID, cutoff)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			continue
		case err != nil:
			s.log.Error("idle: exiting session %s: %v", session.ID, err)
			continue
		case !exited:
			s.log.Debug("idle: session %s was used again, keeping it", session.ID)
			continue
		}
		expired++
		s.log.Info("idle: session %s (%s) expired after %s", session.ID, session.RecipeTitle, formatDuration(idleFor))

		if s.notifier != nil {
			msg := fmt.Sprintf("[Cook] Closed %s after %s without activity.", session.RecipeTitle, formatDuration(idleFor))
			if err := s.notifier.Notify(ctx, msg); err != nil {
				s.log.Error("idle: notifying expiry: %v", err)
			}
		}
	}
	return expired
}

// formatDuration returns a friendly rounded duration: seconds under a
// minute, minutes under an hour, hours beyond.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	totalSec := int(d.Seconds())
	switch {
	case totalSec < 60:
		return plural(totalSec, "second")
	case totalSec < 3600:
		return plural((totalSec+30)/60, "minute")
	default:
		return plural((totalSec+1800)/3600, "hour")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
