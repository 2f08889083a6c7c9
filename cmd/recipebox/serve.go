package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/recipebox/internal/api"
	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/idle"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/social"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the idle session sweeper and the recipe watcher",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	notifier := conversation.NewLogNotifier(a.log)
	sessions := storage.NewMemoryStore(a.log)
	eng := engine.New(a.store, sessions, a.log, engine.WithCookRecorder(a.store))
	svc := social.NewService(a.store, a.log, social.WithNotifier(notifier))
	server := api.New(svc, eng, a.log)

	supervisor := idle.New(sessions, eng, notifier, a.log,
		idle.WithTTL(a.cfg.GetSessionTTL()),
		idle.WithTickInterval(a.cfg.GetSweepInterval()),
		idle.WithWatcher(
			idle.WithNudgeAfter(a.cfg.GetNudgeAfter()),
			idle.WithWatchInterval(a.cfg.GetWatchInterval()),
		),
	)

	// Recipe setup runs before anything is started so a failure here leaves
	// no goroutine behind when the database closes.
	stopWatcher, err := loadRecipesDir(ctx, a)
	if err != nil {
		return err
	}
	defer stopWatcher()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, addr, a.cfg.GetReadTimeout(), a.cfg.GetWriteTimeout())
	})
	g.Go(func() error {
		return supervisor.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadRecipesDir imports the configured recipes directory and, when enabled,
// starts watching it. The returned func stops the watcher.
func loadRecipesDir(ctx context.Context, a *app) (func(), error) {
	dir := a.cfg.Storage.RecipesDir
	if dir == "" {
		return func() {}, nil
	}
	if err := ensureSeedUser(ctx, a.store); err != nil {
		return nil, err
	}

	importer := recipe.NewImporter(a.store, recipe.SeedAuthorID, a.log)
	counts, err := importer.ImportDir(ctx, dir)
	if err != nil {
		a.log.Warn("importing %s: %v", dir, err)
	}
	a.log.Info("recipes dir %s: %s", dir, formatCounts(counts))

	if !a.cfg.Storage.WatchRecipes {
		return func() {}, nil
	}
	watcher := recipe.NewDirWatcher(dir, importer, a.log)
	if err := watcher.Start(ctx); err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return watcher.Stop, nil
}
