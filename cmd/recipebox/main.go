// RecipeBox: share recipes, follow cooks, and cook along step by step.
//
// Usage:
//
//	recipebox serve
//	recipebox cook <recipe-id>
//	recipebox recipes list|show|import
//	recipebox seed
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/config"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

var (
	// Global flags
	configPath string
	envFile    string
	dbPath     string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "recipebox",
	Short: "RecipeBox: a social recipe box with a guided cook mode",
	Long: `RecipeBox stores recipes, lets cooks follow each other and save
favourites, and walks you through a recipe one ingredient and one step at a
time.

Run "recipebox seed" once to load the sample recipes, then "recipebox cook
<recipe-id>" to start cooking or "recipebox serve" to run the HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "recipebox.yaml", "Config file (missing file means defaults)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with RECIPEBOX_* overrides")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable all logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cookCmd)
	rootCmd.AddCommand(recipesCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *storage.SQLiteStore

	closers []io.Closer
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.DatabasePath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openApp loads config, sets up logging and opens the database. When
// logFallback is set and the config names no log file, logs go there
// instead of stderr.
func openApp(logFallback string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	level := cfg.LogLevel()
	if verbose {
		level = logger.LevelVerbose
	}
	if quiet {
		level = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = logFallback
	}
	if logFile != "" && logFile != "stderr" {
		if dir := filepath.Dir(logFile); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", logFile, err)
		} else {
			logOut = f
			a.closers = append(a.closers, f)
		}
	}
	a.log = logger.New(level, logOut)

	store, err := storage.OpenSQLite(cfg.Storage.DatabasePath, a.log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store
	return a, nil
}

// Close releases the database and log file.
func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
}

// ensureSeedUser creates the account that owns imported recipes.
func ensureSeedUser(ctx context.Context, store domain.UserStore) error {
	if _, err := store.GetUser(ctx, recipe.SeedAuthorID); err == nil {
		return nil
	}
	err := store.CreateUser(ctx, &domain.User{
		ID:          recipe.SeedAuthorID,
		Username:    recipe.SeedAuthorID,
		DisplayName: "RecipeBox",
		Bio:         "House recipes.",
	})
	if err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("creating seed user: %w", err)
	}
	return nil
}
