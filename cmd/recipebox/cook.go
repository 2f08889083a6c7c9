package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/idle"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

var (
	cookUser    string
	cookBuiltin bool
)

var cookCmd = &cobra.Command{
	Use:   "cook <recipe-id>",
	Short: "Cook a recipe in the terminal, one ingredient and one step at a time",
	Long: `Opens the guided cook mode for a recipe.

First tick off every ingredient (space toggles, enter starts cooking), then
walk through the steps with → and ←. Press : to type commands such as
"check 2", "next" or "status", and q to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runCook,
}

func init() {
	cookCmd.Flags().StringVarP(&cookUser, "user", "u", "", "User ID to record the session under")
	cookCmd.Flags().BoolVar(&cookBuiltin, "builtin", false, "Cook from the built-in recipes without touching the database")
}

func runCook(cmd *cobra.Command, args []string) error {
	a, err := openApp(filepath.Join(".recipebox", "cook.log"))
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	var recipes domain.RecipeStore = a.store
	if cookBuiltin {
		recipes = recipe.NewMemorySource(a.log)
	}

	sessions := storage.NewMemoryStore(a.log)
	eng := engine.New(recipes, sessions, a.log, engine.WithCookRecorder(recipes))

	session, err := eng.StartSession(ctx, args[0], cookUser)
	if err != nil {
		return err
	}

	ui, err := display.NewUI(ctx, eng, conversation.NewKeywordParser(a.log), session.ID)
	if err != nil {
		return err
	}

	notifier := conversation.NewCLINotifier(a.log, ui.Printf)
	supervisor := idle.New(sessions, eng, notifier, a.log,
		idle.WithTTL(a.cfg.GetSessionTTL()),
		idle.WithTickInterval(a.cfg.GetSweepInterval()),
		idle.WithWatcher(
			idle.WithNudgeAfter(a.cfg.GetNudgeAfter()),
			idle.WithWatchInterval(a.cfg.GetWatchInterval()),
		),
	)
	supervisor.Start(ctx)
	defer supervisor.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprint(out, display.RenderBanner("cooking "+session.RecipeTitle))

	final, err := ui.Run(ctx)
	if err != nil {
		return err
	}
	if final != nil && final.Finished {
		fmt.Fprintf(out, "Finished %s. Enjoy!\n", final.RecipeTitle)
	}
	return nil
}
