package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/recipe"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in sample recipes into the database",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := openApp("")
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	if err := ensureSeedUser(ctx, a.store); err != nil {
		return err
	}

	importer := recipe.NewImporter(a.store, recipe.SeedAuthorID, a.log)
	counts := make(map[recipe.ImportResult]int)
	for _, r := range recipe.Builtin() {
		res, err := importer.Import(ctx, r)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", r.ID, err)
		}
		counts[res]++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded: %s\n", formatCounts(counts))
	return nil
}
