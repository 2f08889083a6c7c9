package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/recipe"
)

var (
	listQuery  string
	listLimit  int
	listOffset int
	showPlain  bool
	importUser string
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Browse and import recipes",
}

var recipesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRecipesList,
}

var recipesShowCmd = &cobra.Command{
	Use:   "show <recipe-id>",
	Short: "Print a recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipesShow,
}

var recipesImportCmd = &cobra.Command{
	Use:   "import <dir-or-file>",
	Short: "Import recipe YAML files",
	Long: `Imports one YAML recipe file, or every .yaml/.yml file in a directory.
A file's recipe ID defaults to its file name. Re-importing an unchanged file
does nothing; a changed file updates the stored recipe.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecipesImport,
}

func init() {
	recipesListCmd.Flags().StringVar(&listQuery, "search", "", "Only recipes matching this text")
	recipesListCmd.Flags().IntVar(&listLimit, "limit", domain.DefaultPageSize, "Maximum number of recipes")
	recipesListCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of recipes to skip")
	recipesShowCmd.Flags().BoolVar(&showPlain, "plain", false, "Print raw markdown")
	recipesImportCmd.Flags().StringVar(&importUser, "author", recipe.SeedAuthorID, "User ID that owns imported recipes")

	recipesCmd.AddCommand(recipesListCmd)
	recipesCmd.AddCommand(recipesShowCmd)
	recipesCmd.AddCommand(recipesImportCmd)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func runRecipesList(cmd *cobra.Command, args []string) error {
	a, err := openApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	page := domain.Page{Limit: listLimit, Offset: listOffset}
	var list []domain.RecipeSummary
	if q := strings.TrimSpace(listQuery); q != "" {
		list, err = a.store.Search(cmd.Context(), q, page)
	} else {
		list, err = a.store.List(cmd.Context(), page)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No recipes yet. Try \"recipebox seed\".")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{r.ID, r.Title, strings.Join(r.Tags, ", "), strconv.Itoa(r.LikeCount)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "TITLE", "TAGS", "LIKES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(out, t.String())
	return nil
}

func runRecipesShow(cmd *cobra.Command, args []string) error {
	a, err := openApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.store.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("recipe %s: %w", args[0], err)
	}

	md := recipe.Markdown(r)
	out := cmd.OutOrStdout()
	if showPlain {
		fmt.Fprint(out, md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("rendering recipe: %w", err)
	}
	fmt.Fprint(out, rendered)
	return nil
}

func runRecipesImport(cmd *cobra.Command, args []string) error {
	a, err := openApp("")
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	if importUser == recipe.SeedAuthorID {
		if err := ensureSeedUser(ctx, a.store); err != nil {
			return err
		}
	} else if _, err := a.store.GetUser(ctx, importUser); err != nil {
		return fmt.Errorf("author %s: %w", importUser, err)
	}

	importer := recipe.NewImporter(a.store, importUser, a.log)
	out := cmd.OutOrStdout()

	if recipe.IsRecipeFile(args[0]) {
		res, err := importer.ImportFile(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", args[0], res)
		return nil
	}

	counts, err := importer.ImportDir(ctx, args[0])
	fmt.Fprintf(out, "%s: %s\n", args[0], formatCounts(counts))
	return err
}

// formatCounts renders import results as "2 created, 1 updated, 0 unchanged",
// adding the skipped count when there is one.
func formatCounts(counts map[recipe.ImportResult]int) string {
	s := fmt.Sprintf("%d created, %d updated, %d unchanged",
		counts[recipe.ImportCreated], counts[recipe.ImportUpdated], counts[recipe.ImportUnchanged])
	if n := counts[recipe.ImportSkipped]; n > 0 {
		s += fmt.Sprintf(", %d skipped", n)
	}
	return s
}

func isAlreadyExists(err error) bool {
	return errors.Is(err, domain.ErrAlreadyExists)
}
