package recipe

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Markdown renders a recipe as a markdown document for terminal display.
func Markdown(r *domain.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}

	var meta []string
	if r.Servings > 0 {
		meta = append(meta, fmt.Sprintf("**Serves** %d", r.Servings))
	}
	if total := r.TotalMinutes(); total > 0 {
		meta = append(meta, fmt.Sprintf("**Time** %d min", total))
	}
	if len(r.Tags) > 0 {
		meta = append(meta, "`"+strings.Join(r.Tags, "` `")+"`")
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "%s\n\n", strings.Join(meta, " · "))
	}

	if len(r.Ingredients) > 0 {
		b.WriteString("## Ingredients\n\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "- %s\n", ing)
		}
		b.WriteString("\n")
	}

	if len(r.Instructions) > 0 {
		b.WriteString("## Steps\n\n")
		for i, step := range r.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	return b.String()
}
