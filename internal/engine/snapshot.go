package engine

import (
	"github.com/hammamikhairi/recipebox/internal/cookmode"
	"github.com/hammamikhairi/recipebox/internal/domain"
)

// IngredientView is one checklist line.
type IngredientView struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Snapshot is what a caller needs to render a cook session after an
// operation. Changed is false when the operation was a guarded no-op.
// Finished is set when the session ended by completing the last step.
type Snapshot struct {
	SessionID    string           `json:"session_id"`
	RecipeID     string           `json:"recipe_id"`
	RecipeTitle  string           `json:"recipe_title"`
	Mode         domain.CookMode  `json:"mode"`
	Ingredients  []IngredientView `json:"ingredients,omitempty"`
	AllCollected bool             `json:"all_collected"`
	Step         int              `json:"step"`
	StepCount    int              `json:"step_count"`
	Instruction  string           `json:"instruction,omitempty"`
	IsLastStep   bool             `json:"is_last_step"`
	Changed      bool             `json:"changed"`
	Finished     bool             `json:"finished"`
}

func snapshotOf(session *domain.CookSession, recipe *domain.Recipe, nav *cookmode.Navigator) *Snapshot {
	snap := &Snapshot{
		SessionID:   session.ID,
		RecipeID:    session.RecipeID,
		RecipeTitle: session.RecipeTitle,
		Mode:        nav.Mode(),
		Step:        nav.Step(),
	}
	if nav.Mode() == domain.CookInactive || recipe == nil {
		return snap
	}

	snap.StepCount = len(recipe.Instructions)
	snap.AllCollected = nav.AllCollected()
	snap.IsLastStep = nav.IsLastStep()
	snap.Ingredients = make([]IngredientView, len(recipe.Ingredients))
	for i, text := range recipe.Ingredients {
		snap.Ingredients[i] = IngredientView{Text: text, Checked: nav.Checked(i)}
	}
	if text, ok := nav.Instruction(); ok {
		snap.Instruction = text
	}
	return snap
}
