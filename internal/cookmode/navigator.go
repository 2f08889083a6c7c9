// Package cookmode implements the guided cooking navigator: an ingredient
// checklist followed by a linear walk through the recipe's instructions.
//
// States and transitions:
//
//	inactive   --Start-->     collecting
//	collecting --Proceed-->   executing   (only when every ingredient is checked)
//	executing  --Next/Prev--> executing   (within bounds)
//	executing  --Next@last--> inactive
//	any        --Exit-->      inactive
//
// Invalid calls are no-ops. Methods report whether they changed anything so
// callers can re-render only when needed.
package cookmode

import "github.com/hammamikhairi/recipebox/internal/domain"

// NextResult says what a call to Next did.
type NextResult int

const (
	// NextNoop means the navigator was not executing.
	NextNoop NextResult = iota
	// NextAdvanced means the step index moved forward by one.
	NextAdvanced
	// NextFinished means the last step was completed and the session ended.
	NextFinished
)

// String returns a human-readable result.
func (r NextResult) String() string {
	switch r {
	case NextAdvanced:
		return "advanced"
	case NextFinished:
		return "finished"
	default:
		return "noop"
	}
}

// Navigator tracks one cooking run. It is not safe for concurrent use; the
// owner drives it from a single event loop.
type Navigator struct {
	recipe   *domain.Recipe
	progress domain.CookProgress
}

// New returns an inactive navigator.
func New() *Navigator {
	return &Navigator{}
}

// Resume rebuilds a navigator from saved progress. Progress that does not
// fit the recipe is repaired: a checklist of the wrong length restarts
// collection, and an out-of-range step is clamped.
func Resume(recipe *domain.Recipe, p domain.CookProgress) *Navigator {
	n := New()
	if recipe == nil || p.Mode == domain.CookInactive {
		return n
	}

	n.Start(recipe)
	if len(p.Checked) != len(recipe.Ingredients) {
		return n
	}
	copy(n.progress.Checked, p.Checked)

	if p.Mode == domain.CookExecuting && n.progress.AllChecked() {
		n.progress.Mode = domain.CookExecuting
		n.progress.Step = clamp(p.Step, 0, n.lastIndex())
	}
	return n
}

// Start enters collecting mode for recipe with every ingredient unchecked.
// Starting while a session is running replaces it.
func (n *Navigator) Start(recipe *domain.Recipe) {
	if recipe == nil {
		n.Exit()
		return
	}
	n.recipe = recipe
	n.progress = domain.CookProgress{
		Mode:      domain.CookCollecting,
		Checked:   make([]bool, len(recipe.Ingredients)),
		Step:      0,
		StepCount: len(recipe.Instructions),
	}
}

// ToggleIngredient flips the flag at index. It does nothing outside
// collecting mode or when index is out of range.
func (n *Navigator) ToggleIngredient(index int) bool {
	if n.progress.Mode != domain.CookCollecting {
		return false
	}
	if index < 0 || index >= len(n.progress.Checked) {
		return false
	}
	n.progress.Checked[index] = !n.progress.Checked[index]
	return true
}

// Proceed moves from collecting to executing at step 0. It only succeeds
// once every ingredient is checked.
func (n *Navigator) Proceed() bool {
	if n.progress.Mode != domain.CookCollecting || !n.progress.AllChecked() {
		return false
	}
	n.progress.Mode = domain.CookExecuting
	n.progress.Step = 0
	return true
}

// Next advances one step. On the last step it finishes the session, which
// is the same as Exit.
func (n *Navigator) Next() NextResult {
	if n.progress.Mode != domain.CookExecuting {
		return NextNoop
	}
	if n.progress.Step < n.lastIndex() {
		n.progress.Step++
		return NextAdvanced
	}
	n.Exit()
	return NextFinished
}

// Previous steps back by one. Step 0 is a floor.
func (n *Navigator) Previous() bool {
	if n.progress.Mode != domain.CookExecuting || n.progress.Step == 0 {
		return false
	}
	n.progress.Step--
	return true
}

// Exit discards the session from any state.
func (n *Navigator) Exit() {
	n.recipe = nil
	n.progress = domain.CookProgress{Mode: domain.CookInactive}
}

// Mode returns the current phase.
func (n *Navigator) Mode() domain.CookMode { return n.progress.Mode }

// Step returns the 0-based instruction index.
func (n *Navigator) Step() int { return n.progress.Step }

// Recipe returns the recipe being cooked, or nil when inactive.
func (n *Navigator) Recipe() *domain.Recipe { return n.recipe }

// Checked reports the flag at index; out-of-range indexes are unchecked.
func (n *Navigator) Checked(index int) bool {
	if index < 0 || index >= len(n.progress.Checked) {
		return false
	}
	return n.progress.Checked[index]
}

// AllCollected reports whether Proceed would succeed.
func (n *Navigator) AllCollected() bool {
	return n.progress.Mode == domain.CookCollecting && n.progress.AllChecked()
}

// IsLastStep reports whether Next would finish the session.
func (n *Navigator) IsLastStep() bool {
	return n.progress.Mode == domain.CookExecuting && n.progress.Step >= n.lastIndex()
}

// Instruction returns the text of the current step.
func (n *Navigator) Instruction() (string, bool) {
	if n.progress.Mode != domain.CookExecuting || n.recipe == nil {
		return "", false
	}
	if n.progress.Step >= len(n.recipe.Instructions) {
		return "", false
	}
	return n.recipe.Instructions[n.progress.Step], true
}

// Progress returns a copy of the navigator state.
func (n *Navigator) Progress() domain.CookProgress {
	return n.progress.Clone()
}

func (n *Navigator) lastIndex() int {
	return n.progress.StepCount - 1
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
