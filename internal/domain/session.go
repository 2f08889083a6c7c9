package domain

import "time"

// CookMode is the phase of a guided cooking session.
type CookMode int

const (
	// CookInactive means no session is running.
	CookInactive CookMode = iota
	// CookCollecting means the user is ticking off ingredients.
	CookCollecting
	// CookExecuting means the user is walking through instructions.
	CookExecuting
)

// String returns a human-readable mode.
func (m CookMode) String() string {
	switch m {
	case CookInactive:
		return "inactive"
	case CookCollecting:
		return "collecting"
	case CookExecuting:
		return "executing"
	default:
		return "unknown"
	}
}

// MarshalText renders the mode by name in JSON payloads.
func (m CookMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// CookProgress is the navigator state: one flag per ingredient and a
// 0-based step index into the instructions.
type CookProgress struct {
	Mode      CookMode `json:"mode"`
	Checked   []bool   `json:"checked"`
	Step      int      `json:"step"`
	StepCount int      `json:"step_count"`
}

// AllChecked reports whether every ingredient flag is set. An empty
// checklist counts as complete.
func (p CookProgress) AllChecked() bool {
	for _, c := range p.Checked {
		if !c {
			return false
		}
	}
	return true
}

// CheckedCount returns the number of set flags.
func (p CookProgress) CheckedCount() int {
	n := 0
	for _, c := range p.Checked {
		if c {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no memory with p.
func (p CookProgress) Clone() CookProgress {
	out := p
	if p.Checked != nil {
		out.Checked = make([]bool, len(p.Checked))
		copy(out.Checked, p.Checked)
	}
	return out
}

// CookSession is one user's guided cooking run over one recipe. It lives in
// memory only and is discarded when the user exits or finishes.
type CookSession struct {
	ID          string       `json:"id"`
	RecipeID    string       `json:"recipe_id"`
	RecipeTitle string       `json:"recipe_title"`
	UserID      string       `json:"user_id,omitempty"`
	Progress    CookProgress `json:"progress"`
	StartedAt   time.Time    `json:"started_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Active reports whether the session is still running.
func (s *CookSession) Active() bool {
	return s.Progress.Mode != CookInactive
}
