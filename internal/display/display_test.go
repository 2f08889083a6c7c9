package display

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

type fixture struct {
	ctx     context.Context
	eng     *engine.Engine
	recipes *recipe.MemorySource
}

func setup(t *testing.T) (*fixture, Model) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	recipes := recipe.NewEmptySource(log)
	ctx := context.Background()
	require.NoError(t, recipes.Create(ctx, &domain.Recipe{
		ID:           "toast",
		Title:        "Toast",
		Ingredients:  []string{"bread", "butter"},
		Instructions: []string{"toast the bread", "butter it"},
	}))

	eng := engine.New(recipes, storage.NewMemoryStore(log), log, engine.WithCookRecorder(recipes))
	session, err := eng.StartSession(ctx, "toast", "ana")
	require.NoError(t, err)

	m, err := NewModel(ctx, eng, conversation.NewKeywordParser(log), session.ID)
	require.NoError(t, err)
	return &fixture{ctx: ctx, eng: eng, recipes: recipes}, m
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	right = tea.KeyMsg{Type: tea.KeyRight}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestChecklistThenSteps(t *testing.T) {
	f, m := setup(t)
	assert.Equal(t, domain.CookCollecting, m.Snapshot().Mode)
	assert.Contains(t, m.View(), "Gather your ingredients (0/2)")

	// Enter does nothing until everything is checked.
	m, _ = send(t, m, space, enter)
	assert.Equal(t, domain.CookCollecting, m.Snapshot().Mode)
	assert.Contains(t, m.View(), "1 ingredient(s) still unchecked")

	m, _ = send(t, m, down, space)
	assert.True(t, m.Snapshot().AllCollected)
	assert.Contains(t, m.View(), "Press enter")

	m, _ = send(t, m, enter)
	require.Equal(t, domain.CookExecuting, m.Snapshot().Mode)
	assert.Contains(t, m.View(), "Step 1 of 2")
	assert.Contains(t, m.View(), "toast the bread")

	// Space is a checklist key and does nothing here.
	m, _ = send(t, m, space, left)
	assert.Equal(t, 0, m.Snapshot().Step)

	m, cmd := send(t, m, right)
	assert.False(t, isQuit(cmd))
	assert.Contains(t, m.View(), "last step")

	m, cmd = send(t, m, runes("n"))
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Closed())
	assert.True(t, m.Snapshot().Finished)
	assert.Contains(t, m.View(), "Enjoy your Toast")

	r, err := f.recipes.Get(f.ctx, "toast")
	require.NoError(t, err)
	assert.Equal(t, 1, r.CookCount)
}

func TestCursorStaysOnList(t *testing.T) {
	_, m := setup(t)
	m, _ = send(t, m, runes("k"), runes("k"))
	assert.Equal(t, 0, m.cursor)
	m, _ = send(t, m, down, down, down)
	assert.Equal(t, 1, m.cursor)
}

func TestQuitExitsSession(t *testing.T) {
	f, m := setup(t)
	id := m.sessionID

	m, cmd := send(t, m, runes("q"))
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Closed())
	assert.False(t, m.Snapshot().Finished)

	_, err := f.eng.Status(f.ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommandLine(t *testing.T) {
	_, m := setup(t)

	m, _ = send(t, m, runes(":"))
	require.True(t, m.input.Focused())
	m, _ = send(t, m, runes("check 2"), enter)
	assert.False(t, m.input.Focused())
	assert.True(t, m.Snapshot().Ingredients[1].Checked)
	assert.Equal(t, 1, m.cursor)

	m, _ = send(t, m, runes(":"), runes("status"), enter)
	assert.Contains(t, m.View(), "1 of 2 ingredients ready")

	m, _ = send(t, m, runes(":"), runes("1"), enter)
	m, _ = send(t, m, runes(":"), runes("go"), enter)
	require.Equal(t, domain.CookExecuting, m.Snapshot().Mode)

	m, _ = send(t, m, runes(":"), runes("repeat"), enter)
	assert.Equal(t, "toast the bread", m.message)

	m, _ = send(t, m, runes(":"), runes("juggle"), enter)
	assert.True(t, m.urgent)
	assert.Contains(t, m.message, "Didn't catch")

	m, _ = send(t, m, runes(":"), runes("abc"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.input.Focused())
	assert.Empty(t, m.input.Value())

	_, cmd := send(t, m, runes(":"), runes("exit"), enter)
	assert.True(t, isQuit(cmd))
}

func TestSessionClosedElsewhere(t *testing.T) {
	f, m := setup(t)
	_, err := f.eng.Exit(f.ctx, m.sessionID)
	require.NoError(t, err)

	m, cmd := send(t, m, tickMsg{})
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Closed())
	assert.Contains(t, m.View(), "closed")
}

func TestHelpFollowsMode(t *testing.T) {
	_, m := setup(t)
	view := m.help.View(m.keys)
	assert.Contains(t, view, "check")
	assert.NotContains(t, view, "next step")

	m, _ = send(t, m, space, down, space, enter)
	view = m.help.View(m.keys)
	assert.Contains(t, view, "next step")
	assert.NotContains(t, view, "start cooking")
}

func TestTickFollowsModeChangedElsewhere(t *testing.T) {
	f, m := setup(t)
	for i := 0; i < 2; i++ {
		_, err := f.eng.ToggleIngredient(f.ctx, m.sessionID, i)
		require.NoError(t, err)
	}
	_, err := f.eng.Proceed(f.ctx, m.sessionID)
	require.NoError(t, err)

	m, cmd := send(t, m, tickMsg{})
	assert.False(t, isQuit(cmd))
	assert.Equal(t, domain.CookExecuting, m.Snapshot().Mode)
	view := m.help.View(m.keys)
	assert.Contains(t, view, "next step")
	assert.NotContains(t, view, "check")

	m, _ = send(t, m, right)
	assert.Equal(t, 1, m.Snapshot().Step)
}

func TestRenderBanner(t *testing.T) {
	out := renderBanner(100, "cook mode")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], " "))
	assert.Contains(t, lines[5], "cook mode")

	narrow := renderBanner(10, "")
	assert.False(t, strings.HasPrefix(narrow, " "+" "))
}
