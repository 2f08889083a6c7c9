// Package display provides the terminal cook mode using Bubble Tea.
//
// The [UI] type runs one cook session: a checklist view while ingredients
// are gathered, then a step view. Each key press performs exactly one
// engine operation on the Bubble Tea event loop. Notifications from other
// goroutines are printed above the rendered area via Program.Println, so
// concurrent writes never garble the display.
package display

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f4f4f5"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#27272a")).
			Background(lipgloss.Color("#bbf7d0")).
			Padding(0, 1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Strikethrough(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)

// Cooker is the part of the cooking engine the UI drives.
type Cooker interface {
	Status(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	ToggleIngredient(ctx context.Context, sessionID string, index int) (*engine.Snapshot, error)
	Proceed(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	Next(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	Previous(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	Exit(ctx context.Context, sessionID string) (*engine.Snapshot, error)
}

// ── UI ───────────────────────────────────────────────────────────

// UI runs one cook session in the terminal.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Printf] at any time.
type UI struct {
	program *tea.Program
	model   Model
	done    atomic.Bool
}

// NewUI loads the session and prepares the display. Call Run to start.
func NewUI(ctx context.Context, cook Cooker, parser domain.IntentParser, sessionID string) (*UI, error) {
	m, err := NewModel(ctx, cook, parser, sessionID)
	if err != nil {
		return nil, err
	}
	return &UI{model: m}, nil
}

// Printf prints formatted text above the cook view. Thread-safe.
func (u *UI) Printf(format string, a ...any) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// Run starts the Bubble Tea event loop and blocks until the session ends
// or the user quits. It returns the last snapshot seen.
func (u *UI) Run(ctx context.Context) (*engine.Snapshot, error) {
	u.program = tea.NewProgram(u.model, tea.WithContext(ctx))
	final, err := u.program.Run()
	u.done.Store(true)
	if m, ok := final.(Model); ok {
		return m.Snapshot(), err
	}
	return u.model.Snapshot(), err
}

// ── Bubble Tea model ─────────────────────────────────────────────

// Model is the cook-mode Bubble Tea model.
type Model struct {
	ctx       context.Context
	cook      Cooker
	parser    domain.IntentParser
	sessionID string

	snap    *engine.Snapshot
	cursor  int
	message string
	urgent  bool
	closed  bool

	keys  keyMap
	help  help.Model
	input textinput.Model
	width int
}

// NewModel loads the current state of sessionID.
func NewModel(ctx context.Context, cook Cooker, parser domain.IntentParser, sessionID string) (Model, error) {
	snap, err := cook.Status(ctx, sessionID)
	if err != nil {
		return Model{}, fmt.Errorf("loading session: %w", err)
	}

	ti := textinput.New()
	ti.Prompt = "cook> "
	ti.PromptStyle = promptStyle
	ti.Placeholder = "check 2, next, back, status, exit"
	ti.CharLimit = 80
	ti.Width = 50

	m := Model{
		ctx:       ctx,
		cook:      cook,
		parser:    parser,
		sessionID: sessionID,
		snap:      snap,
		keys:      defaultKeys(),
		help:      help.New(),
		input:     ti,
	}
	m.keys.forMode(snap.Mode)
	return m, nil
}

// Snapshot returns the last state the model rendered.
func (m Model) Snapshot() *engine.Snapshot { return m.snap }

// Closed reports whether the session has ended.
func (m Model) Closed() bool { return m.closed }

// Messages.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.SetWindowTitle("RecipeBox · "+m.snap.RecipeTitle))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if msg.Width > 8 {
			m.input.Width = msg.Width - 8
		}
		return m, nil

	case tickMsg:
		// Picks up sessions closed elsewhere, e.g. by the idle sweeper.
		snap, err := m.cook.Status(m.ctx, m.sessionID)
		if errors.Is(err, domain.ErrNotFound) {
			m.closed = true
			m.snap.Mode = domain.CookInactive
			m.say(true, "This session was closed.")
			return m, tea.Quit
		}
		if err == nil {
			m.snap = snap
			m.keys.forMode(snap.Mode)
		}
		return m, tickCmd()

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.exit()
	case tea.KeyEsc:
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyEnter:
		line := m.input.Value()
		m.input.Reset()
		m.input.Blur()
		return m.runCommand(line)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.exit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Command):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Ingredients)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		return m.apply(m.cook.ToggleIngredient(m.ctx, m.sessionID, m.cursor))
	case key.Matches(msg, m.keys.Proceed):
		return m.proceed()
	case key.Matches(msg, m.keys.Next):
		return m.apply(m.cook.Next(m.ctx, m.sessionID))
	case key.Matches(msg, m.keys.Previous):
		return m.apply(m.cook.Previous(m.ctx, m.sessionID))
	}
	return m, nil
}

// runCommand parses a typed line and performs the matching operation.
func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(line) == "" {
		return m, nil
	}
	session := &domain.CookSession{
		ID:       m.sessionID,
		RecipeID: m.snap.RecipeID,
		Progress: domain.CookProgress{Mode: m.snap.Mode},
	}
	intent, err := m.parser.Parse(m.ctx, line, session)
	if err != nil {
		m.say(true, err.Error())
		return m, nil
	}

	switch intent.Type {
	case domain.IntentToggleIngredient:
		n, err := strconv.Atoi(intent.Payload)
		if err != nil {
			m.say(true, "Which ingredient? Try \"check 2\".")
			return m, nil
		}
		if m.snap.Mode == domain.CookCollecting && n >= 1 && n <= len(m.snap.Ingredients) {
			m.cursor = n - 1
		}
		return m.apply(m.cook.ToggleIngredient(m.ctx, m.sessionID, n-1))
	case domain.IntentProceed:
		return m.proceed()
	case domain.IntentNext:
		return m.apply(m.cook.Next(m.ctx, m.sessionID))
	case domain.IntentPrevious:
		return m.apply(m.cook.Previous(m.ctx, m.sessionID))
	case domain.IntentExit:
		return m.exit()
	case domain.IntentRepeat:
		if m.snap.Instruction != "" {
			m.say(false, m.snap.Instruction)
		} else {
			m.say(false, m.status())
		}
	case domain.IntentStatus:
		m.say(false, m.status())
	case domain.IntentHelp:
		m.say(false, conversation.HelpText(m.snap.Mode))
	default:
		m.say(true, fmt.Sprintf("Didn't catch %q. %s", line, conversation.HelpText(m.snap.Mode)))
	}
	return m, nil
}

func (m Model) proceed() (tea.Model, tea.Cmd) {
	next, cmd := m.apply(m.cook.Proceed(m.ctx, m.sessionID))
	nm := next.(Model)
	if !nm.closed && !nm.urgent && !nm.snap.Changed && nm.snap.Mode == domain.CookCollecting {
		missing := 0
		for _, ing := range nm.snap.Ingredients {
			if !ing.Checked {
				missing++
			}
		}
		nm.say(true, fmt.Sprintf("%d ingredient(s) still unchecked.", missing))
	}
	return nm, cmd
}

func (m Model) exit() (tea.Model, tea.Cmd) {
	if !m.closed {
		if snap, err := m.cook.Exit(m.ctx, m.sessionID); err == nil {
			m.snap = snap
		}
		m.closed = true
	}
	return m, tea.Quit
}

// apply records the result of one engine operation.
func (m Model) apply(snap *engine.Snapshot, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			m.closed = true
			m.say(true, "This session was closed.")
			return m, tea.Quit
		}
		m.say(true, err.Error())
		return m, nil
	}

	m.snap = snap
	m.say(false, "")
	m.keys.forMode(snap.Mode)
	if snap.Mode == domain.CookInactive {
		m.closed = true
		if snap.Finished {
			m.say(false, "Done! Enjoy your "+snap.RecipeTitle+".")
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) say(urgent bool, msg string) {
	m.message = msg
	m.urgent = urgent
}

func (m Model) status() string {
	switch m.snap.Mode {
	case domain.CookCollecting:
		done := 0
		for _, ing := range m.snap.Ingredients {
			if ing.Checked {
				done++
			}
		}
		return fmt.Sprintf("%d of %d ingredients ready.", done, len(m.snap.Ingredients))
	case domain.CookExecuting:
		return fmt.Sprintf("Step %d of %d.", m.snap.Step+1, m.snap.StepCount)
	default:
		return "Not cooking."
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.snap.RecipeTitle))
	b.WriteString("  ")
	b.WriteString(modeStyle.Render(m.snap.Mode.String()))
	b.WriteString("\n\n")

	switch m.snap.Mode {
	case domain.CookCollecting:
		b.WriteString(m.viewChecklist())
	case domain.CookExecuting:
		b.WriteString(m.viewStep())
	default:
		if !m.snap.Finished {
			b.WriteString(hintStyle.Render("Session ended."))
			b.WriteByte('\n')
		}
	}

	if m.message != "" {
		b.WriteByte('\n')
		if m.urgent {
			b.WriteString(urgentStyle.Render(m.message))
		} else {
			b.WriteString(chatStyle.Render(m.message))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.input.Focused() {
		b.WriteString(m.input.View())
	} else if !m.closed {
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteByte('\n')
	return b.String()
}

func (m Model) viewChecklist() string {
	var b strings.Builder
	done := 0
	for _, ing := range m.snap.Ingredients {
		if ing.Checked {
			done++
		}
	}
	b.WriteString(stepStyle.Render(fmt.Sprintf("Gather your ingredients (%d/%d)", done, len(m.snap.Ingredients))))
	b.WriteString("\n\n")

	for i, ing := range m.snap.Ingredients {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		text := primaryStyle.Render(ing.Text)
		if ing.Checked {
			box = "[x]"
			text = checkedStyle.Render(ing.Text)
		}
		fmt.Fprintf(&b, "%s%s %2d. %s\n", pointer, box, i+1, text)
	}
	if m.snap.AllCollected {
		b.WriteString("\n")
		b.WriteString(chatStyle.Render("Everything's here. Press enter to start cooking."))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) viewStep() string {
	if m.snap.StepCount == 0 {
		return hintStyle.Render("This recipe has no steps. Press → to finish.") + "\n"
	}

	header := fmt.Sprintf("Step %d of %d", m.snap.Step+1, m.snap.StepCount)
	if m.snap.IsLastStep {
		header += " · last step"
	}

	width := m.width
	if width <= 0 || width > 80 {
		width = 80
	}
	body := primaryStyle.Width(width - 2).Render(m.snap.Instruction)
	return stepStyle.Render(header) + "\n\n" + body + "\n"
}
