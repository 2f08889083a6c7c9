package display

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Proceed  key.Binding
	Next     key.Binding
	Previous key.Binding
	Command  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "check"),
		),
		Proceed: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start cooking"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "n", "l"),
			key.WithHelp("→/n", "next step"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left", "p", "h"),
			key.WithHelp("←/p", "previous step"),
		),
		Command: key.NewBinding(
			key.WithKeys(":", "/"),
			key.WithHelp(":", "type a command"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "stop cooking"),
		),
	}
}

// forMode enables only the bindings that do something in mode.
func (k *keyMap) forMode(mode domain.CookMode) {
	collecting := mode == domain.CookCollecting
	executing := mode == domain.CookExecuting
	k.Up.SetEnabled(collecting)
	k.Down.SetEnabled(collecting)
	k.Toggle.SetEnabled(collecting)
	k.Proceed.SetEnabled(collecting)
	k.Next.SetEnabled(executing)
	k.Previous.SetEnabled(executing)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Proceed, k.Next, k.Previous, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Proceed},
		{k.Next, k.Previous},
		{k.Command, k.Help, k.Quit},
	}
}
