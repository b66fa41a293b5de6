// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// BoardKeyMap holds the bindings active while the activity cards have focus.
type BoardKeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Actions
	Delete  key.Binding
	Refresh key.Binding
	Form    key.Binding

	// General
	Help   key.Binding
	Logs   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// FormKeyMap holds the bindings active while the signup form has focus.
// Everything else goes to the form's fields.
type FormKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cycle  key.Binding
	Leave  key.Binding
	Quit   key.Binding
}

// Board is the card list keymap.
var Board = BoardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "previous participant"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next participant"),
	),
	Delete: key.NewBinding(
		key.WithKeys("enter", "x"),
		key.WithHelp("enter/x", "unregister"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh activities"),
	),
	Form: key.NewBinding(
		key.WithKeys("tab", "s"),
		key.WithHelp("tab/s", "sign up form"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "debug log (with --debug)"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss message"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Form is the signup form keymap.
var Form = FormKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "sign up"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("left", "right"),
		key.WithHelp("←/→", "choose activity"),
	),
	Leave: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to activities"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// ShortHelp returns keybindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Delete, k.Form, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},                      // Navigation
		{k.Delete, k.Refresh, k.Form},       // Actions
		{k.Help, k.Logs, k.Escape, k.Quit}, // General
		{Form.Next, Form.Cycle, Form.Leave}, // Form
	}
}

// ShortHelp returns keybindings for the short help view.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Cycle, k.Submit, k.Leave}
}

// FullHelp returns keybindings for the full help view.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Cycle, k.Submit}, {k.Leave, k.Quit}}
}
