package tui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeys are always active.
type GlobalKeys struct {
	Quit   key.Binding
	Help   key.Binding
	Tab    key.Binding
	Reset  key.Binding
	Drafts key.Binding
	Export key.Binding
}

var globalKeys = GlobalKeys{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch panel"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset"),
	),
	Drafts: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "drafts"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export feed"),
	),
}

// ListKeys navigate the focused panel.
type ListKeys struct {
	Up    key.Binding
	Down  key.Binding
	Top   key.Binding
	Enter key.Binding
}

var listKeys = ListKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "newest"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "details"),
	),
}

// TabSwitchKeys switch right panel tabs.
type TabSwitchKeys struct {
	Feed key.Binding
	Jobs key.Binding
}

var tabSwitchKeys = TabSwitchKeys{
	Feed: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "Feed"),
	),
	Jobs: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "Jobs"),
	),
}

// OverlayKeys are active when an overlay is shown.
type OverlayKeys struct {
	Close    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var overlayKeys = OverlayKeys{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "enter"),
		key.WithHelp("Esc", "close"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
	),
}

// ConfirmKeys for inline confirmation prompts.
type ConfirmKeys struct {
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

var confirmKeys = ConfirmKeys{
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	No: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "cancel"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
}
