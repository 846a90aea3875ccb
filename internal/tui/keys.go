package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Back  key.Binding

	// Actions
	Quit        key.Binding
	Help        key.Binding
	Escape      key.Binding
	Filter      key.Binding
	QuickSearch key.Binding
	Browse      key.Binding
	Search      key.Binding
	Ordering    key.Binding
	Genre       key.Binding
	Platform    key.Binding
	ClearFilter key.Binding
	Refresh     key.Binding
	Review      key.Binding
	OpenLink    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next column"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "esc"),
			key.WithHelp("esc", "back"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close/cancel"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter loaded"),
		),
		QuickSearch: key.NewBinding(
			key.WithKeys("f", "ctrl+f"),
			key.WithHelp("f", "search"),
		),
		Browse: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "browse all games"),
		),
		Search: key.NewBinding(
			key.WithKeys("f", "ctrl+f"),
			key.WithHelp("f", "search"),
		),
		Ordering: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "ordering"),
		),
		Genre: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "genre"),
		),
		Platform: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "platform"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh/retry"),
		),
		Review: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "write review"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
	}
}

// Keys is the application key map
var Keys = DefaultKeyMap()
