package components

import "github.com/charmbracelet/bubbles/key"

// ListColumnKeyMap defines key bindings for list column navigation
type ListColumnKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Escape   key.Binding
	Accept   key.Binding
	Filter   key.Binding
}

// DefaultListColumnKeyMap returns the default list column key bindings
func DefaultListColumnKeyMap() ListColumnKeyMap {
	return ListColumnKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("C-d", "half page down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept filter"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
	}
}

// PickerKeyMap defines key bindings for the genre and platform pickers
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
	Erase  key.Binding
}

// DefaultPickerKeyMap returns the default picker key bindings.
// Letters go to the filter, so only non-printing keys navigate.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "shift+tab"),
			key.WithHelp("↑/C-p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "tab"),
			key.WithHelp("↓/C-n", "next"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Erase: key.NewBinding(
			key.WithKeys("backspace"),
		),
	}
}

// ReviewFormKeyMap defines key bindings for the review form
type ReviewFormKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Escape key.Binding
}

// DefaultReviewFormKeyMap returns the default review form key bindings
func DefaultReviewFormKeyMap() ReviewFormKeyMap {
	return ReviewFormKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "submit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Package-level key map instances
var (
	ListColumnKeys = DefaultListColumnKeyMap()
	PickerKeys     = DefaultPickerKeyMap()
	ReviewFormKeys = DefaultReviewFormKeyMap()
)
