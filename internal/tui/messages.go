package tui

import (
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/debounce"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/pager"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// HomeLoadedMsg carries the home screen sections
type HomeLoadedMsg struct {
	Data *browse.HomeData
}

// QuickSearchTickMsg fires when the quick search debounce delay passes
type QuickSearchTickMsg struct {
	Ticket debounce.Ticket
}

// QuickSearchResultsMsg carries quick search results for Query
type QuickSearchResultsMsg struct {
	Query string
	Games []domain.Game
	Err   error
}

// FilterTickMsg fires when the games filter debounce delay passes
type FilterTickMsg struct {
	Ticket debounce.Ticket
}

// GamesPageMsg carries a completed games list fetch
type GamesPageMsg struct {
	Result pager.Result[domain.Filter, domain.Game]
}

// FacetsLoadedMsg carries genre and platform picker values
type FacetsLoadedMsg struct {
	Facets *browse.Facets
}

// DetailLoadedMsg carries a game and its reviews
type DetailLoadedMsg struct {
	GameID int
	Data   *browse.DetailData
}

// ReviewSubmittedMsg signals that a review was accepted by the server
type ReviewSubmittedMsg struct {
	GameID int
	Review *domain.UserReview
}

// ReviewFailedMsg signals that a review was rejected
type ReviewFailedMsg struct {
	GameID int
	Err    error
}

// LinkOpenedMsg signals that a link was handed to the browser
type LinkOpenedMsg struct {
	URL string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
