package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gamedeck/internal/adapter"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/debounce"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/pager"
)

// requestTimeout bounds every catalog call made from the TUI
const requestTimeout = 30 * time.Second

// Command factories for async operations

// LoadHomeCmd loads the home screen sections
func LoadHomeCmd(svc *browse.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		data, err := svc.Home(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: ctxHome}
		}
		return HomeLoadedMsg{Data: data}
	}
}

// QuickSearchCmd searches for query. The query travels with the results
// so stale responses can be recognized.
func QuickSearchCmd(svc *browse.Service, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		games, err := svc.QuickSearch(ctx, query)
		return QuickSearchResultsMsg{Query: query, Games: games, Err: err}
	}
}

// FetchGamesCmd runs one games list request issued by ctrl
func FetchGamesCmd(ctrl *browse.GamesController, req pager.Request[domain.Filter]) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return GamesPageMsg{Result: ctrl.Fetch(ctx, req)}
	}
}

// LoadFacetsCmd loads genres and platforms for the pickers
func LoadFacetsCmd(svc *browse.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		facets, err := svc.Facets(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: ctxFacets}
		}
		return FacetsLoadedMsg{Facets: facets}
	}
}

// LoadDetailCmd loads a game and its reviews
func LoadDetailCmd(svc *browse.Service, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		data, err := svc.Detail(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: ctxDetail}
		}
		return DetailLoadedMsg{GameID: id, Data: data}
	}
}

// SubmitReviewCmd posts a review
func SubmitReviewCmd(svc *browse.Service, id int, in domain.ReviewInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		review, err := svc.SubmitReview(ctx, id, in)
		if err != nil {
			return ReviewFailedMsg{GameID: id, Err: err}
		}
		return ReviewSubmittedMsg{GameID: id, Review: review}
	}
}

// OpenLinkCmd opens a link in the browser
func OpenLinkCmd(launcher *adapter.Launcher, link string) tea.Cmd {
	return func() tea.Msg {
		if err := launcher.Launch(link); err != nil {
			return ErrMsg{Err: err, Context: ctxOpening}
		}
		return LinkOpenedMsg{URL: link}
	}
}

// DebounceCmd arms a timer for ticket; wrap turns the ticket into the
// message the screen expects back.
func DebounceCmd[T any](c *debounce.Coordinator[T], ticket debounce.Ticket, wrap func(debounce.Ticket) tea.Msg) tea.Cmd {
	return tea.Tick(c.Delay(), func(time.Time) tea.Msg {
		return wrap(ticket)
	})
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears the status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
