package tui

import (
	"log/slog"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, svc *browse.Service) Model {
	t.Helper()
	m := NewModel(svc, nil, slog.New(slog.DiscardHandler), Options{
		FilterDebounce: testDelay,
		SearchDebounce: testDelay,
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// settle feeds the messages produced by cmd back into the model until
// no command is left. Messages matching skip are dropped.
func settle(t *testing.T, m Model, cmd tea.Cmd, skip func(tea.Msg) bool) Model {
	t.Helper()
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		if skip != nil && skip(msg) {
			continue
		}
		var next tea.Cmd
		m, next = update(t, m, msg)
		queue = append(queue, collect(next)...)
	}
	return m
}

// onlyData drops timers and input noise so settle terminates
func onlyData(msg tea.Msg) bool {
	switch msg.(type) {
	case HomeLoadedMsg, GamesPageMsg, FacetsLoadedMsg, DetailLoadedMsg,
		QuickSearchTickMsg, QuickSearchResultsMsg, FilterTickMsg, ErrMsg:
		return false
	}
	return true
}

func TestModelBrowseAndBack(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 45, 20)
	m := newTestModel(t, svc)

	m = settle(t, m, LoadHomeCmd(svc), onlyData)
	require.True(t, m.home.loaded)
	assert.NotEmpty(t, m.home.popular)

	m, cmd := update(t, m, keyRunes("b"))
	assert.Equal(t, ScreenGames, m.screen)
	assert.Equal(t, []Screen{ScreenHome}, m.history)

	// the first page does not fill the window, so a second one follows
	m = settle(t, m, cmd, onlyData)
	assert.Len(t, m.games.games, 40)
	require.NotNil(t, m.games.facets)
	assert.Contains(t, m.games.facets.Genres, "RPG")
	assert.Len(t, srv.RequestsTo("/api/games/genres"), 1)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenHome, m.screen)
	assert.Empty(t, m.history)
}

func TestModelOpenDetailFromGames(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, 5, 20)
	m := newTestModel(t, svc)

	m, cmd := update(t, m, keyRunes("b"))
	m = settle(t, m, cmd, onlyData)
	require.Len(t, m.games.games, 5)

	want := m.games.games[0]
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ScreenDetail, m.screen)
	assert.Equal(t, want.ID, m.detail.gameID)
	assert.True(t, m.detail.loading)

	m = settle(t, m, cmd, onlyData)
	require.NotNil(t, m.detail.data)
	assert.Equal(t, want.Name, m.detail.data.Game.Name)
	assert.Contains(t, m.breadcrumb(), want.Name)

	// back returns to the list with its rows intact
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenGames, m.screen)
	assert.Len(t, m.games.games, 5)
}

func TestModelQuickSearch(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 45, 20)
	m := newTestModel(t, svc)

	m, _ = update(t, m, keyRunes("f"))
	require.True(t, m.QuickSearch.IsVisible())

	// a single character is too short to search
	m, cmd := update(t, m, keyRunes("g"))
	m = settle(t, m, cmd, onlyData)
	assert.Empty(t, srv.RequestsTo("/api/games"))

	m, cmd = update(t, m, keyRunes("ame 01"))
	m = settle(t, m, cmd, onlyData)
	assert.Equal(t, 8, m.QuickSearch.ResultCount())
	reqs := srv.RequestsTo("/api/games")
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"game 01"}, reqs[0].Query["search"])

	// enter on the "see all" row opens the full list for the query
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.QuickSearch.IsVisible())
	assert.Equal(t, ScreenGames, m.screen)
	assert.Equal(t, "game 01", m.games.filter.Search)

	m = settle(t, m, cmd, onlyData)
	assert.Len(t, m.games.games, 10)
}

func TestModelStaleQuickSearchResults(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, 5, 20)
	m := newTestModel(t, svc)

	m, _ = update(t, m, keyRunes("f"))
	m, _ = update(t, m, keyRunes("zelda"))

	m, _ = update(t, m, QuickSearchResultsMsg{
		Query: "zel",
		Games: []domain.Game{{ID: 1, Name: "Zelda"}},
	})
	assert.Zero(t, m.QuickSearch.ResultCount())
}

func TestModelPickerChangesGenre(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 45, 20)
	m := newTestModel(t, svc)

	m, cmd := update(t, m, keyRunes("b"))
	m = settle(t, m, cmd, onlyData)

	m, _ = update(t, m, keyRunes("t"))
	require.True(t, m.Picker.IsVisible())

	m, _ = update(t, m, keyRunes("rpg"))
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Picker.IsVisible())
	assert.Equal(t, "RPG", m.games.filter.Genre)

	m = settle(t, m, cmd, onlyData)
	assert.Equal(t, "RPG", m.games.ctrl.Filter().Genre)
	for _, g := range m.games.games {
		assert.Contains(t, g.Genres, "RPG")
	}
	last := srv.RequestsTo("/api/games")
	assert.Equal(t, []string{"RPG"}, last[len(last)-1].Query["genres"])
}

func TestModelReviewValidation(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 3, 20)
	m := newTestModel(t, svc)

	m, cmd := update(t, m, keyRunes("b"))
	m = settle(t, m, cmd, onlyData)
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd, onlyData)

	m, _ = update(t, m, keyRunes("w"))
	require.True(t, m.ReviewForm.IsVisible())

	// submitting an empty form never reaches the server
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, m.ReviewForm.IsVisible())
	assert.False(t, m.ReviewForm.Submitting())
	for _, req := range srv.Requests() {
		assert.NotEqual(t, http.MethodPost, req.Method, req.Path)
	}
}

func TestModelView(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, 3, 20)
	m := newTestModel(t, svc)
	m = settle(t, m, LoadHomeCmd(svc), onlyData)

	view := m.View()
	assert.Contains(t, view, "Popular")
	assert.Contains(t, view, "? help")

	m, _ = update(t, m, keyRunes("?"))
	assert.Contains(t, m.View(), "Press any key to return")
	m, _ = update(t, m, keyRunes("x"))
	assert.Equal(t, StateBrowsing, m.State)
}
