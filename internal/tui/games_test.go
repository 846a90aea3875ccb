package tui

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/catalog"
	"github.com/mmcdole/gamedeck/internal/catalog/catalogtest"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/pager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 10 * time.Millisecond

func newTestService(t *testing.T, n, pageSize int) (*browse.Service, *catalogtest.Server) {
	t.Helper()
	srv := catalogtest.NewServer(t, n)
	logger := slog.New(slog.DiscardHandler)
	client := catalog.NewClient(srv.APIURL(), logger)
	return browse.NewService(client, logger, browse.WithPageSize(pageSize)), srv
}

// collect runs cmd and every command batched inside it, returning the
// messages they produce in order
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// runPage runs a fetch command and commits its result
func runPage(t *testing.T, v *gamesView, cmd tea.Cmd) error {
	t.Helper()
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	msg, ok := msgs[0].(GamesPageMsg)
	require.True(t, ok, "expected a GamesPageMsg, got %T", msgs[0])
	return v.handlePage(msg)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGamesViewScrollLoadsMore(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 45, 20)
	v := newGamesView(svc, testDelay)
	v.setSize(80, 16) // ten visible rows

	require.NoError(t, runPage(t, v, v.reset(domain.DefaultFilter())))
	assert.Len(t, v.games, 20)
	assert.Nil(t, v.takePending(), "last row is off screen")

	// jumping to the bottom shows the last loaded row
	cmd := v.handleKey(keyRunes("G"))
	assert.Equal(t, pager.AppendLoading, v.ctrl.State())
	require.NoError(t, runPage(t, v, cmd))
	assert.Len(t, v.games, 40)
	assert.Equal(t, 40, v.list.RowCount())
	assert.Equal(t, 19, v.list.SelectedIndex(), "append keeps the cursor")

	cmd = v.handleKey(keyRunes("G"))
	require.NoError(t, runPage(t, v, cmd))
	assert.Len(t, v.games, 45)
	assert.False(t, v.ctrl.HasMore())

	// nothing left to load
	assert.Nil(t, v.handleKey(keyRunes("k")))
	assert.Nil(t, v.handleKey(keyRunes("G")))
	assert.Len(t, srv.RequestsTo("/api/games"), 3)
}

func TestGamesViewShortPageLoadsMore(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 10, 3)
	v := newGamesView(svc, testDelay)
	v.setSize(80, 30)

	require.NoError(t, runPage(t, v, v.reset(domain.DefaultFilter())))
	assert.Len(t, v.games, 3)

	// the whole first page fits, so its last row is already visible
	for range 3 {
		cmd := v.takePending()
		require.NotNil(t, cmd)
		require.NoError(t, runPage(t, v, cmd))
	}
	assert.Len(t, v.games, 10)
	assert.Nil(t, v.takePending())
	assert.Len(t, srv.RequestsTo("/api/games"), 4)
}

func TestGamesViewDebouncedFilter(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 45, 20)
	v := newGamesView(svc, testDelay)
	v.setSize(80, 16)
	require.NoError(t, runPage(t, v, v.reset(domain.DefaultFilter())))

	first := v.changeFilter(v.filter.WithGenre("Action"))
	second := v.changeFilter(v.filter.WithGenre("RPG"))
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.True(t, v.filters.Pending())
	assert.Equal(t, "RPG", v.filter.Genre, "filter bar shows the latest choice")

	// the superseded tick does nothing
	tick, ok := first().(FilterTickMsg)
	require.True(t, ok)
	assert.Nil(t, v.handleFilterTick(tick))

	tick, ok = second().(FilterTickMsg)
	require.True(t, ok)
	fetch := v.handleFilterTick(tick)
	require.NoError(t, runPage(t, v, fetch))
	assert.False(t, v.filters.Pending())

	for _, g := range v.games {
		assert.Contains(t, g.Genres, "RPG")
	}
	reqs := srv.RequestsTo("/api/games")
	require.Len(t, reqs, 2)
	assert.Equal(t, []string{"RPG"}, reqs[1].Query["genres"])
}

func TestGamesViewSameFilterIsNoop(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, 5, 20)
	v := newGamesView(svc, testDelay)
	assert.Nil(t, v.changeFilter(v.filter))
	assert.False(t, v.filters.Pending())
}

func TestGamesViewRetryAfterAppendFailure(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 45, 20)
	v := newGamesView(svc, testDelay)
	v.setSize(80, 16)
	require.NoError(t, runPage(t, v, v.reset(domain.DefaultFilter())))

	srv.Respond("/api/games", http.StatusInternalServerError, `{"status":"error","message":"boom"}`)
	err := runPage(t, v, v.handleKey(keyRunes("G")))
	require.Error(t, err)
	assert.Len(t, v.games, 20, "loaded rows survive a failed append")
	assert.True(t, v.ctrl.HasMore())

	srv.ClearOverride("/api/games")
	require.NoError(t, runPage(t, v, v.retry()))
	assert.Len(t, v.games, 40)

	reqs := srv.RequestsTo("/api/games")
	require.Len(t, reqs, 3)
	assert.Equal(t, []string{"2"}, reqs[2].Query["page"], "retry asks for the failed page again")
}

func TestGamesViewFailedResetKeepsRows(t *testing.T) {
	t.Parallel()
	svc, srv := newTestService(t, 45, 20)
	v := newGamesView(svc, testDelay)
	v.setSize(80, 16)
	require.NoError(t, runPage(t, v, v.reset(domain.DefaultFilter())))

	srv.Respond("/api/games", http.StatusInternalServerError, `{"status":"error","message":"boom"}`)
	err := runPage(t, v, v.reset(v.filter.WithSearch("zelda")))
	require.Error(t, err)
	assert.Len(t, v.games, 20)
	assert.False(t, v.list.IsLoading())
	assert.False(t, v.ctrl.HasMore())

	// retry after a failed reset starts over
	srv.ClearOverride("/api/games")
	require.NoError(t, runPage(t, v, v.retry()))
	assert.Len(t, v.games, 20)
	assert.NoError(t, v.ctrl.Err())
}

func TestGamesViewCloseDropsInFlightPage(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, 45, 20)
	v := newGamesView(svc, testDelay)
	v.setSize(80, 16)

	cmd := v.reset(domain.DefaultFilter())
	v.close()
	require.NoError(t, runPage(t, v, cmd))
	assert.Empty(t, v.games)
	assert.Equal(t, pager.Idle, v.ctrl.State())
}

func TestGamesViewLocalFilterPausesScroll(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, 45, 20)
	v := newGamesView(svc, testDelay)
	v.setSize(80, 16)
	require.NoError(t, runPage(t, v, v.reset(domain.DefaultFilter())))

	v.list.ToggleFilter()
	v.handleKey(keyRunes("9"))
	v.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.list.IsFiltering())

	// the last filtered row is on screen, but filtered rows are not
	// contiguous so nothing is observed
	assert.Nil(t, v.handleKey(keyRunes("G")))
	assert.Equal(t, pager.Idle, v.ctrl.State())
	assert.Len(t, v.games, 20)
}

func TestGamesViewSearchTyping(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, 45, 20)
	v := newGamesView(svc, testDelay)
	v.setSize(80, 16)

	v.focusSearch()
	require.True(t, v.isTyping())
	v.handleKey(keyRunes("game 00"))
	assert.Equal(t, "game 00", v.filter.Search)
	assert.True(t, v.filters.Pending())

	// enter searches at once and cancels the pending change
	cmd := v.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, v.isTyping())
	assert.False(t, v.filters.Pending())
	require.NoError(t, runPage(t, v, cmd))
	assert.Len(t, v.games, 9)
}

func TestGameRow(t *testing.T) {
	row := gameRow(domain.Game{
		Name:      "Hades",
		Rating:    4.5,
		Released:  "2020-09-17",
		Platforms: []string{"PC", "Nintendo Switch"},
	})
	assert.Equal(t, "Hades", row.Title)
	assert.Contains(t, row.Detail, "2020")
	assert.Contains(t, row.Detail, "PC")
	assert.Equal(t, ratingColor(4.5), row.MarkerColor)
}
