package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/debounce"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/pager"
	"github.com/mmcdole/gamedeck/internal/tui/components"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
	"github.com/mmcdole/gamedeck/internal/visibility"
)

// filterBarHeight is the line above the games list
const filterBarHeight = 1

// gamesView is the filterable games list with infinite scroll.
//
// The list controller owns the loaded games; the view mirrors them into a
// ListColumn and reports the on-screen rows to a Viewport observer. When
// the last loaded row scrolls into view the Loader calls LoadMore, which
// queues a fetch command picked up by the next Update.
type gamesView struct {
	svc     *browse.Service
	ctrl    *browse.GamesController
	obs     *visibility.Viewport
	loader  *visibility.Loader
	filters *debounce.Coordinator[domain.Filter]

	list   *components.ListColumn
	search textinput.Model
	filter domain.Filter // what the filter bar shows; ahead of the controller while debouncing
	games  []domain.Game // rows mirrored into list, same order

	facets        *browse.Facets
	facetsLoading bool

	pending      []tea.Cmd
	spinnerFrame int
	width        int
	height       int
}

func newGamesView(svc *browse.Service, filterDelay time.Duration) *gamesView {
	ti := textinput.New()
	ti.Placeholder = "search games"
	ti.CharLimit = 100
	ti.Width = 24
	ti.Prompt = "🔍 "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	list := components.NewListColumn("Games")
	list.SetFocused(true)

	v := &gamesView{
		svc:     svc,
		ctrl:    svc.NewGamesController(),
		obs:     visibility.NewViewport(),
		filters: debounce.New[domain.Filter](filterDelay),
		list:    list,
		search:  ti,
		filter:  domain.DefaultFilter(),
	}
	v.loader = visibility.NewLoader(v.obs, v)
	return v
}

// Busy implements visibility.Target
func (v *gamesView) Busy() bool {
	return v.ctrl.Busy()
}

// HasMore implements visibility.Target
func (v *gamesView) HasMore() bool {
	return v.ctrl.HasMore()
}

// LoadMore implements visibility.Target. The fetch is queued, not run.
func (v *gamesView) LoadMore() {
	req, ok := v.ctrl.LoadMore()
	if !ok {
		return
	}
	v.list.SetNote(styles.SpinnerFrames[v.spinnerFrame%len(styles.SpinnerFrames)]+" Loading more...", styles.DimStyle)
	v.pending = append(v.pending, FetchGamesCmd(v.ctrl, req))
}

// takePending returns the fetches queued since the last call
func (v *gamesView) takePending() tea.Cmd {
	if len(v.pending) == 0 {
		return nil
	}
	cmds := v.pending
	v.pending = nil
	return tea.Batch(cmds...)
}

// open starts a fresh cycle for f without waiting for the debounce
func (v *gamesView) open(f domain.Filter) tea.Cmd {
	v.filter = f
	v.search.SetValue(f.Search)
	v.search.Blur()

	cmds := []tea.Cmd{v.reset(f)}
	if v.facets == nil && !v.facetsLoading {
		v.facetsLoading = true
		cmds = append(cmds, LoadFacetsCmd(v.svc))
	}
	return tea.Batch(cmds...)
}

// reset discards any pending change and refetches page 1 for f
func (v *gamesView) reset(f domain.Filter) tea.Cmd {
	v.filters.Cancel()
	v.loader.Close()
	req := v.ctrl.Reset(f)
	v.list.SetLoading(true)
	v.list.SetNote("", styles.DimStyle)
	return FetchGamesCmd(v.ctrl, req)
}

// changeFilter records f and schedules a refetch once changes stop
func (v *gamesView) changeFilter(f domain.Filter) tea.Cmd {
	if f == v.filter {
		return nil
	}
	v.filter = f
	ticket := v.filters.Schedule(f)
	return DebounceCmd(v.filters, ticket, func(t debounce.Ticket) tea.Msg {
		return FilterTickMsg{Ticket: t}
	})
}

// handleFilterTick resets the list if the tick belongs to the latest change
func (v *gamesView) handleFilterTick(msg FilterTickMsg) tea.Cmd {
	f, ok := v.filters.Fire(msg.Ticket)
	if !ok {
		return nil
	}
	return v.reset(f)
}

// handlePage commits a fetch result. It returns the error of an applied
// failed fetch so the caller can surface it.
func (v *gamesView) handlePage(msg GamesPageMsg) error {
	out := v.ctrl.Commit(msg.Result)
	if !out.Applied {
		return nil
	}

	switch {
	case out.Err != nil && out.Kind == pager.KindReset:
		// previous rows stay visible
		v.list.SetLoading(false)
		v.list.SetEmptyText("Failed to load games")
		v.list.SetNote("Failed to load games. Press r to retry", styles.ErrorStyle)
		return out.Err

	case out.Err != nil:
		v.list.SetNote("Failed to load more. Press r to retry", styles.ErrorStyle)
		return out.Err

	case out.Kind == pager.KindReset:
		v.games = v.ctrl.Items()
		v.list.SetRows(gameRows(v.games))
		v.list.SetEmptyText("No games found")
		// re-observing from scratch lets an already visible last row fire
		v.loader.Close()

	default:
		items := v.ctrl.Items()
		v.list.AppendRows(gameRows(items[len(v.games):]))
		v.games = items
	}

	v.list.SetNote(v.endNote(), styles.DimStyle)
	v.syncLoader()
	return nil
}

func (v *gamesView) endNote() string {
	if v.ctrl.HasMore() || len(v.games) == 0 {
		return ""
	}
	return "End of results"
}

// syncLoader reports the visible rows and watches the last loaded row
func (v *gamesView) syncLoader() {
	v.syncRange()
	v.loader.Attach(len(v.games) - 1)
}

// syncRange reports the visible rows, which may trigger LoadMore
func (v *gamesView) syncRange() {
	first, last := v.list.VisibleRange()
	v.obs.SetRange(first, last)
}

// retry repeats a failed append, otherwise refreshes the list
func (v *gamesView) retry() tea.Cmd {
	if v.ctrl.Err() != nil && v.ctrl.HasMore() && !v.ctrl.Busy() {
		v.LoadMore()
		return v.takePending()
	}
	return v.reset(v.filter)
}

// clearFilters goes back to the default filter
func (v *gamesView) clearFilters() tea.Cmd {
	v.search.SetValue("")
	return v.changeFilter(domain.DefaultFilter().WithOrdering(v.filter.Ordering))
}

func (v *gamesView) setFacets(f *browse.Facets) {
	v.facets = f
	v.facetsLoading = false
}

func (v *gamesView) facetsFailed() {
	v.facetsLoading = false
}

// loadFacets fetches picker values if they are missing
func (v *gamesView) loadFacets() tea.Cmd {
	if v.facets != nil || v.facetsLoading {
		return nil
	}
	v.facetsLoading = true
	return LoadFacetsCmd(v.svc)
}

// close tears down timers, observers and in-flight fetches
func (v *gamesView) close() {
	v.filters.Cancel()
	v.loader.Close()
	v.ctrl.Abandon()
	v.pending = nil
	v.search.Blur()
}

// Selected returns the game under the cursor
func (v *gamesView) Selected() *domain.Game {
	idx := v.list.SelectedIndex()
	if idx < 0 || idx >= len(v.games) {
		return nil
	}
	g := v.games[idx]
	return &g
}

// isTyping reports whether keys go to a text input
func (v *gamesView) isTyping() bool {
	return v.search.Focused() || v.list.IsFilterTyping()
}

func (v *gamesView) focusSearch() tea.Cmd {
	v.list.SetFocused(false)
	return v.search.Focus()
}

// handleKey processes keys not claimed by the app
func (v *gamesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.search.Focused() {
		switch msg.String() {
		case "esc":
			v.search.Blur()
			v.list.SetFocused(true)
			return nil
		case "enter":
			// search now instead of waiting for the debounce
			v.search.Blur()
			v.list.SetFocused(true)
			v.filter = v.filter.WithSearch(strings.TrimSpace(v.search.Value()))
			return v.reset(v.filter)
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return tea.Batch(cmd, v.changeFilter(v.filter.WithSearch(strings.TrimSpace(v.search.Value()))))
	}

	cmd := v.list.Update(msg)
	v.syncRange()
	return tea.Batch(cmd, v.takePending())
}

func (v *gamesView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.list.SetSize(width, height-filterBarHeight)
	v.syncRange()
}

func (v *gamesView) setSpinnerFrame(frame int) {
	v.spinnerFrame = frame
	v.list.SetSpinnerFrame(frame)
	if v.ctrl.State() == pager.AppendLoading {
		v.list.SetNote(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)]+" Loading more...", styles.DimStyle)
	}
}

// View renders the filter bar above the list
func (v *gamesView) View() string {
	v.list.SetTitle(v.title())
	return lipgloss.JoinVertical(lipgloss.Left, v.renderFilterBar(), v.list.View())
}

func (v *gamesView) title() string {
	n := len(v.games)
	switch {
	case v.ctrl.State() == pager.RefreshLoading:
		return "Games"
	case v.ctrl.Total() > 0:
		return fmt.Sprintf("Games (%d of %d)", n, v.ctrl.Total())
	default:
		return fmt.Sprintf("Games (%d)", n)
	}
}

func (v *gamesView) renderFilterBar() string {
	label := func(name, value string) string {
		if value == "" {
			value = "All"
		}
		return styles.DimStyle.Render(name+": ") + styles.SubtitleStyle.Render(value)
	}

	parts := []string{
		v.search.View(),
		label("Order", v.filter.Ordering.String()),
		label("Genre", v.filter.Genre),
		label("Platform", v.filter.Platform),
	}
	if v.filters.Pending() {
		parts = append(parts, styles.DimStyle.Render("…"))
	}
	bar := strings.Join(parts, "  ")
	return lipgloss.NewStyle().MaxWidth(v.width).Render(bar)
}

// gameRows converts games to list rows
func gameRows(games []domain.Game) []components.Row {
	rows := make([]components.Row, len(games))
	for i, g := range games {
		rows[i] = gameRow(g)
	}
	return rows
}

func gameRow(g domain.Game) components.Row {
	detail := g.Stars()
	if y := g.Year(); y > 0 {
		detail = fmt.Sprintf("%d  %s", y, detail)
	}
	if p := g.PlatformLine(); p != "" {
		detail += "  " + p
	}
	return components.Row{
		Title:       g.Name,
		Detail:      detail,
		Marker:      "●",
		MarkerColor: ratingColor(g.Rating),
	}
}

// ratingColor buckets a 0-5 rating
func ratingColor(rating float64) lipgloss.Color {
	switch {
	case rating >= 4:
		return styles.Green
	case rating >= 3:
		return styles.Gold
	case rating > 0:
		return styles.Red
	default:
		return styles.DimGray
	}
}
