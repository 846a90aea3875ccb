package tui

import (
	"cmp"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/tui/components"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
)

// Home columns, left to right
const (
	colPopular = iota
	colRecent
	colNews
	homeColumns
)

// homeView shows popular games, new releases and news side by side
type homeView struct {
	columns [homeColumns]*components.ListColumn
	focus   int

	popular []domain.Game
	recent  []domain.Game
	news    []domain.Article

	loaded bool
}

func newHomeView() *homeView {
	v := &homeView{}
	v.columns[colPopular] = components.NewListColumn("Popular")
	v.columns[colRecent] = components.NewListColumn("New Releases")
	v.columns[colNews] = components.NewListColumn("News")
	for _, c := range v.columns {
		c.SetLoading(true)
	}
	v.setFocus(colPopular)
	return v
}

func (v *homeView) setLoading() {
	v.loaded = false
	for _, c := range v.columns {
		c.SetLoading(true)
	}
}

// setData fills the columns. Sections that failed show an error instead.
func (v *homeView) setData(data *browse.HomeData) {
	v.loaded = true
	v.popular = data.Popular
	v.recent = data.Recent

	// news and console news share a column, newest first
	v.news = append(slices.Clone(data.News), data.ConsoleNews...)
	slices.SortStableFunc(v.news, func(a, b domain.Article) int {
		return cmp.Compare(b.PublishedAt.Unix(), a.PublishedAt.Unix())
	})

	v.columns[colPopular].SetRows(gameRows(v.popular))
	v.columns[colRecent].SetRows(gameRows(v.recent))
	v.columns[colNews].SetRows(articleRows(v.news))

	v.columns[colPopular].SetEmptyText(sectionEmpty(data, browse.SectionPopular, "No games yet"))
	v.columns[colRecent].SetEmptyText(sectionEmpty(data, browse.SectionRecent, "No games yet"))
	newsEmpty := "No news"
	if data.Failed[browse.SectionNews] != nil && data.Failed[browse.SectionConsoleNews] != nil {
		newsEmpty = "Failed to load news"
	}
	v.columns[colNews].SetEmptyText(newsEmpty)
}

// setFailed shows every column as failed
func (v *homeView) setFailed() {
	v.loaded = true
	for _, c := range v.columns {
		c.SetRows(nil)
		c.SetEmptyText("Failed to load. Press r to retry")
	}
}

func sectionEmpty(data *browse.HomeData, sec browse.Section, fallback string) string {
	if data.Failed[sec] != nil {
		return "Failed to load"
	}
	return fallback
}

func articleRows(articles []domain.Article) []components.Row {
	rows := make([]components.Row, len(articles))
	for i, a := range articles {
		detail := a.Source
		if !a.PublishedAt.IsZero() {
			detail = a.PublishedAt.Format("Jan 2") + "  " + detail
		}
		rows[i] = components.Row{
			Title:       a.Title,
			Detail:      detail,
			Marker:      "▪",
			MarkerColor: styles.LightGray,
		}
	}
	return rows
}

func (v *homeView) setFocus(i int) {
	v.focus = i
	for j, c := range v.columns {
		c.SetFocused(j == i)
	}
}

func (v *homeView) focusLeft() {
	if v.focus > 0 {
		v.setFocus(v.focus - 1)
	}
}

func (v *homeView) focusRight() {
	if v.focus < homeColumns-1 {
		v.setFocus(v.focus + 1)
	}
}

func (v *homeView) isTyping() bool {
	return v.columns[v.focus].IsFilterTyping()
}

// toggleFilter starts the local filter on the focused column
func (v *homeView) toggleFilter() {
	v.columns[v.focus].ToggleFilter()
}

func (v *homeView) handleKey(msg tea.KeyMsg) tea.Cmd {
	return v.columns[v.focus].Update(msg)
}

// selectedGame returns the focused game, if a game column has focus
func (v *homeView) selectedGame() *domain.Game {
	var games []domain.Game
	switch v.focus {
	case colPopular:
		games = v.popular
	case colRecent:
		games = v.recent
	default:
		return nil
	}
	idx := v.columns[v.focus].SelectedIndex()
	if idx < 0 || idx >= len(games) {
		return nil
	}
	g := games[idx]
	return &g
}

// selectedArticle returns the focused article, if the news column has focus
func (v *homeView) selectedArticle() *domain.Article {
	if v.focus != colNews {
		return nil
	}
	idx := v.columns[colNews].SelectedIndex()
	if idx < 0 || idx >= len(v.news) {
		return nil
	}
	a := v.news[idx]
	return &a
}

func (v *homeView) setSpinnerFrame(frame int) {
	for _, c := range v.columns {
		c.SetSpinnerFrame(frame)
	}
}

func (v *homeView) setSize(width, height int) {
	// news gets the remainder so odd widths still fill the screen
	w := width / homeColumns
	v.columns[colPopular].SetSize(w, height)
	v.columns[colRecent].SetSize(w, height)
	v.columns[colNews].SetSize(width-2*w, height)
}

func (v *homeView) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		v.columns[colPopular].View(),
		v.columns[colRecent].View(),
		v.columns[colNews].View(),
	)
}
