package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gamedeck/internal/debounce"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Text inputs on the screen get every key
	if m.screenTyping() {
		return m.routeToScreen(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape) && m.screenFiltering():
		m.clearScreenFilter()
		return m, nil

	case key.Matches(msg, Keys.QuickSearch) && m.screen != ScreenGames:
		m.QuickSearch.Show()
		m.QuickSearch.SetWidth(min(m.Width-4, 72))
		return m, nil

	case key.Matches(msg, Keys.Back):
		cmd := m.back()
		return m, cmd
	}

	switch m.screen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenGames:
		return m.handleGamesKey(msg)
	case ScreenDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// routeToModal sends keys to the topmost visible modal
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case m.ReviewForm.IsVisible():
		cmd := m.updateReviewForm(msg)
		return true, m, cmd

	case m.Picker.IsVisible():
		_, sel := m.Picker.HandleKey(msg)
		if sel == nil {
			return true, m, nil
		}
		f := m.games.filter
		switch m.pickerKind {
		case pickGenre:
			f = f.WithGenre(sel.Value)
		case pickPlatform:
			f = f.WithPlatform(sel.Value)
		}
		m.pickerKind = pickNone
		return true, m, m.games.changeFilter(f)

	case m.QuickSearch.IsVisible():
		cmd := m.updateQuickSearch(msg)
		return true, m, cmd
	}
	return false, m, nil
}

func (m *Model) updateReviewForm(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	var submitted bool
	m.ReviewForm, cmd, submitted = m.ReviewForm.Update(msg)
	if !submitted {
		return cmd
	}

	in := m.ReviewForm.Value()
	if err := in.Validate(); err != nil {
		m.ReviewForm.SetError(domain.UserMessage(err))
		return cmd
	}
	m.ReviewForm.SetSubmitting(true)
	return tea.Batch(cmd, SubmitReviewCmd(m.Svc, m.detail.gameID, in))
}

func (m *Model) updateQuickSearch(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	var action components.QuickSearchAction
	m.QuickSearch, cmd, action = m.QuickSearch.Update(msg)

	switch action {
	case components.QuickSearchOpenGame:
		g := m.QuickSearch.Selected()
		m.QuickSearch.Hide()
		m.searchDebounce.Cancel()
		if g != nil {
			return m.openDetail(*g)
		}
		return nil

	case components.QuickSearchSeeAll:
		query := m.QuickSearch.Query()
		m.QuickSearch.Hide()
		m.searchDebounce.Cancel()
		return m.openGames(m.defaultFilter().WithSearch(query))
	}

	if !m.QuickSearch.IsVisible() {
		m.searchDebounce.Cancel()
		return cmd
	}
	if !m.QuickSearch.QueryChanged() {
		return cmd
	}

	query := m.QuickSearch.Query()
	if len([]rune(query)) < domain.QuickSearchMinLen {
		m.searchDebounce.Cancel()
		m.QuickSearch.Clear()
		return cmd
	}
	ticket := m.searchDebounce.Schedule(query)
	return tea.Batch(cmd, DebounceCmd(m.searchDebounce, ticket, func(t debounce.Ticket) tea.Msg {
		return QuickSearchTickMsg{Ticket: t}
	}))
}

// screenTyping reports whether the current screen has a focused text input
func (m Model) screenTyping() bool {
	switch m.screen {
	case ScreenHome:
		return m.home.isTyping()
	case ScreenGames:
		return m.games.isTyping()
	}
	return false
}

func (m Model) screenFiltering() bool {
	switch m.screen {
	case ScreenHome:
		return m.home.columns[m.home.focus].IsFiltering()
	case ScreenGames:
		return m.games.list.IsFiltering()
	}
	return false
}

func (m *Model) clearScreenFilter() {
	switch m.screen {
	case ScreenHome:
		m.home.columns[m.home.focus].ClearFilter()
	case ScreenGames:
		m.games.list.ClearFilter()
		m.games.syncRange()
	}
}

func (m Model) routeToScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenHome:
		return m, m.home.handleKey(msg)
	case ScreenGames:
		return m, m.games.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Left):
		m.home.focusLeft()
	case key.Matches(msg, Keys.Right):
		m.home.focusRight()
	case key.Matches(msg, Keys.Filter):
		m.home.toggleFilter()
	case key.Matches(msg, Keys.Browse):
		cmd := m.openGames(m.defaultFilter())
		return m, cmd
	case key.Matches(msg, Keys.Refresh):
		m.home.setLoading()
		return m, LoadHomeCmd(m.Svc)
	case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.OpenLink):
		if g := m.home.selectedGame(); g != nil {
			cmd := m.openDetail(*g)
			return m, cmd
		}
		if a := m.home.selectedArticle(); a != nil && a.URL != "" {
			return m, OpenLinkCmd(m.Launcher, a.URL)
		}
	default:
		return m, m.home.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleGamesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.games
	switch {
	case key.Matches(msg, Keys.Search):
		return m, g.focusSearch()
	case key.Matches(msg, Keys.Filter):
		g.list.ToggleFilter()
		g.syncRange()
	case key.Matches(msg, Keys.Ordering):
		return m, g.changeFilter(g.filter.WithOrdering(g.filter.Ordering.Next()))
	case key.Matches(msg, Keys.Genre):
		cmd := m.openPicker(pickGenre)
		return m, cmd
	case key.Matches(msg, Keys.Platform):
		cmd := m.openPicker(pickPlatform)
		return m, cmd
	case key.Matches(msg, Keys.ClearFilter):
		return m, g.clearFilters()
	case key.Matches(msg, Keys.Refresh):
		return m, g.retry()
	case key.Matches(msg, Keys.Enter):
		if sel := g.Selected(); sel != nil {
			cmd := m.openDetail(*sel)
			return m, cmd
		}
	default:
		return m, g.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Review):
		if m.detail.data != nil && m.detail.data.Game != nil {
			m.ReviewForm.Show(m.detail.name)
		}
	case key.Matches(msg, Keys.Refresh):
		return m, m.detail.open(m.Svc, m.detail.gameID, m.detail.name)
	default:
		return m, m.detail.handleKey(msg)
	}
	return m, nil
}
