package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamedeck/internal/pager"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
)

// breadcrumb lists the screens leading to the current one
func (m Model) breadcrumb() string {
	parts := make([]string, 0, len(m.history)+1)
	for _, s := range m.history {
		parts = append(parts, s.String())
	}
	current := m.screen.String()
	if m.screen == ScreenDetail && m.detail.name != "" {
		current = m.detail.name
	}
	parts = append(parts, current)
	return strings.Join(parts, " > ")
}

// renderHeader renders the app name and breadcrumb
func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("gamedeck")
	crumb := styles.DimStyle.Render("  " + styles.Truncate(m.breadcrumb(), max(m.Width-12, 10)))
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(title + crumb)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner + status while loading, otherwise the status message
	var left string
	if status, busy := m.loadingStatus(); busy {
		left = styles.Spinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(status)
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	// Center section: screen-specific hints
	var hints [][2]string
	switch m.screen {
	case ScreenHome:
		hints = [][2]string{{"f", "Search"}, {"b", "Browse"}}
	case ScreenGames:
		hints = [][2]string{{"f", "Search"}, {"s", "Order"}, {"t", "Genre"}, {"p", "Platform"}}
	case ScreenDetail:
		hints = [][2]string{{"w", "Review"}, {"esc", "Back"}}
	}
	var center string
	for i, h := range hints {
		if i > 0 {
			center += "  "
		}
		center += styles.AccentStyle.Render(h[0]) + styles.DimStyle.Render(" "+h[1])
	}

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// loadingStatus describes the load running for the current screen
func (m Model) loadingStatus() (string, bool) {
	switch m.screen {
	case ScreenHome:
		if !m.home.loaded {
			return "Loading...", true
		}
	case ScreenGames:
		switch m.games.ctrl.State() {
		case pager.RefreshLoading:
			return "Loading games...", true
		case pager.AppendLoading:
			return "Loading more...", true
		}
	case ScreenDetail:
		if m.detail.loading {
			return "Loading game...", true
		}
	}
	if m.ReviewForm.Submitting() {
		return "Posting review...", true
	}
	return "", false
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      GAMES
  j/k        Up/down               f      Search by name
  h/l        Previous/next column  s      Cycle ordering
  g/Home     First item            t      Pick genre
  G/End      Last item             p      Pick platform
  Ctrl+u/d   Scroll half page      x      Clear filters
  Enter      Open                  r      Refresh / retry
  Esc        Back

HOME                            GAME PAGE
  f          Quick search          w      Write a review
  b          Browse all games      r      Reload
  o          Open news article
  /          Filter loaded         q      Quit

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
