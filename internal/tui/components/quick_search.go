package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// QuickSearchAction is what the user asked for with enter
type QuickSearchAction int

const (
	QuickSearchNone     QuickSearchAction = iota
	QuickSearchOpenGame                   // open the highlighted result
	QuickSearchSeeAll                     // browse all games matching the query
)

// QuickSearchKeyMap defines key bindings for the quick search dropdown
type QuickSearchKeyMap struct {
	Escape key.Binding
	Enter  key.Binding
	Up     key.Binding
	Down   key.Binding
}

// QuickSearchKeys are the quick search bindings
var QuickSearchKeys = QuickSearchKeyMap{
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑/C-p", "previous"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓/C-n", "next"),
	),
}

// QuickSearch is the search-as-you-type box on the home screen
type QuickSearch struct {
	input     textinput.Model
	results   []domain.Game
	resultFor string // query the results belong to
	cursor    int    // -1 is the "see all" row
	visible   bool
	width     int
	loading   bool
	err       string
	prevQuery string
}

// NewQuickSearch creates a hidden quick search box
func NewQuickSearch() QuickSearch {
	ti := textinput.New()
	ti.Placeholder = "Search games..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "🔍 "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return QuickSearch{
		input:  ti,
		cursor: -1,
	}
}

// Show makes the box visible and focuses the input
func (o *QuickSearch) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.results = nil
	o.resultFor = ""
	o.cursor = -1
	o.loading = false
	o.err = ""
	o.prevQuery = ""
}

// Hide hides the box
func (o *QuickSearch) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the box is visible
func (o QuickSearch) IsVisible() bool {
	return o.visible
}

// SetWidth updates the dropdown width
func (o *QuickSearch) SetWidth(width int) {
	o.width = width
	o.input.Width = max(width-10, 10)
}

// Query returns the trimmed search text
func (o QuickSearch) Query() string {
	return strings.TrimSpace(o.input.Value())
}

// QueryChanged returns true if the query changed since the last check
func (o *QuickSearch) QueryChanged() bool {
	current := o.Query()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// SetLoading marks a search for the current query as in flight
func (o *QuickSearch) SetLoading() {
	o.loading = true
	o.err = ""
}

// Clear drops results, e.g. when the query became too short to search
func (o *QuickSearch) Clear() {
	o.results = nil
	o.resultFor = ""
	o.cursor = -1
	o.loading = false
	o.err = ""
}

// SetResults shows games found for query. Results for a query that no
// longer matches the input are ignored and false is returned.
func (o *QuickSearch) SetResults(query string, games []domain.Game) bool {
	if query != o.Query() {
		return false
	}
	o.results = games
	o.resultFor = query
	o.cursor = -1
	o.loading = false
	o.err = ""
	return true
}

// SetError shows a failed search for query, unless the input moved on
func (o *QuickSearch) SetError(query, msg string) bool {
	if query != o.Query() {
		return false
	}
	o.results = nil
	o.resultFor = query
	o.loading = false
	o.err = msg
	return true
}

// Selected returns the highlighted game, or nil on the "see all" row
func (o QuickSearch) Selected() *domain.Game {
	if o.cursor < 0 || o.cursor >= len(o.results) {
		return nil
	}
	g := o.results[o.cursor]
	return &g
}

// ResultCount returns the number of results
func (o QuickSearch) ResultCount() int {
	return len(o.results)
}

// Update handles messages, returns (box, cmd, action)
func (o QuickSearch) Update(msg tea.Msg) (QuickSearch, tea.Cmd, QuickSearchAction) {
	if !o.visible {
		return o, nil, QuickSearchNone
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, QuickSearchKeys.Escape):
			o.Hide()
			return o, nil, QuickSearchNone
		case key.Matches(keyMsg, QuickSearchKeys.Enter):
			if o.Selected() != nil {
				return o, nil, QuickSearchOpenGame
			}
			if o.Query() != "" {
				return o, nil, QuickSearchSeeAll
			}
			return o, nil, QuickSearchNone
		case key.Matches(keyMsg, QuickSearchKeys.Down):
			if o.cursor < len(o.results)-1 {
				o.cursor++
			}
			return o, nil, QuickSearchNone
		case key.Matches(keyMsg, QuickSearchKeys.Up):
			if o.cursor > -1 {
				o.cursor--
			}
			return o, nil, QuickSearchNone
		}
	}

	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	return o, cmd, QuickSearchNone
}

// View renders the input and, below it, the dropdown
func (o QuickSearch) View() string {
	if !o.visible {
		return ""
	}
	width := max(o.width, 40)

	var b strings.Builder
	b.WriteString(o.input.View())
	b.WriteString("\n")

	query := o.Query()
	switch {
	case len([]rune(query)) < domain.QuickSearchMinLen:
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Type at least %d characters", domain.QuickSearchMinLen)))
	case o.loading && o.resultFor != query:
		b.WriteString(styles.SpinnerStyle.Render("Searching..."))
	case o.err != "":
		b.WriteString(styles.ErrorStyle.Render(o.err))
	default:
		o.renderResults(&b, width)
	}

	return styles.ModalStyle.
		Width(width).
		Render(b.String())
}

func (o QuickSearch) renderResults(b *strings.Builder, width int) {
	seeAll := fmt.Sprintf("See all results for %q", o.Query())
	if o.cursor == -1 {
		b.WriteString(styles.SelectedItemStyle.Render(styles.Truncate(seeAll, width-6)))
	} else {
		b.WriteString(styles.AccentStyle.Render(styles.Truncate(seeAll, width-6)))
	}

	if len(o.results) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("No games found"))
		return
	}

	for i, g := range o.results {
		title := g.Name
		if y := g.Year(); y > 0 {
			title = fmt.Sprintf("%s (%d)", g.Name, y)
		}
		title = styles.Truncate(title, width-14)

		b.WriteString("\n")
		b.WriteString(styles.StarStyle.Render(g.Stars()))
		b.WriteString(" ")
		b.WriteString(highlightMatches(title, matchedIndexes(o.resultFor, title), i == o.cursor))
	}
}

// matchedIndexes returns the byte offsets of query's characters in title
func matchedIndexes(query, title string) []int {
	if query == "" {
		return nil
	}
	matches := fuzzy.Find(strings.ToLower(query), []string{strings.ToLower(title)})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}

// highlightMatches renders text with matched characters highlighted.
// Consecutive characters with the same state are styled as one run.
func highlightMatches(text string, matched []int, selected bool) string {
	normal := lipgloss.NewStyle().Foreground(styles.LightGray)
	match := styles.MatchHighlightStyle
	if selected {
		normal = normal.Foreground(styles.White).Background(styles.SlateLight)
		match = match.Background(styles.SlateLight)
	}
	if len(matched) == 0 {
		return normal.Render(text)
	}

	// offsets are byte positions, the same as range over a string yields
	set := make(map[int]bool, len(matched))
	for _, idx := range matched {
		set[idx] = true
	}

	var out strings.Builder
	var run strings.Builder
	runMatch := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runMatch {
			out.WriteString(match.Render(run.String()))
		} else {
			out.WriteString(normal.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range text {
		isMatch := set[i]
		if isMatch != runMatch {
			flush()
			runMatch = isMatch
		}
		run.WriteRune(r)
	}
	flush()
	return out.String()
}
