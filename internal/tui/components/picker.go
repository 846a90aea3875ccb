package components

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
)

const (
	pickerWidth   = 28
	pickerVisible = 10
	pickerAll     = "All"
)

// PickerSelection is the user's choice. An empty Value means "All".
type PickerSelection struct {
	Value string
}

// Picker is a popup for choosing one value (a genre, a platform) from a
// list, narrowed by typing.
type Picker struct {
	visible bool
	title   string
	options []string
	active  string
	query   string
	matches []string // "All" first when the query is empty
	cursor  int
	offset  int
}

// NewPicker creates a hidden picker
func NewPicker() Picker {
	return Picker{}
}

// Show displays the picker with options, placing the cursor on active
func (m *Picker) Show(title string, options []string, active string) {
	m.visible = true
	m.title = title
	m.options = options
	m.active = active
	m.query = ""
	m.refilter()

	m.cursor = 0
	for i, opt := range m.matches {
		if opt == active {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

// Hide dismisses the picker
func (m *Picker) Hide() {
	m.visible = false
}

// IsVisible returns whether the picker is shown
func (m Picker) IsVisible() bool {
	return m.visible
}

// Query returns the text typed so far
func (m Picker) Query() string {
	return m.query
}

// Matches returns the options currently offered
func (m Picker) Matches() []string {
	return m.matches
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *Picker) HandleKey(k tea.KeyMsg) (handled bool, selection *PickerSelection) {
	if !m.visible {
		return false, nil
	}

	keys := PickerKeys
	switch {
	case key.Matches(k, keys.Down):
		if m.cursor < len(m.matches)-1 {
			m.cursor++
			m.ensureVisible()
		}
	case key.Matches(k, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case key.Matches(k, keys.Enter):
		if len(m.matches) == 0 {
			return true, nil
		}
		chosen := m.matches[m.cursor]
		if chosen == pickerAll && m.query == "" {
			chosen = ""
		}
		m.visible = false
		return true, &PickerSelection{Value: chosen}
	case key.Matches(k, keys.Escape):
		m.visible = false
	case key.Matches(k, keys.Erase):
		if m.query != "" {
			_, size := utf8.DecodeLastRuneInString(m.query)
			m.query = m.query[:len(m.query)-size]
			m.refilter()
		}
	case k.Type == tea.KeyRunes || k.Type == tea.KeySpace:
		m.query += string(k.Runes)
		m.refilter()
	}

	return true, nil // consume all keys when visible
}

// refilter ranks options against the query, best match first
func (m *Picker) refilter() {
	m.cursor = 0
	m.offset = 0

	query := strings.TrimSpace(m.query)
	if query == "" {
		m.matches = append([]string{pickerAll}, m.options...)
		return
	}

	ranks := fuzzy.RankFindFold(query, m.options)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	m.matches = make([]string, len(ranks))
	for i, r := range ranks {
		m.matches[i] = r.Target
	}
}

func (m *Picker) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+pickerVisible {
		m.offset = m.cursor - pickerVisible + 1
	}
}

// View renders the picker
func (m Picker) View() string {
	if !m.visible {
		return ""
	}

	prompt := styles.FilterPromptStyle.Render("/ ") + styles.FilterStyle.Render(m.query)
	if m.query == "" {
		prompt = styles.FilterPromptStyle.Render("/ ") + styles.DimStyle.Render("type to filter...")
	}

	var lines []string
	end := min(m.offset+pickerVisible, len(m.matches))
	for i := m.offset; i < end; i++ {
		opt := m.matches[i]
		isActive := opt == m.active || (opt == pickerAll && m.active == "")

		prefix := "  "
		if isActive {
			prefix = "✓ "
		}
		text := styles.Pad(styles.Truncate(prefix+opt, pickerWidth), pickerWidth)

		switch {
		case i == m.cursor:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(text))
		case isActive:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.DeckPurple).
				Render(text))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(text))
		}
	}
	if len(m.matches) == 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Pad("No matches", pickerWidth)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.DeckPurple).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render(m.title) + "\n" + prompt + "\n" + strings.Join(lines, "\n"))
}
