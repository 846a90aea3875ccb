package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// Row is one line of a ListColumn
type Row struct {
	Title       string // shown and matched by the filter
	Detail      string // dimmed suffix, e.g. the release year
	Marker      string // single leading glyph
	MarkerColor lipgloss.Color
}

// ListColumn is a scrollable, filterable list in a bordered box
type ListColumn struct {
	rows []Row

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title     string
	emptyText string

	// Loading state
	loading      bool
	spinnerFrame int

	// note is a line under the rows, e.g. "Loading more..."
	note      string
	noteStyle lipgloss.Style

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into rows
}

// NewListColumn creates an empty list column
func NewListColumn(title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		title:       title,
		emptyText:   "No items",
		filterInput: ti,
		noteStyle:   styles.DimStyle,
	}
}

// Update handles navigation and filter keys. Keys are ignored unless focused.
func (c *ListColumn) Update(msg tea.Msg) tea.Cmd {
	if !c.focused {
		return nil
	}
	keys := ListColumnKeys

	// Typing into the filter
	if c.filterActive && c.filterInput.Focused() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, keys.Escape):
				c.clearFilter()
				return nil
			case key.Matches(keyMsg, keys.Accept):
				// keep the filter, go back to navigating
				c.filterInput.Blur()
				return nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.clearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if c.filterActive {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			c.clearFilter()
			return nil
		case key.Matches(keyMsg, keys.Filter):
			c.filterInput.Focus()
			return nil
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, keys.Down):
		if c.cursor < count-1 {
			c.cursor++
			c.ensureVisible()
		}
	case key.Matches(keyMsg, keys.Up):
		if c.cursor > 0 {
			c.cursor--
			c.ensureVisible()
		}
	case key.Matches(keyMsg, keys.Home):
		c.cursor = 0
		c.offset = 0
	case key.Matches(keyMsg, keys.End):
		c.cursor = count - 1
		c.ensureVisible()
	case key.Matches(keyMsg, keys.HalfDown):
		c.cursor = min(c.cursor+c.maxVisible/2, count-1)
		c.ensureVisible()
	case key.Matches(keyMsg, keys.HalfUp):
		c.cursor = max(c.cursor-c.maxVisible/2, 0)
		c.ensureVisible()
	}
	return nil
}

// View renders the column at its configured size
func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	// Subtract frame size so the rendered box is exactly width x height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(c.renderContent())
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) SetFocused(focused bool) {
	c.focused = focused
}

func (c *ListColumn) IsFocused() bool {
	return c.focused
}

func (c *ListColumn) Title() string {
	return c.title
}

func (c *ListColumn) SetTitle(title string) {
	c.title = title
}

// SetEmptyText sets what an empty, non-loading column shows
func (c *ListColumn) SetEmptyText(text string) {
	c.emptyText = text
}

// SetNote sets the line shown under the rows. An empty note hides it.
func (c *ListColumn) SetNote(note string, style lipgloss.Style) {
	c.note = note
	c.noteStyle = style
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) SetLoading(loading bool) {
	c.loading = loading
}

func (c *ListColumn) IsLoading() bool {
	return c.loading
}

// SetSpinnerFrame updates the spinner animation frame
func (c *ListColumn) SetSpinnerFrame(frame int) {
	c.spinnerFrame = frame
}

// SetRows replaces the rows and moves the cursor to the top
func (c *ListColumn) SetRows(rows []Row) {
	c.clearFilter()
	c.loading = false
	c.rows = rows
	c.cursor = 0
	c.offset = 0
}

// AppendRows adds rows at the end, keeping the cursor where it is
func (c *ListColumn) AppendRows(rows []Row) {
	c.loading = false
	c.rows = append(c.rows, rows...)
	if c.filterActive {
		c.refilter()
	}
}

// ItemCount returns the number of rows shown, after filtering
func (c *ListColumn) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.rows)
}

// RowCount returns the number of rows, ignoring the filter
func (c *ListColumn) RowCount() int {
	return len(c.rows)
}

func (c *ListColumn) IsEmpty() bool {
	return c.ItemCount() == 0
}

// SelectedIndex returns the row index under the cursor, or -1
func (c *ListColumn) SelectedIndex() int {
	if c.cursor >= c.ItemCount() {
		return -1
	}
	return c.mapIndex(c.cursor)
}

// SetSelectedIndex moves the cursor, clamped to the shown rows
func (c *ListColumn) SetSelectedIndex(idx int) {
	last := c.ItemCount() - 1
	if last < 0 {
		c.cursor = 0
		return
	}
	c.cursor = max(0, min(idx, last))
	c.ensureVisible()
}

// VisibleRange returns the first and last row index on screen.
// While a filter is applied the shown rows are not contiguous, so the
// range is reported empty (last < first).
func (c *ListColumn) VisibleRange() (first, last int) {
	if c.filteredIdx != nil || c.loading || len(c.rows) == 0 || c.maxVisible <= 0 {
		return 0, -1
	}
	end := min(c.offset+c.maxVisible, len(c.rows))
	return c.offset, end - 1
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if the filter input has focus
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all rows
func (c *ListColumn) ClearFilter() {
	c.clearFilter()
}

func (c *ListColumn) recalcMaxVisible() {
	// interior minus title line and scroll indicators
	c.maxVisible = c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.note != "" {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	// keep the same row selected once every row is shown again
	sel := c.SelectedIndex()
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
	if sel >= 0 {
		c.SetSelectedIndex(sel)
	}
}

func (c *ListColumn) applyFilter() {
	c.refilter()
	c.cursor = 0
	c.offset = 0
}

// refilter recomputes matches without moving the cursor
func (c *ListColumn) refilter() {
	query := c.filterInput.Value()
	c.filterQuery = query
	if query == "" {
		c.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(c.rows))
	for i, r := range c.rows {
		lowerTitles[i] = strings.ToLower(r.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)
	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}
	if c.cursor >= len(c.filteredIdx) {
		c.cursor = max(0, len(c.filteredIdx)-1)
	}
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

func (c *ListColumn) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	if c.loading {
		loadingLine := styles.DimStyle.Render(styles.SpinnerFrames[c.spinnerFrame%len(styles.SpinnerFrames)] + " Loading...")
		return titleLine + "\n" + " " + "\n" + loadingLine + "\n" + " "
	}

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render(c.emptyText)
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
		if c.note != "" {
			content += "\n" + c.noteStyle.Render(styles.Truncate(c.note, itemWidth))
		}
		if c.filterActive {
			content += "\n" + c.renderFilterBar(itemWidth)
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderRow(c.rows[c.mapIndex(i)], i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines so the layout does not shift
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.note != "" {
		content += "\n" + c.noteStyle.Render(styles.Truncate(c.note, itemWidth))
	}
	if c.filterActive {
		content += "\n" + c.renderFilterBar(itemWidth)
	}
	return content
}

func (c *ListColumn) renderRow(row Row, selected bool, width int) string {
	marker := row.Marker
	if marker == "" {
		marker = " "
	}
	markerFg := row.MarkerColor
	if markerFg == "" {
		markerFg = styles.DeckPurple
	}

	// width - marker(1) - space(1) - margins(2)
	available := max(width-4, 5)
	title := row.Title
	detail := ""
	if row.Detail != "" {
		detail = " " + row.Detail
	}
	if len([]rune(title))+len([]rune(detail)) > available {
		detail = ""
	}
	title = styles.Truncate(title, available)

	detailFg := styles.DimGray
	parts := []styles.RowPart{
		{Text: marker, Foreground: &markerFg},
		{Text: " " + title},
	}
	if detail != "" {
		parts = append(parts, styles.RowPart{Text: detail, Foreground: &detailFg})
	}
	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderFilterBar(width int) string {
	c.filterInput.Width = max(width-4, 1)
	return c.filterInput.View()
}
