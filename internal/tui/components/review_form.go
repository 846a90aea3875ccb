package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
)

const reviewFormWidth = 48

type reviewField int

const (
	fieldUsername reviewField = iota
	fieldRating
	fieldReview
	fieldCount
)

// ReviewForm is the modal for writing a user review
type ReviewForm struct {
	visible    bool
	title      string
	focus      reviewField
	username   textinput.Model
	rating     textinput.Model
	review     textarea.Model
	err        string
	submitting bool
}

// NewReviewForm creates a hidden review form
func NewReviewForm() ReviewForm {
	username := textinput.New()
	username.Placeholder = "Your name"
	username.CharLimit = 40
	username.Width = reviewFormWidth - 2
	username.Prompt = ""
	username.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	username.PlaceholderStyle = styles.DimStyle

	rating := textinput.New()
	rating.Placeholder = "1-5"
	rating.CharLimit = 1
	rating.Width = 4
	rating.Prompt = ""
	rating.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		_, err := strconv.Atoi(s)
		return err
	}
	rating.TextStyle = styles.StarStyle
	rating.PlaceholderStyle = styles.DimStyle

	review := textarea.New()
	review.Placeholder = "What did you think?"
	review.ShowLineNumbers = false
	review.CharLimit = 2000
	review.SetWidth(reviewFormWidth)
	review.SetHeight(5)

	return ReviewForm{
		username: username,
		rating:   rating,
		review:   review,
	}
}

// Show displays an empty form for gameName
func (m *ReviewForm) Show(gameName string) {
	m.visible = true
	m.title = "Review " + gameName
	m.err = ""
	m.submitting = false
	m.username.SetValue("")
	m.rating.SetValue("")
	m.review.SetValue("")
	m.setFocus(fieldUsername)
}

// Hide dismisses the form
func (m *ReviewForm) Hide() {
	m.visible = false
	m.username.Blur()
	m.rating.Blur()
	m.review.Blur()
}

// IsVisible returns whether the form is shown
func (m ReviewForm) IsVisible() bool {
	return m.visible
}

// SetError shows msg under the fields and re-enables input
func (m *ReviewForm) SetError(msg string) {
	m.err = msg
	m.submitting = false
}

// SetSubmitting marks the form as waiting for the server
func (m *ReviewForm) SetSubmitting(submitting bool) {
	m.submitting = submitting
	if submitting {
		m.err = ""
	}
}

// Submitting reports whether a submit is in flight
func (m ReviewForm) Submitting() bool {
	return m.submitting
}

// Value returns the entered review. A rating that is not a number is 0.
func (m ReviewForm) Value() domain.ReviewInput {
	rating, _ := strconv.Atoi(strings.TrimSpace(m.rating.Value()))
	return domain.ReviewInput{
		Username: m.username.Value(),
		Rating:   rating,
		Review:   m.review.Value(),
	}
}

// Update handles input events, returns (form, cmd, submitted)
func (m ReviewForm) Update(msg tea.Msg) (ReviewForm, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		keys := ReviewFormKeys
		switch {
		case key.Matches(keyMsg, keys.Escape):
			m.Hide()
			return m, nil, false
		case m.submitting:
			return m, nil, false
		case key.Matches(keyMsg, keys.Submit):
			return m, nil, true
		case keyMsg.String() == "enter" && m.focus != fieldReview:
			m.setFocus(m.focus + 1)
			return m, nil, false
		case key.Matches(keyMsg, keys.Next) && (m.focus != fieldReview || keyMsg.String() == "tab"):
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil, false
		case key.Matches(keyMsg, keys.Prev) && (m.focus != fieldReview || keyMsg.String() == "shift+tab"):
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldUsername:
		m.username, cmd = m.username.Update(msg)
	case fieldRating:
		m.rating, cmd = m.rating.Update(msg)
	case fieldReview:
		m.review, cmd = m.review.Update(msg)
	}
	return m, cmd, false
}

func (m *ReviewForm) setFocus(f reviewField) {
	m.focus = f
	m.username.Blur()
	m.rating.Blur()
	m.review.Blur()
	switch f {
	case fieldUsername:
		m.username.Focus()
	case fieldRating:
		m.rating.Focus()
	case fieldReview:
		m.review.Focus()
	}
}

// View renders the review form
func (m ReviewForm) View() string {
	if !m.visible {
		return ""
	}

	label := func(text string, f reviewField) string {
		if m.focus == f {
			return styles.AccentStyle.Render(text)
		}
		return styles.DimStyle.Render(text)
	}

	stars := ""
	if r := m.Value().Rating; r >= 1 && r <= 5 {
		stars = "  " + styles.StarStyle.Render(domain.Stars(float64(r)))
	}

	footer := styles.HelpKeyStyle.Render("C-s") + styles.HelpDescStyle.Render(" submit  ") +
		styles.HelpKeyStyle.Render("tab") + styles.HelpDescStyle.Render(" next  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" cancel")
	if m.submitting {
		footer = styles.DimStyle.Render("Submitting...")
	}

	parts := []string{
		styles.ModalTitleStyle.Render(styles.Truncate(m.title, reviewFormWidth)),
		label("Name", fieldUsername),
		m.username.View(),
		"",
		label("Rating", fieldRating),
		m.rating.View() + stars,
		"",
		label("Review", fieldReview),
		m.review.View(),
		"",
	}
	if m.err != "" {
		parts = append(parts, styles.ErrorStyle.Render(styles.Truncate(m.err, reviewFormWidth)))
	}
	parts = append(parts, footer)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.DeckPurple).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
