package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/tui/styles"
)

// detailView is the scrollable page for one game
type detailView struct {
	gameID  int
	name    string // known before the detail loads
	data    *browse.DetailData
	loading bool
	err     error

	vp           viewport.Model
	spinnerFrame int
	width        int
	height       int
}

func newDetailView() *detailView {
	return &detailView{vp: viewport.New(0, 0)}
}

// open shows a loading page for game and returns the load command
func (v *detailView) open(svc *browse.Service, id int, name string) tea.Cmd {
	v.gameID = id
	v.name = name
	v.data = nil
	v.err = nil
	v.loading = true
	v.refresh()
	return LoadDetailCmd(svc, id)
}

func (v *detailView) setData(data *browse.DetailData) {
	v.loading = false
	v.data = data
	v.err = nil
	if data.Game != nil {
		v.name = data.Game.Name
	}
	v.refresh()
	v.vp.GotoTop()
}

func (v *detailView) setError(err error) {
	v.loading = false
	v.err = err
	v.refresh()
}

// addReview shows a just-submitted review without refetching
func (v *detailView) addReview(r *domain.UserReview) {
	if v.data == nil || r == nil {
		return
	}
	if v.data.Reviews == nil {
		v.data.Reviews = &domain.ReviewSummary{}
	}
	sum := v.data.Reviews
	total := sum.UserRating.Average * float64(sum.UserRating.Total)
	sum.UserReviews = append([]domain.UserReview{*r}, sum.UserReviews...)
	sum.UserRating.Total++
	sum.UserRating.Average = (total + float64(r.Rating)) / float64(sum.UserRating.Total)
	v.refresh()
}

func (v *detailView) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return cmd
}

func (v *detailView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.vp.Width = width
	v.vp.Height = height
	v.refresh()
}

func (v *detailView) setSpinnerFrame(frame int) {
	v.spinnerFrame = frame
	if v.loading {
		v.refresh()
	}
}

// refresh re-renders the page into the viewport
func (v *detailView) refresh() {
	v.vp.SetContent(v.render())
}

func (v *detailView) View() string {
	return v.vp.View()
}

func (v *detailView) render() string {
	width := max(v.width-2, 20)

	if v.loading {
		return styles.TitleStyle.Render(v.name) + "\n\n" +
			styles.Spinner(v.spinnerFrame) + styles.DimStyle.Render(" Loading...")
	}
	if v.err != nil {
		return styles.TitleStyle.Render(v.name) + "\n\n" + RenderError(v.err, width)
	}
	if v.data == nil || v.data.Game == nil {
		return ""
	}

	g := v.data.Game
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(g.Name))
	b.WriteString("\n")
	b.WriteString(styles.StarStyle.Render(g.Stars()))
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf(" %.1f", g.Rating)))
	if g.Metacritic > 0 {
		b.WriteString("  ")
		b.WriteString(styles.BadgeStyle.Render(fmt.Sprintf("MC %d", g.Metacritic)))
	}
	if g.ESRBRating != "" {
		b.WriteString("  ")
		b.WriteString(styles.DimBadgeStyle.Render(g.ESRBRating))
	}
	b.WriteString("\n\n")

	field := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%-11s", name)))
		b.WriteString(styles.SubtitleStyle.Render(wordWrap(value, width-11)))
		b.WriteString("\n")
	}
	field("Released", g.Released)
	field("Genres", g.GenreLine())
	field("Platforms", strings.Join(g.Platforms, ", "))
	field("Developers", strings.Join(g.Developers, ", "))
	field("Publishers", strings.Join(g.Publishers, ", "))
	field("Playtime", g.FormattedPlaytime())

	if g.Description != "" {
		b.WriteString("\n")
		b.WriteString(wordWrap(g.Description, width))
		b.WriteString("\n")
	}

	if len(g.Screenshots) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentStyle.Render("Screenshots"))
		b.WriteString("\n")
		for _, s := range g.Screenshots {
			b.WriteString(styles.DimStyle.Render("  " + styles.Truncate(s, width-2)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderReviews(width))

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (v *detailView) renderReviews(width int) string {
	var b strings.Builder

	if v.data.ReviewsErr != nil {
		b.WriteString(styles.AccentStyle.Render("Reviews"))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Reviews are unavailable"))
		b.WriteString("\n")
		return b.String()
	}
	sum := v.data.Reviews
	if sum == nil {
		return ""
	}

	if len(sum.CriticReviews) > 0 {
		b.WriteString(styles.AccentStyle.Render("Critic Reviews"))
		b.WriteString("\n")
		for _, r := range sum.CriticReviews {
			b.WriteString(styles.TitleStyle.Render(r.Source))
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %g/%g", r.Score, r.MaxScore)))
			b.WriteString("\n")
			if r.Review != "" {
				b.WriteString(wordWrap(r.Review, width))
				b.WriteString("\n")
			}
			for _, p := range r.Pros {
				b.WriteString(styles.SuccessStyle.Render("  + " + p))
				b.WriteString("\n")
			}
			for _, c := range r.Cons {
				b.WriteString(styles.ErrorStyle.Render("  - " + c))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(styles.AccentStyle.Render("User Reviews"))
	if sum.UserRating.Total > 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %.1f avg from %d", sum.UserRating.Average, sum.UserRating.Total)))
	}
	b.WriteString("\n")
	if len(sum.UserReviews) == 0 {
		b.WriteString(styles.DimStyle.Render("No user reviews yet. Press w to write one"))
		b.WriteString("\n")
	}
	for _, r := range sum.UserReviews {
		b.WriteString(styles.TitleStyle.Render(r.Username))
		b.WriteString("  ")
		b.WriteString(styles.StarStyle.Render(domain.Stars(float64(r.Rating))))
		if r.Date != "" {
			b.WriteString(styles.DimStyle.Render("  " + r.Date))
		}
		b.WriteString("\n")
		b.WriteString(wordWrap(r.Review, width))
		b.WriteString("\n\n")
	}
	return b.String()
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for p, para := range strings.Split(text, "\n") {
		if p > 0 {
			result.WriteString("\n")
		}
		lineLen := 0
		for _, word := range strings.Fields(para) {
			wordLen := lipgloss.Width(word)
			if lineLen+wordLen+1 > width && lineLen > 0 {
				result.WriteString("\n")
				lineLen = 0
			}
			if lineLen > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wordLen
		}
	}
	return result.String()
}

// RenderError renders an error message
func RenderError(err error, width int) string {
	msg := wordWrap(domain.UserMessage(err), width-4)
	return styles.ErrorStyle.Render("Error: " + msg)
}
