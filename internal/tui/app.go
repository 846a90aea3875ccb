package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/gamedeck/internal/adapter"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/debounce"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Screen is a page of the application
type Screen int

const (
	ScreenHome Screen = iota
	ScreenGames
	ScreenDetail
)

func (s Screen) String() string {
	switch s {
	case ScreenHome:
		return "Home"
	case ScreenGames:
		return "Games"
	case ScreenDetail:
		return "Game"
	default:
		return ""
	}
}

// pickerKind says which filter the open picker edits
type pickerKind int

const (
	pickNone pickerKind = iota
	pickGenre
	pickPlatform
)

// Error contexts, used to route ErrMsg to the screen that issued it
const (
	ctxHome    = "loading home"
	ctxFacets  = "loading filters"
	ctxDetail  = "loading game"
	ctxOpening = "opening link"
)

const (
	// header and footer lines
	ChromeHeight = 2

	tickInterval  = 100 * time.Millisecond
	statusTimeout = 4 * time.Second
)

// Options configures the model
type Options struct {
	FilterDebounce time.Duration
	SearchDebounce time.Duration
	StartScreen    string // "home" or "games"
	Ordering       domain.Ordering
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Svc      *browse.Service
	Launcher *adapter.Launcher
	Logger   *slog.Logger

	// Screens
	screen  Screen
	history []Screen
	home    *homeView
	games   *gamesView
	detail  *detailView

	// Modals
	QuickSearch    components.QuickSearch
	Picker         components.Picker
	ReviewForm     components.ReviewForm
	searchDebounce *debounce.Coordinator[string]
	pickerKind     pickerKind
	pickerWanted   pickerKind // picker to open once facets arrive

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	opts Options
}

// NewModel creates a new application model
func NewModel(svc *browse.Service, launcher *adapter.Launcher, logger *slog.Logger, opts Options) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if !opts.Ordering.Valid() {
		opts.Ordering = domain.DefaultOrdering
	}

	m := Model{
		State:          StateBrowsing,
		Svc:            svc,
		Launcher:       launcher,
		Logger:         logger,
		home:           newHomeView(),
		games:          newGamesView(svc, opts.FilterDebounce),
		detail:         newDetailView(),
		QuickSearch:    components.NewQuickSearch(),
		Picker:         components.NewPicker(),
		ReviewForm:     components.NewReviewForm(),
		searchDebounce: debounce.New[string](opts.SearchDebounce),
		opts:           opts,
	}
	if opts.StartScreen == "games" {
		m.screen = ScreenGames
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(tickInterval)}
	switch m.screen {
	case ScreenGames:
		cmds = append(cmds, m.games.open(m.defaultFilter()))
	default:
		cmds = append(cmds, LoadHomeCmd(m.Svc))
	}
	return tea.Batch(cmds...)
}

func (m Model) defaultFilter() domain.Filter {
	return domain.DefaultFilter().WithOrdering(m.opts.Ordering)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, m.games.takePending()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.home.setSpinnerFrame(m.SpinnerFrame)
		m.games.setSpinnerFrame(m.SpinnerFrame)
		m.detail.setSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case HomeLoadedMsg:
		m.home.setData(msg.Data)
		if n := len(msg.Data.Failed); n > 0 {
			cmd := m.setStatus("Some sections failed to load", true)
			return m, cmd
		}
		return m, nil

	case QuickSearchTickMsg:
		query, ok := m.searchDebounce.Fire(msg.Ticket)
		if !ok || !m.QuickSearch.IsVisible() || query != m.QuickSearch.Query() {
			return m, nil
		}
		m.QuickSearch.SetLoading()
		return m, QuickSearchCmd(m.Svc, query)

	case QuickSearchResultsMsg:
		if msg.Err != nil {
			m.QuickSearch.SetError(msg.Query, domain.UserMessage(msg.Err))
			return m, nil
		}
		if !m.QuickSearch.SetResults(msg.Query, msg.Games) {
			m.Logger.Debug("dropping stale quick search results", "query", msg.Query)
		}
		return m, nil

	case FilterTickMsg:
		return m, m.games.handleFilterTick(msg)

	case GamesPageMsg:
		err := m.games.handlePage(msg)
		cmds := []tea.Cmd{m.games.takePending()}
		if err != nil && m.screen == ScreenGames {
			cmds = append(cmds, m.setStatus(domain.UserMessage(err), true))
		}
		return m, tea.Batch(cmds...)

	case FacetsLoadedMsg:
		m.games.setFacets(msg.Facets)
		if m.pickerWanted != pickNone && m.screen == ScreenGames {
			m.openPicker(m.pickerWanted)
		}
		m.pickerWanted = pickNone
		return m, nil

	case DetailLoadedMsg:
		if msg.GameID == m.detail.gameID {
			m.detail.setData(msg.Data)
		}
		return m, nil

	case ReviewSubmittedMsg:
		m.ReviewForm.Hide()
		if msg.GameID == m.detail.gameID {
			m.detail.addReview(msg.Review)
		}
		cmd := m.setStatus("Review posted", false)
		return m, cmd

	case ReviewFailedMsg:
		m.ReviewForm.SetError(domain.UserMessage(msg.Err))
		return m, nil

	case LinkOpenedMsg:
		cmd := m.setStatus("Opened in browser", false)
		return m, cmd

	case ErrMsg:
		m.Logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		switch msg.Context {
		case ctxHome:
			m.home.setFailed()
		case ctxDetail:
			m.detail.setError(msg.Err)
		case ctxFacets:
			m.games.facetsFailed()
			m.pickerWanted = pickNone
		}
		cmd := m.setStatus(domain.UserMessage(msg.Err), true)
		return m, cmd

	case StatusMsg:
		cmd := m.setStatus(msg.Message, msg.IsError)
		return m, cmd

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and similar messages go to whichever input has focus
	return m.forwardToInputs(msg)
}

func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.ReviewForm.IsVisible():
		m.ReviewForm, cmd, _ = m.ReviewForm.Update(msg)
	case m.QuickSearch.IsVisible():
		m.QuickSearch, cmd, _ = m.QuickSearch.Update(msg)
	case m.screen == ScreenGames && m.games.search.Focused():
		m.games.search, cmd = m.games.search.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

// pushScreen shows s, remembering the current screen for back
func (m *Model) pushScreen(s Screen) {
	if m.screen != s {
		m.history = append(m.history, m.screen)
	}
	m.screen = s
	m.updateLayout()
}

// back returns to the previous screen, or home when there is none
func (m *Model) back() tea.Cmd {
	leaving := m.screen
	if leaving == ScreenHome {
		return nil
	}
	if leaving == ScreenGames {
		m.games.close()
	}

	if n := len(m.history); n > 0 {
		m.screen = m.history[n-1]
		m.history = m.history[:n-1]
		m.updateLayout()
		return nil
	}

	m.screen = ScreenHome
	m.updateLayout()
	if !m.home.loaded {
		return LoadHomeCmd(m.Svc)
	}
	return nil
}

func (m *Model) openGames(f domain.Filter) tea.Cmd {
	m.pushScreen(ScreenGames)
	return m.games.open(f)
}

func (m *Model) openDetail(g domain.Game) tea.Cmd {
	m.pushScreen(ScreenDetail)
	return m.detail.open(m.Svc, g.ID, g.Name)
}

// openPicker shows the genre or platform picker. Without facets it loads
// them and opens once they arrive.
func (m *Model) openPicker(kind pickerKind) tea.Cmd {
	facets := m.games.facets
	if facets == nil {
		m.pickerWanted = kind
		return m.games.loadFacets()
	}
	m.pickerKind = kind
	switch kind {
	case pickGenre:
		m.Picker.Show("Genre", facets.Genres, m.games.filter.Genre)
	case pickPlatform:
		m.Picker.Show("Platform", facets.Platforms, m.games.filter.Platform)
	}
	return nil
}

// updateLayout sizes the current screen to the window
func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}
	h := max(m.Height-ChromeHeight, 1)
	m.home.setSize(m.Width, h)
	m.games.setSize(m.Width, h)
	m.detail.setSize(m.Width, h)
	m.QuickSearch.SetWidth(min(m.Width-4, 72))
}

// View renders the current screen with header, footer and any modal
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var content string
	switch m.screen {
	case ScreenGames:
		content = m.games.View()
	case ScreenDetail:
		content = m.detail.View()
	default:
		content = m.home.View()
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)

	if m.QuickSearch.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Top,
			m.QuickSearch.View())
	}

	if m.Picker.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Picker.View())
	}

	if m.ReviewForm.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.ReviewForm.View())
	}

	return view
}
