package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookwormdev/bookworm/internal/api"
	"github.com/bookwormdev/bookworm/internal/config"
	"github.com/bookwormdev/bookworm/internal/session"
)

// View identifies a screen in the UI.
type View int

const (
	ViewBooks View = iota
	ViewLeaderboard
	ViewProgress
	ViewNotifications
	ViewReviews
	ViewQuotes
	ViewProfile

	viewCount
)

// Title returns the tab label for a view.
func (v View) Title() string {
	switch v {
	case ViewBooks:
		return "Books"
	case ViewLeaderboard:
		return "Leaderboard"
	case ViewProgress:
		return "Progress"
	case ViewNotifications:
		return "Notifications"
	case ViewReviews:
		return "Reviews"
	case ViewQuotes:
		return "Quotes"
	case ViewProfile:
		return "Profile"
	default:
		return "Unknown"
	}
}

// BookSource selects which catalog listing the Books view shows.
type BookSource int

const (
	SourceAll BookSource = iota
	SourceAvailable
	SourceRecommended

	sourceCount
)

func (s BookSource) label() string {
	switch s {
	case SourceAvailable:
		return "available"
	case SourceRecommended:
		return "recommended"
	default:
		return "all"
	}
}

// Options configure the UI.
type Options struct {
	Context context.Context
	Client  Service
	Session *session.Session
	Config  *config.Config
}

const (
	focusEmail = iota
	focusPassword
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	client  Service
	session *session.Session
	config  *config.Config

	keys   keyMap
	styles Styles

	width  int
	height int
	ready  bool

	sess        session.Snapshot
	currentView View
	bookSource  BookSource
	selected    int
	seq         int
	loading     bool
	showHelp    bool

	status      string
	statusIsErr bool

	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loggingIn     bool

	searchInput textinput.Model
	searching   bool

	books         []api.Book
	board         []api.LeaderboardEntry
	progress      []api.ReadingProgress
	notifications []api.Notification
	reviews       []api.Review
	quotes        []api.Quote
	profile       *api.Profile
	isAdmin       bool
	analytics     *api.Analytics
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	email := textinput.New()
	email.Placeholder = "you@university.edu"
	email.CharLimit = 128
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128
	password.Width = 40

	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 128
	search.Width = 40

	snap := opts.Session.Snapshot()
	return Model{
		ctx:           ctx,
		client:        opts.Client,
		session:       opts.Session,
		config:        opts.Config,
		keys:          defaultKeyMap(),
		styles:        defaultTheme().Styles(),
		sess:          snap,
		currentView:   ViewBooks,
		loading:       snap.LoggedIn,
		emailInput:    email,
		passwordInput: password,
		searchInput:   search,
	}
}

// Init starts the initial data load. The command is issued under the
// model's starting sequence, so its reply is accepted unless the user
// has already navigated away.
func (m Model) Init() tea.Cmd {
	if m.sess.LoggedIn {
		return m.loadBooksCmd(m.seq, m.bookSource, "")
	}
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.searching && !m.inputActive() {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if !m.sess.LoggedIn {
			return m.handleLoginKey(msg)
		}
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)

	case sessionRefreshedMsg:
		return m.handleSessionRefreshed(msg)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case booksLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.books = msg.books
		m.bookSource = msg.source
		m.clampSelection(len(m.books))
		return m, nil

	case boardLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.board = msg.entries
		m.clampSelection(len(m.board))
		return m, nil

	case progressLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.progress = msg.items
		m.clampSelection(len(m.progress))
		return m, nil

	case notificationsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.notifications = msg.items
		m.clampSelection(len(m.notifications))
		return m, nil

	case reviewsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.reviews = msg.items
		m.clampSelection(len(m.reviews))
		return m, nil

	case quotesLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.quotes = msg.items
		m.clampSelection(len(m.quotes))
		return m, nil

	case profileLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.sess = m.session.Snapshot()
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.profile = msg.profile
		m.isAdmin = msg.admin
		if msg.admin && m.analytics == nil {
			m.loading = true
			return m, m.loadAnalyticsCmd(m.seq)
		}
		return m, nil

	case analyticsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.analytics = msg.analytics
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.status = msg.message
		m.statusIsErr = false
		// An action changed server state; reload the view it acted on.
		return m.reload()
	}

	return m, nil
}

func (m Model) inputActive() bool {
	return !m.sess.LoggedIn
}

func (m Model) fail(err error) Model {
	m.status = err.Error()
	m.statusIsErr = true
	return m
}

func (m *Model) clampSelection(length int) {
	if length == 0 {
		m.selected = 0
		return
	}
	if m.selected >= length {
		m.selected = length - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) handleSessionRefreshed(msg sessionRefreshedMsg) (tea.Model, tea.Cmd) {
	wasLoggedIn := m.sess.LoggedIn
	m.sess = msg.snap
	m.loggingIn = false

	if m.sess.LoggedIn {
		if m.sess.Profile != nil {
			m.status = fmt.Sprintf("Welcome back, %s", m.sess.Profile.Name)
			m.statusIsErr = false
		}
		return m.switchTo(ViewBooks)
	}

	if wasLoggedIn || msg.snap.State == session.Unauthenticated {
		m = m.resetData()
		if m.status == "" {
			m.status = "Session expired, please sign in again"
			m.statusIsErr = true
		}
	}
	return m, textinput.Blink
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loggingIn = false
		return m.fail(msg.err), nil
	}
	// The token is persisted; flip the session into hydration and go
	// fetch the profile.
	if err := m.session.SetToken(msg.token); err != nil {
		m.loggingIn = false
		return m.fail(err), nil
	}
	m.sess = m.session.Snapshot()
	m.status = ""
	m.statusIsErr = false
	return m, m.hydrateCmd()
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.loginFocus == focusEmail {
			m.loginFocus = focusPassword
			m.emailInput.Blur()
			return m, m.passwordInput.Focus()
		}
		email := m.emailInput.Value()
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.status = "Email and password are required"
			m.statusIsErr = true
			return m, nil
		}
		m.loggingIn = true
		m.status = ""
		m.statusIsErr = false
		return m, m.loginCmd(email, password)

	case msg.String() == "tab", msg.String() == "shift+tab":
		if m.loginFocus == focusEmail {
			m.loginFocus = focusPassword
			m.emailInput.Blur()
			return m, m.passwordInput.Focus()
		}
		m.loginFocus = focusEmail
		m.passwordInput.Blur()
		return m, m.emailInput.Focus()
	}

	var cmd tea.Cmd
	if m.loginFocus == focusEmail {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		query := m.searchInput.Value()
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.seq++
		m.loading = true
		m.selected = 0
		switch m.currentView {
		case ViewBooks:
			return m, m.loadBooksCmd(m.seq, m.bookSource, query)
		case ViewReviews:
			return m, m.loadReviewsCmd(m.seq, query)
		case ViewQuotes:
			return m, m.loadQuotesCmd(m.seq, query)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchTo((m.currentView + 1) % viewCount)

	case key.Matches(msg, m.keys.ViewBooks):
		return m.switchTo(ViewBooks)
	case key.Matches(msg, m.keys.ViewLeaderboard):
		return m.switchTo(ViewLeaderboard)
	case key.Matches(msg, m.keys.ViewProgress):
		return m.switchTo(ViewProgress)
	case key.Matches(msg, m.keys.ViewNotifications):
		return m.switchTo(ViewNotifications)
	case key.Matches(msg, m.keys.ViewReviews):
		return m.switchTo(ViewReviews)
	case key.Matches(msg, m.keys.ViewQuotes):
		return m.switchTo(ViewQuotes)
	case key.Matches(msg, m.keys.ViewProfile):
		return m.switchTo(ViewProfile)

	case key.Matches(msg, m.keys.Refresh):
		return m.reload()

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.listLength()-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		switch m.currentView {
		case ViewBooks, ViewReviews, ViewQuotes:
			m.searching = true
			return m, m.searchInput.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Borrow):
		if m.currentView == ViewBooks {
			if book, ok := m.selectedBook(); ok {
				return m, m.borrowCmd(book.ISBN)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Return):
		if m.currentView == ViewBooks {
			if book, ok := m.selectedBook(); ok {
				return m, m.returnCmd(book.ISBN)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Upvote):
		switch m.currentView {
		case ViewReviews:
			if m.selected < len(m.reviews) {
				return m, m.upvoteReviewCmd(m.reviews[m.selected].ID)
			}
		case ViewQuotes:
			if m.selected < len(m.quotes) {
				return m, m.upvoteQuoteCmd(m.quotes[m.selected].ID)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkSeen):
		if m.currentView == ViewNotifications {
			return m, m.markSeenCmd()
		}
		return m, nil

	case msg.String() == "a":
		if m.currentView == ViewBooks {
			m.bookSource = (m.bookSource + 1) % sourceCount
			return m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		if err := m.session.Logout(); err != nil {
			return m.fail(err), nil
		}
		m = m.resetData()
		m.sess = m.session.Snapshot()
		m.status = "Signed out"
		m.statusIsErr = false
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) resetData() Model {
	m.books = nil
	m.board = nil
	m.progress = nil
	m.notifications = nil
	m.reviews = nil
	m.quotes = nil
	m.profile = nil
	m.isAdmin = false
	m.analytics = nil
	m.selected = 0
	m.loading = false
	m.loggingIn = false
	m.loginFocus = focusEmail
	m.emailInput.SetValue("")
	m.passwordInput.SetValue("")
	m.emailInput.Focus()
	m.passwordInput.Blur()
	return m
}

func (m Model) switchTo(view View) (Model, tea.Cmd) {
	m.currentView = view
	m.selected = 0
	return m.reload()
}

// reload bumps the request sequence and fetches data for the current
// view. A bumped sequence makes any in-flight reply stale.
func (m Model) reload() (Model, tea.Cmd) {
	m.seq++
	m.loading = true
	switch m.currentView {
	case ViewBooks:
		return m, m.loadBooksCmd(m.seq, m.bookSource, "")
	case ViewLeaderboard:
		return m, m.loadBoardCmd(m.seq)
	case ViewProgress:
		return m, m.loadProgressCmd(m.seq)
	case ViewNotifications:
		return m, m.loadNotificationsCmd(m.seq)
	case ViewReviews:
		return m, m.loadReviewsCmd(m.seq, "")
	case ViewQuotes:
		return m, m.loadQuotesCmd(m.seq, "")
	case ViewProfile:
		return m, m.loadProfileCmd(m.seq)
	}
	m.loading = false
	return m, nil
}

func (m Model) listLength() int {
	switch m.currentView {
	case ViewBooks:
		return len(m.books)
	case ViewLeaderboard:
		return len(m.board)
	case ViewProgress:
		return len(m.progress)
	case ViewNotifications:
		return len(m.notifications)
	case ViewReviews:
		return len(m.reviews)
	case ViewQuotes:
		return len(m.quotes)
	}
	return 0
}

func (m Model) selectedBook() (api.Book, bool) {
	if m.selected < 0 || m.selected >= len(m.books) {
		return api.Book{}, false
	}
	return m.books[m.selected], true
}

// Run starts the UI and blocks until it exits.
func Run(opts Options) error {
	program := tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithContext(opts.Context),
	)
	_, err := program.Run()
	return err
}
