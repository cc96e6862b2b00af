package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookwormdev/bookworm/internal/api"
	"github.com/bookwormdev/bookworm/internal/config"
	"github.com/bookwormdev/bookworm/internal/session"
)

// Service is the slice of the API client the UI drives. This interface
// is implemented by *api.Client and can be used for testing.
type Service interface {
	Login(ctx context.Context, creds api.Credentials) (string, error)
	ListBooks(ctx context.Context) ([]api.Book, error)
	AvailableBooks(ctx context.Context) ([]api.Book, error)
	Recommendations(ctx context.Context) ([]api.Book, error)
	SearchBooks(ctx context.Context, query string) ([]api.Book, error)
	BorrowBook(ctx context.Context, isbn string) (*api.BorrowReceipt, error)
	ReturnBook(ctx context.Context, isbn string) (string, error)
	Leaderboard(ctx context.Context, limit int) ([]api.LeaderboardEntry, error)
	ReadingProgress(ctx context.Context) ([]api.ReadingProgress, error)
	ListNotifications(ctx context.Context) ([]api.Notification, error)
	MarkNotificationsSeen(ctx context.Context) (string, error)
	SearchReviews(ctx context.Context, query api.ReviewQuery) ([]api.Review, error)
	SearchQuotes(ctx context.Context, query api.QuoteQuery) ([]api.Quote, error)
	ToggleReviewUpvote(ctx context.Context, reviewID string) (*api.UpvoteResult, error)
	ToggleQuoteUpvote(ctx context.Context, quoteID string) (*api.UpvoteResult, error)
	FetchAnalytics(ctx context.Context) (*api.Analytics, error)
	IsAdmin(ctx context.Context) (bool, error)
}

// Ensure the real client satisfies the UI's needs at compile time.
var _ Service = (*api.Client)(nil)

// Messages delivered back into Update. List messages carry the request
// sequence they were issued under; stale replies are dropped so a slow
// response can never overwrite a newer view.
type (
	sessionRefreshedMsg struct {
		snap session.Snapshot
	}

	loginResultMsg struct {
		token string
		err   error
	}

	booksLoadedMsg struct {
		seq    int
		source BookSource
		books  []api.Book
		err    error
	}

	boardLoadedMsg struct {
		seq     int
		entries []api.LeaderboardEntry
		err     error
	}

	progressLoadedMsg struct {
		seq   int
		items []api.ReadingProgress
		err   error
	}

	notificationsLoadedMsg struct {
		seq   int
		items []api.Notification
		err   error
	}

	reviewsLoadedMsg struct {
		seq   int
		items []api.Review
		err   error
	}

	quotesLoadedMsg struct {
		seq   int
		items []api.Quote
		err   error
	}

	profileLoadedMsg struct {
		seq     int
		profile *api.Profile
		admin   bool
		err     error
	}

	analyticsLoadedMsg struct {
		seq       int
		analytics *api.Analytics
		err       error
	}

	actionDoneMsg struct {
		message string
		err     error
	}
)

func (m Model) loginCmd(email, password string) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		token, err := client.Login(ctx, api.Credentials{Email: email, Password: password})
		return loginResultMsg{token: token, err: err}
	}
}

func (m Model) hydrateCmd() tea.Cmd {
	sess := m.session
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		_ = sess.Refresh(ctx)
		return sessionRefreshedMsg{snap: sess.Snapshot()}
	}
}

func (m Model) loadBooksCmd(seq int, source BookSource, query string) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		var books []api.Book
		var err error
		switch {
		case query != "":
			books, err = client.SearchBooks(ctx, query)
		case source == SourceAvailable:
			books, err = client.AvailableBooks(ctx)
		case source == SourceRecommended:
			books, err = client.Recommendations(ctx)
		default:
			books, err = client.ListBooks(ctx)
		}
		return booksLoadedMsg{seq: seq, source: source, books: books, err: err}
	}
}

func (m Model) loadBoardCmd(seq int) tea.Cmd {
	client := m.client
	parent := m.ctx
	limit := m.config.LeaderboardSize
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		entries, err := client.Leaderboard(ctx, limit)
		return boardLoadedMsg{seq: seq, entries: entries, err: err}
	}
}

func (m Model) loadProgressCmd(seq int) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		items, err := client.ReadingProgress(ctx)
		return progressLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) loadNotificationsCmd(seq int) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		items, err := client.ListNotifications(ctx)
		return notificationsLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) loadReviewsCmd(seq int, query string) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		items, err := client.SearchReviews(ctx, api.ReviewQuery{Query: query})
		return reviewsLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) loadQuotesCmd(seq int, query string) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		items, err := client.SearchQuotes(ctx, api.QuoteQuery{Query: query})
		return quotesLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) loadProfileCmd(seq int) tea.Cmd {
	sess := m.session
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		// Re-hydrate so the profile view always shows fresh numbers.
		if err := sess.Refresh(ctx); err != nil {
			return profileLoadedMsg{seq: seq, err: err}
		}
		snap := sess.Snapshot()
		if snap.Profile == nil {
			return profileLoadedMsg{seq: seq, profile: nil}
		}
		admin, err := client.IsAdmin(ctx)
		if err != nil {
			// Role stays unknown; the profile itself is still useful.
			admin = snap.Profile.IsAdmin()
		}
		return profileLoadedMsg{seq: seq, profile: snap.Profile, admin: admin}
	}
}

func (m Model) loadAnalyticsCmd(seq int) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		analytics, err := client.FetchAnalytics(ctx)
		return analyticsLoadedMsg{seq: seq, analytics: analytics, err: err}
	}
}

func (m Model) borrowCmd(isbn string) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		receipt, err := client.BorrowBook(ctx, isbn)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{message: "Pick up at " + receipt.Location + " (call " + receipt.PhoneNumber + ")"}
	}
}

func (m Model) returnCmd(isbn string) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		message, err := client.ReturnBook(ctx, isbn)
		return actionDoneMsg{message: message, err: err}
	}
}

func (m Model) upvoteReviewCmd(reviewID string) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		result, err := client.ToggleReviewUpvote(ctx, reviewID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{message: result.Message}
	}
}

func (m Model) upvoteQuoteCmd(quoteID string) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		result, err := client.ToggleQuoteUpvote(ctx, quoteID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{message: result.Message}
	}
}

func (m Model) markSeenCmd() tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, config.RequestTimeout)
		defer cancel()
		message, err := client.MarkNotificationsSeen(ctx)
		return actionDoneMsg{message: message, err: err}
	}
}
