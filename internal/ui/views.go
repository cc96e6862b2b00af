package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bookwormdev/bookworm/internal/session"
)

// View renders the full frame.
func (m Model) View() string {
	if !m.ready {
		return "Starting up..."
	}

	if !m.sess.LoggedIn {
		return m.renderLogin()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(m.styles.InputLabel.Render("Search"))
		b.WriteString(" ")
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(m.styles.MutedText.Render("Loading..."))
	case m.currentView == ViewBooks:
		b.WriteString(m.renderBooks())
	case m.currentView == ViewLeaderboard:
		b.WriteString(m.renderLeaderboard())
	case m.currentView == ViewProgress:
		b.WriteString(m.renderProgress())
	case m.currentView == ViewNotifications:
		b.WriteString(m.renderNotifications())
	case m.currentView == ViewReviews:
		b.WriteString(m.renderReviews())
	case m.currentView == ViewQuotes:
		b.WriteString(m.renderQuotes())
	case m.currentView == ViewProfile:
		b.WriteString(m.renderProfile())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Bookworm")

	var tabs []string
	for v := View(0); v < viewCount; v++ {
		label := fmt.Sprintf("%d %s", int(v)+1, v.Title())
		if v == m.currentView {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}

	user := ""
	if m.sess.Profile != nil {
		user = m.styles.MutedText.Render(m.sess.Profile.Name)
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", strings.Join(tabs, ""), "  ", user)
	return m.styles.Header.Width(m.width).Render(line)
}

func (m Model) renderFooter() string {
	if m.showHelp {
		return m.styles.Footer.Width(m.width).Render(m.helpLine())
	}

	status := m.status
	if status == "" {
		status = "? help · tab views · r refresh · q quit"
		return m.styles.Footer.Width(m.width).Render(status)
	}
	style := m.styles.SuccessText
	if m.statusIsErr {
		style = m.styles.DangerText
	}
	return m.styles.Footer.Width(m.width).Render(style.Render(status))
}

func (m Model) helpLine() string {
	parts := []string{
		"j/k move", "tab cycle views", "r refresh", "/ search",
		"b borrow", "R return", "a cycle catalog", "u upvote",
		"m mark seen", "L log out", "q quit",
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Bookworm"))
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render("Sign in to the reading challenge"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.InputLabel.Render("Email"))
	b.WriteString(" ")
	b.WriteString(m.emailInput.View())
	b.WriteString("\n")
	b.WriteString(m.styles.InputLabel.Render("Password"))
	b.WriteString(" ")
	b.WriteString(m.passwordInput.View())
	b.WriteString("\n\n")

	switch {
	case m.loggingIn:
		b.WriteString(m.styles.MutedText.Render("Signing in..."))
	case m.sess.State == session.Hydrating:
		b.WriteString(m.styles.MutedText.Render("Loading your profile..."))
	case m.status != "":
		style := m.styles.SuccessText
		if m.statusIsErr {
			style = m.styles.DangerText
		}
		b.WriteString(style.Render(m.status))
	default:
		b.WriteString(m.styles.MutedText.Render("enter to submit · tab to switch fields · ctrl+c to quit"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderBooks() string {
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Catalog: " + m.bookSource.label()))
	b.WriteString("\n\n")
	if len(m.books) == 0 {
		b.WriteString(m.styles.MutedText.Render("No books."))
		return b.String()
	}
	for i, book := range m.books {
		marker := "  "
		line := fmt.Sprintf("%s by %s", book.Title, book.Author)
		detail := fmt.Sprintf("  %s · %s · %s", book.ISBN, book.Genre, book.Type)
		if book.Type == "hardcopy" {
			if book.Available {
				detail += " · " + book.PhysicalLocation
			} else {
				detail += " · borrowed out"
			}
		}
		if i == m.selected {
			marker = "> "
			b.WriteString(m.styles.Selected.Render(marker + line))
		} else {
			b.WriteString(m.styles.Text.Render(marker + line))
		}
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render(detail))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderLeaderboard() string {
	if len(m.board) == 0 {
		return m.styles.MutedText.Render("Leaderboard is empty.")
	}
	var b strings.Builder
	for i, entry := range m.board {
		line := fmt.Sprintf("%2d. %-24s %5d pts  %3d books  %s",
			i+1, truncate(entry.Name, 24), entry.RankScore, entry.BooksRead, entry.ClassTag)
		if len(entry.Badges) > 0 {
			line += "  [" + strings.Join(entry.Badges, ", ") + "]"
		}
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString(m.styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderProgress() string {
	if len(m.progress) == 0 {
		return m.styles.MutedText.Render("Nothing on your reading list.")
	}
	var b strings.Builder
	for i, item := range m.progress {
		pct := item.PercentDone()
		line := fmt.Sprintf("%-32s %s %3.0f%%", truncate(item.Title, 32), progressBar(pct, 20), pct)
		if item.CompletedStatus {
			line += "  done"
		} else if item.StreakDays > 0 {
			line += fmt.Sprintf("  %dd streak", item.StreakDays)
		}
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString(m.styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderNotifications() string {
	if len(m.notifications) == 0 {
		return m.styles.MutedText.Render("No notifications.")
	}
	var b strings.Builder
	for i, n := range m.notifications {
		badge := "•"
		style := m.styles.Text
		if n.Seen {
			badge = " "
			style = m.styles.MutedText
		}
		line := fmt.Sprintf("%s %s  %s", badge, formatTime(n.CreatedAt), notificationText(n))
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderReviews() string {
	if len(m.reviews) == 0 {
		return m.styles.MutedText.Render("No reviews. Press / to search.")
	}
	var b strings.Builder
	for i, review := range m.reviews {
		head := fmt.Sprintf("%s (%s) · %d upvotes", review.UserName, review.ReaderID, review.Upvotes)
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render("> " + head))
		} else {
			b.WriteString(m.styles.AccentText.Render("  " + head))
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Text.Render("  " + truncate(review.ReviewText, m.contentWidth())))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderQuotes() string {
	if len(m.quotes) == 0 {
		return m.styles.MutedText.Render("No quotes. Press / to search.")
	}
	var b strings.Builder
	for i, quote := range m.quotes {
		head := fmt.Sprintf("%s (%s) · %d upvotes", quote.UserName, quote.ReaderID, quote.Upvotes)
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render("> " + head))
		} else {
			b.WriteString(m.styles.AccentText.Render("  " + head))
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Text.Render("  “" + truncate(quote.Text, m.contentWidth()) + "”"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderProfile() string {
	if m.profile == nil {
		return m.styles.MutedText.Render("Profile not loaded. Press r to refresh.")
	}
	p := m.profile

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(p.Name))
	b.WriteString(m.styles.MutedText.Render("  " + p.ReaderID))
	if m.isAdmin {
		b.WriteString(m.styles.WarningText.Render("  admin"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.Text.Render(fmt.Sprintf("Rank score  %d", p.RankScore)))
	b.WriteString("\n")
	b.WriteString(m.styles.Text.Render(fmt.Sprintf("Books read  %d", p.BooksRead)))
	b.WriteString("\n")
	if p.ClassTag != "" {
		b.WriteString(m.styles.Text.Render("Class       " + p.ClassTag))
		b.WriteString("\n")
	}
	if len(p.Badges) > 0 {
		b.WriteString(m.styles.AccentText.Render("Badges      " + strings.Join(p.Badges, ", ")))
		b.WriteString("\n")
	}

	if len(p.BorrowHistory) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.AccentText.Render("Borrow history"))
		b.WriteString("\n")
		for _, record := range p.BorrowHistory {
			state := "out"
			if record.Returned {
				state = "returned"
			}
			b.WriteString(m.styles.MutedText.Render(
				fmt.Sprintf("  %-32s %s  %s", truncate(record.BookTitle, 32), record.BorrowDate, state)))
			b.WriteString("\n")
		}
	}

	if m.isAdmin && m.analytics != nil {
		b.WriteString("\n")
		b.WriteString(m.renderAnalytics())
	}
	return b.String()
}

func (m Model) renderAnalytics() string {
	a := m.analytics
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Platform analytics"))
	b.WriteString("\n")
	b.WriteString(m.styles.Text.Render(fmt.Sprintf(
		"  %d readers (%d pending) · %d books · %d reviews · %d quotes",
		a.Users.TotalUsers, a.Users.PendingRegistrations,
		a.Books.TotalBooks, a.Social.TotalReviews, a.Social.TotalQuotes)))
	b.WriteString("\n")
	b.WriteString(m.styles.Text.Render(fmt.Sprintf(
		"  avg reading time %.1fh · %d badges awarded",
		a.Reading.AvgReadingTimeHours, a.Badges.TotalBadges)))
	b.WriteString("\n")
	for i, reader := range a.Users.TopReadersByBooks {
		if i >= 3 {
			break
		}
		b.WriteString(m.styles.MutedText.Render(fmt.Sprintf(
			"  top reader: %s (%d books)", reader.Name, reader.BooksRead)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) contentWidth() int {
	if m.width <= 4 {
		return 76
	}
	return m.width - 4
}
