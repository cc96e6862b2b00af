package ui

import (
	"strings"
	"time"

	"github.com/bookwormdev/bookworm/internal/api"
)

// truncate shortens s to at most max runes, appending an ellipsis when
// something was cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// progressBar renders a fixed-width bar for a 0-100 percentage.
func progressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// formatTime renders a timestamp compactly, omitting the year for
// dates in the current year.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if t.Year() == time.Now().Year() {
		return t.Format("Jan 02 15:04")
	}
	return t.Format("2006-01-02")
}

// notificationText turns a raw notification into a readable sentence.
func notificationText(n api.Notification) string {
	switch n.Type {
	case "review_upvote":
		return "Someone upvoted your review"
	case "quote_upvote":
		return "Someone upvoted your quote"
	case "review_comment":
		return "New comment on your review"
	case "quote_comment":
		return "New comment on your quote"
	case "badge":
		return "You earned a new badge"
	default:
		if n.Type == "" {
			return "Notification"
		}
		return strings.ReplaceAll(n.Type, "_", " ")
	}
}
