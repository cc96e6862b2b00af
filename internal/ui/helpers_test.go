package ui

import (
	"testing"
	"time"

	"github.com/bookwormdev/bookworm/internal/api"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this is far too long", 10, "this is f…"},
		{"héllo wörld", 6, "héllo…"},
		{"anything", 0, ""},
		{"ab", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pct    float64
		width  int
		filled int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{-5, 10, 0},
		{250, 10, 10},
	}
	for _, tt := range tests {
		got := progressBar(tt.pct, tt.width)
		runes := []rune(got)
		if len(runes) != tt.width+2 {
			t.Fatalf("progressBar(%v, %d) length = %d, want %d", tt.pct, tt.width, len(runes), tt.width+2)
		}
		count := 0
		for _, r := range runes {
			if r == '█' {
				count++
			}
		}
		if count != tt.filled {
			t.Errorf("progressBar(%v, %d) filled = %d, want %d", tt.pct, tt.width, count, tt.filled)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(time.Time{}); got != "-" {
		t.Errorf("formatTime(zero) = %q, want %q", got, "-")
	}

	old := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := formatTime(old); got != "2019-06-01" {
		t.Errorf("formatTime(old) = %q, want %q", got, "2019-06-01")
	}

	thisYear := time.Date(time.Now().Year(), 3, 9, 8, 30, 0, 0, time.UTC)
	if got := formatTime(thisYear); got != "Mar 09 08:30" {
		t.Errorf("formatTime(thisYear) = %q, want %q", got, "Mar 09 08:30")
	}
}

func TestNotificationText(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"review_upvote", "Someone upvoted your review"},
		{"quote_comment", "New comment on your quote"},
		{"badge", "You earned a new badge"},
		{"weekly_digest", "weekly digest"},
		{"", "Notification"},
	}
	for _, tt := range tests {
		got := notificationText(api.Notification{Type: tt.kind})
		if got != tt.want {
			t.Errorf("notificationText(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
