package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit    key.Binding
	Help    key.Binding
	Tab     key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Escape  key.Binding

	// View switching
	ViewBooks         key.Binding
	ViewLeaderboard   key.Binding
	ViewProgress      key.Binding
	ViewNotifications key.Binding
	ViewReviews       key.Binding
	ViewQuotes        key.Binding
	ViewProfile       key.Binding

	// List actions
	Borrow   key.Binding
	Return   key.Binding
	Upvote   key.Binding
	MarkSeen key.Binding
	Search   key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Input
	Confirm key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh view"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log out"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel input"),
		),

		ViewBooks: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Books"),
		),
		ViewLeaderboard: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Leaderboard"),
		),
		ViewProgress: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Reading progress"),
		),
		ViewNotifications: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Notifications"),
		),
		ViewReviews: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Reviews"),
		),
		ViewQuotes: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "Quotes"),
		),
		ViewProfile: key.NewBinding(
			key.WithKeys("7"),
			key.WithHelp("7", "Profile"),
		),

		Borrow: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Borrow selected"),
		),
		Return: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Return selected"),
		),
		Upvote: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Toggle upvote"),
		),
		MarkSeen: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Mark all seen"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}
