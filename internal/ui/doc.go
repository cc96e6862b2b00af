// Package ui implements the Bookworm terminal interface using Bubble
// Tea.
//
// The interface is a single Model with seven views (books,
// leaderboard, reading progress, notifications, reviews, quotes,
// profile) switched by number keys or tab. A login form is shown
// whenever the session is not authenticated; everything else is gated
// behind it.
//
// All server calls run as tea.Cmd closures against the Service
// interface, which *api.Client satisfies. Each list fetch is stamped
// with the model's request sequence; the sequence is bumped on every
// navigation or refresh, and Update drops any reply whose stamp no
// longer matches. A slow response from a view the user already left
// can therefore never clobber the current view's data.
//
// Login flows through the session: a successful /login hands the
// token to session.SetToken (which persists it), then a hydration
// command refreshes the profile and reports back with a fresh
// snapshot. Logout clears the session and returns to the form.
//
// The Model is a value; Update returns modified copies and never
// shares mutable state with commands beyond the session and client,
// which are safe for concurrent use.
package ui
