package session

import (
	"context"
	"sync"

	"github.com/bookwormdev/bookworm/internal/api"
)

// State is the login lifecycle position.
type State int

const (
	// Unauthenticated means no usable token is known.
	Unauthenticated State = iota
	// Hydrating means a token exists but the profile fetch has not
	// completed yet.
	Hydrating
	// Authenticated means both token and profile are present.
	Authenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Hydrating:
		return "hydrating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// InvalidatePolicy decides what a failed profile hydration means for
// the stored token.
type InvalidatePolicy int

const (
	// InvalidateAlways treats any hydration failure as an expired
	// token: the stored token is cleared and the user is logged out.
	// This matches the platform's web client, at the cost of logging
	// the user out on a transient network blip.
	InvalidateAlways InvalidatePolicy = iota
	// InvalidateOnAuthError only discards the token when the server
	// explicitly rejected it with a 401 or 403; other failures keep
	// the token so a later Refresh can retry.
	InvalidateOnAuthError
)

// Session is the single source of truth for "who is logged in". It is
// safe for concurrent use; the UI reads snapshots while hydration runs.
type Session struct {
	mu      sync.RWMutex
	tokens  api.TokenStore
	fetcher api.ProfileFetcher
	policy  InvalidatePolicy

	state   State
	profile *api.Profile
	gen     uint64 // hydration generation, guards stale results
}

// Option configures a Session.
type Option func(*Session)

// WithInvalidatePolicy overrides the default InvalidateAlways policy.
func WithInvalidatePolicy(policy InvalidatePolicy) Option {
	return func(s *Session) { s.policy = policy }
}

// New builds a Session over the given token store and profile fetcher.
// The session starts Unauthenticated; call Initialize to hydrate from
// a previously persisted token.
func New(tokens api.TokenStore, fetcher api.ProfileFetcher, opts ...Option) *Session {
	s := &Session{
		tokens:  tokens,
		fetcher: fetcher,
		policy:  InvalidateAlways,
		state:   Unauthenticated,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize hydrates the session from persisted storage. With no
// stored token it settles into Unauthenticated; with one it fetches
// the profile and lands Authenticated or, on failure, applies the
// invalidation policy. Runs once at startup; identical to Refresh.
func (s *Session) Initialize(ctx context.Context) error {
	return s.Refresh(ctx)
}

// Refresh re-runs hydration for the currently stored token. A forced
// logout (invalid token) is not an error; only a transient failure
// under InvalidateOnAuthError, or a storage failure, is returned.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	token := s.tokens.Token()
	if token == "" {
		s.profile = nil
		s.state = Unauthenticated
		s.mu.Unlock()
		return nil
	}
	s.gen++
	gen := s.gen
	s.state = Hydrating
	s.mu.Unlock()

	profile, err := s.fetcher.FetchProfile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A newer SetToken/Logout/Refresh superseded this attempt.
		return nil
	}
	if err != nil {
		s.profile = nil
		s.state = Unauthenticated
		if s.policy == InvalidateAlways || api.IsAuthError(err) {
			return s.tokens.Clear()
		}
		// Token kept for a later retry.
		return err
	}
	s.profile = profile
	s.state = Authenticated
	return nil
}

// SetToken installs a freshly issued token and marks the session
// Hydrating; the profile fetch happens on the next Refresh, not
// synchronously. An empty token is equivalent to Logout.
func (s *Session) SetToken(token string) error {
	if token == "" {
		return s.Logout()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokens.Save(token); err != nil {
		return err
	}
	s.gen++ // supersede any in-flight hydration
	s.profile = nil
	s.state = Hydrating
	return nil
}

// Logout clears the stored token and the in-memory profile. No server
// call is made; token invalidation is the server's concern.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++ // supersede any in-flight hydration
	s.profile = nil
	s.state = Unauthenticated
	return s.tokens.Clear()
}

// IsLoggedIn reports whether both a token and a hydrated profile are
// present. A token alone, before hydration completes, does not count.
func (s *Session) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Authenticated && s.profile != nil && s.tokens.Token() != ""
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns a copy of the hydrated profile, if any.
func (s *Session) CurrentUser() (api.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return api.Profile{}, false
	}
	return cloneProfile(*s.profile), true
}

// Snapshot is a point-in-time view of the session for rendering.
type Snapshot struct {
	State    State
	Profile  *api.Profile
	LoggedIn bool
}

// Snapshot returns a consistent copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{State: s.state}
	if s.profile != nil {
		p := cloneProfile(*s.profile)
		snap.Profile = &p
		snap.LoggedIn = s.state == Authenticated && s.tokens.Token() != ""
	}
	return snap
}

func cloneProfile(p api.Profile) api.Profile {
	if len(p.Badges) > 0 {
		badges := make([]string, len(p.Badges))
		copy(badges, p.Badges)
		p.Badges = badges
	}
	if len(p.BorrowHistory) > 0 {
		history := make([]api.BorrowRecord, len(p.BorrowHistory))
		copy(history, p.BorrowHistory)
		p.BorrowHistory = history
	}
	return p
}
