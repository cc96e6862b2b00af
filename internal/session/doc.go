// Package session holds the client's login state.
//
// # Overview
//
// A Session owns the answer to "who is logged in". It is constructed
// once at startup and passed by reference to whoever needs auth
// awareness; there is no package-level singleton. State moves through
// three positions:
//
//	Unauthenticated ──SetToken──▶ Hydrating ──profile ok──▶ Authenticated
//	       ▲                          │
//	       └────── profile failed ────┘
//
// Hydration is the act of turning a persisted token into an in-memory
// profile. It happens in Initialize (startup, when a token survived
// from a previous run) and Refresh (after SetToken installed a fresh
// one). The profile is replaced wholesale on each successful fetch,
// never partially mutated.
//
// # Invalidation Policy
//
// What a failed hydration means is a policy decision:
//
//   - InvalidateAlways (default): any failure is treated as an expired
//     token. The stored token is cleared and the session lands
//     Unauthenticated. This mirrors the platform's web client, and
//     means a transient network blip logs the user out.
//   - InvalidateOnAuthError: only an explicit 401/403 discards the
//     token; other failures keep it and surface the error so the
//     caller can retry later.
//
// Either way a forced logout is silent: it is a state transition, not
// an error.
//
// # Stale Results
//
// Every hydration attempt is stamped with a generation number taken
// under the lock. SetToken, Logout and newer Refresh calls bump the
// generation, so a profile fetched for a superseded token can never
// overwrite newer state, no matter when its response arrives.
//
// # Concurrency
//
// All methods are safe for concurrent use. Reads (IsLoggedIn, State,
// CurrentUser, Snapshot) take a read lock and return defensive copies;
// the lock is never held across the network fetch.
package session
