// Package app wires configuration, credentials, the API client, the
// session and the UI into the running Bookworm application.
//
// Run is the composition root: every dependency is constructed here
// and passed down by reference, so nothing below holds ambient global
// state. Startup order matters only in one place: the session is
// hydrated from the persisted token before the UI starts, so the first
// frame already knows whether the user is logged in.
//
// Fatal errors (unreadable config, bad server URL) abort Run;
// hydration failures do not, since an expired token simply lands the
// UI on the login form.
package app
