// Package api provides the HTTP client for the reading-challenge
// server.
//
// # Overview
//
// Every server operation the client consumes is one method on Client:
// one request out, one typed payload back. The package owns the three
// cross-cutting concerns so feature code never repeats them:
//
//   - Bearer injection: the token store is read on every outgoing
//     request; when a token is present it is attached as
//     "Authorization: Bearer <token>". A missing token is not an
//     error, since the catalog, leaderboard and search endpoints are
//     public.
//   - Envelope unwrapping: endpoints that nest their payload under a
//     wrapper key ("books", "reviews", "leaderboard", even the
//     human-readable "your reading progress") are unwrapped here, so
//     callers always receive plain slices and structs.
//   - Error normalization: every failure flattens into *Error with a
//     human-readable message (see below).
//
// # Client Usage
//
//	store, _ := credentials.NewStore("")
//	client, err := api.NewClient("http://127.0.0.1:8080", store)
//	if err != nil {
//		log.Fatalf("init client: %v", err)
//	}
//
//	token, err := client.Login(ctx, api.Credentials{Email: email, Password: password})
//	// token is already persisted when Login returns
//
//	books, err := client.ListBooks(ctx)
//	profile, err := client.FetchProfile(ctx)
//
// # Error Handling
//
// Failed calls return *Error carrying a single message:
//
//   - The server rejected the request (non-2xx): "Error <status>:
//     <body>". Status and Body stay on the error so policy code can
//     inspect them; IsAuthError reports 401/403.
//   - The request went out but no response arrived: the fixed
//     NoResponseMessage string, regardless of the underlying network
//     error.
//   - The request never left the client (marshal or construction
//     failure): the underlying failure text.
//
// The client logs each failure and returns it. There are no retries
// and no backoff; callers decide what a failure means.
//
// # Response Shape Normalization
//
// The server returns book collections either as a bare JSON array or
// as an object wrapping the array under "books". bookList absorbs both
// at the decode boundary, so no caller ever sniffs shapes.
//
// # Side Effects
//
// Login is the only method with a client-side side effect: the
// returned token is written to the TokenStore before Login returns, so
// the very next request is authenticated. Everything else only returns
// data.
//
// # Concurrency
//
// Client is safe for concurrent use; the underlying http.Client pools
// connections. All methods take a context and respect cancellation.
// Requests time out after ten seconds.
package api
