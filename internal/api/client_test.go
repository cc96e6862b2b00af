package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// memStore is an in-memory TokenStore for tests.
type memStore struct {
	token   string
	saveErr error
}

func (m *memStore) Token() string { return m.token }

func (m *memStore) Save(token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memStore) Clear() error {
	m.token = ""
	return nil
}

func TestParseServerURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseServerURL("")
	if err != nil {
		t.Fatalf("parseServerURL returned error: %v", err)
	}
	if u.String() != defaultServerURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultServerURL)
	}

	u, err = parseServerURL("example.com:9090")
	if err != nil {
		t.Fatalf("parseServerURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:9090" {
		t.Fatalf("url = %q, want http://example.com:9090", u.String())
	}

	u, err = parseServerURL("https://reads.example.com/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseServerURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_BearerHeaderFollowsStoredToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	store := &memStore{}
	c, err := NewClient(server.URL, store)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	if _, err := c.ListBooks(ctx); err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty with no stored token", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}

	store.token = "tok-123"
	if _, err := c.ListBooks(ctx); err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestClient_LoginPersistsTokenBeforeReturning(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "issued-" + creds.Email})
	}))
	t.Cleanup(server.Close)

	store := &memStore{}
	c, err := NewClient(server.URL, store)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	token, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "issued-a@b.c" {
		t.Fatalf("token = %q, want issued-a@b.c", token)
	}
	if store.Token() != token {
		t.Fatalf("stored token = %q, want %q", store.Token(), token)
	}
}

func TestClient_LoginSurfacesPersistFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "abc"})
	}))
	t.Cleanup(server.Close)

	store := &memStore{saveErr: errors.New("disk full")}
	c, err := NewClient(server.URL, store)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Login(context.Background(), Credentials{})
	if err == nil || !strings.Contains(err.Error(), "persist token") {
		t.Fatalf("Login error = %v, want persist token error", err)
	}
}

func TestClient_ServerRejectionMessageEmbedsStatusAndBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad credentials"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, &memStore{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Login(context.Background(), Credentials{})
	if err == nil {
		t.Fatal("Login returned nil error, want 401 rejection")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), `{"error":"bad credentials"}`) {
		t.Fatalf("error = %q, want message with 401 and serialized body", err.Error())
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Body != `{"error":"bad credentials"}` {
		t.Fatalf("Error = %+v, want status 401 with body kept", apiErr)
	}
	if !IsAuthError(err) {
		t.Fatal("IsAuthError = false, want true for 401")
	}
}

func TestClient_UnreachableServerUsesFixedMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	c, err := NewClient(server.URL, &memStore{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.ListBooks(context.Background())
	if err == nil {
		t.Fatal("ListBooks returned nil error, want network failure")
	}
	if err.Error() != NoResponseMessage {
		t.Fatalf("error = %q, want the fixed %q message", err.Error(), NoResponseMessage)
	}
	if IsAuthError(err) {
		t.Fatal("IsAuthError = true, want false for network failure")
	}
}

func TestClient_BookListAcceptsBothShapes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/books":
			_, _ = w.Write([]byte(`[{"ID":"1","Title":"Dune","Author":"Herbert","ISBN":"999"}]`))
		case "/available-books":
			_, _ = w.Write([]byte(`{"books":[{"ID":"2","Title":"Emma","Author":"Austen","ISBN":"111"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, &memStore{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	books, err := c.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Fatalf("ListBooks = %#v, want 1 book Dune", books)
	}

	books, err = c.AvailableBooks(context.Background())
	if err != nil {
		t.Fatalf("AvailableBooks returned error: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Emma" {
		t.Fatalf("AvailableBooks = %#v, want 1 book Emma", books)
	}
}

func TestClient_ReadingProgressUnwrapsPayloadKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"your reading progress":[{"title":"Dune","pages_read":50,"total_page":200}]}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, &memStore{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	items, err := c.ReadingProgress(context.Background())
	if err != nil {
		t.Fatalf("ReadingProgress returned error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Dune" || items[0].PagesRead != 50 {
		t.Fatalf("ReadingProgress = %#v, want 1 item Dune at 50 pages", items)
	}
	if pct := items[0].PercentDone(); pct != 25 {
		t.Fatalf("PercentDone = %v, want 25", pct)
	}
}

func TestClient_EncodesQueries(t *testing.T) {
	t.Parallel()

	var gotReviewQuery url.Values
	var gotBoardQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search-reviews":
			gotReviewQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"count":0,"reviews":[]}`))
		case "/leader-board":
			gotBoardQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"count":1,"leaderboard":[{"name":"Abel","rank_score":42}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, &memStore{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.SearchReviews(context.Background(), ReviewQuery{Query: "dune", ISBN: "999", UserID: "u1"})
	if err != nil {
		t.Fatalf("SearchReviews returned error: %v", err)
	}
	if gotReviewQuery.Get("query") != "dune" ||
		gotReviewQuery.Get("isbn") != "999" ||
		gotReviewQuery.Get("user_id") != "u1" {
		t.Fatalf("SearchReviews query = %v, want params encoded", gotReviewQuery)
	}

	board, err := c.Leaderboard(context.Background(), 5)
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if gotBoardQuery.Get("limit") != "5" {
		t.Fatalf("Leaderboard query = %v, want limit=5", gotBoardQuery)
	}
	if len(board) != 1 || board[0].Name != "Abel" || board[0].RankScore != 42 {
		t.Fatalf("Leaderboard = %#v, want 1 entry Abel/42", board)
	}
}

func TestClient_IsAdminProbe(t *testing.T) {
	t.Parallel()

	var status int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = fmt.Fprintf(w, `{"error":"status %d"}`, status)
			return
		}
		_, _ = w.Write([]byte(`{"users":{"total_users":3}}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, &memStore{token: "tok"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	status = http.StatusForbidden
	admin, err := c.IsAdmin(context.Background())
	if err != nil {
		t.Fatalf("IsAdmin returned error on 403: %v", err)
	}
	if admin {
		t.Fatal("IsAdmin = true, want false for 403")
	}

	status = http.StatusOK
	admin, err = c.IsAdmin(context.Background())
	if err != nil {
		t.Fatalf("IsAdmin returned error: %v", err)
	}
	if !admin {
		t.Fatal("IsAdmin = false, want true for 200")
	}

	status = http.StatusUnauthorized
	_, err = c.IsAdmin(context.Background())
	if err == nil {
		t.Fatal("IsAdmin returned nil error, want 401 surfaced")
	}
}

func TestClient_MessageEndpoints(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, &memStore{token: "tok"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name     string
		call     func() (string, error)
		wantPath string
		wantBody map[string]any
	}{
		{
			name: "register",
			call: func() (string, error) {
				return c.Register(ctx, Registration{Username: "abel", Email: "a@b.c", Password: "pw"})
			},
			wantPath: "/register",
			wantBody: map[string]any{"username": "abel", "email": "a@b.c"},
		},
		{
			name: "change password",
			call: func() (string, error) {
				return c.ChangePassword(ctx, "old", "new")
			},
			wantPath: "/change-password",
			wantBody: map[string]any{"old_password": "old", "new_password": "new"},
		},
		{
			name: "return book",
			call: func() (string, error) {
				return c.ReturnBook(ctx, "999")
			},
			wantPath: "/return-book",
			wantBody: map[string]any{"isbn": "999"},
		},
		{
			name: "add soft copy to reading",
			call: func() (string, error) {
				return c.AddToReading(ctx, "999")
			},
			wantPath: "/add-soft-to-reading",
			wantBody: map[string]any{"isbn": "999"},
		},
		{
			name: "update reading progress",
			call: func() (string, error) {
				return c.UpdateReadingProgress(ctx, ProgressUpdate{ISBN: "999", PagesRead: 80})
			},
			wantPath: "/reading-progress",
			wantBody: map[string]any{"isbn": "999", "pages_read": float64(80)},
		},
		{
			name: "submit review",
			call: func() (string, error) {
				return c.SubmitReview(ctx, ReviewSubmission{ISBN: "999", ReviewText: "great"})
			},
			wantPath: "/submit-review",
			wantBody: map[string]any{"isbn": "999", "review_text": "great"},
		},
		{
			name: "add quote",
			call: func() (string, error) {
				return c.AddQuote(ctx, QuoteSubmission{ISBN: "999", Text: "fear is the mind-killer"})
			},
			wantPath: "/add-quote",
			wantBody: map[string]any{"isbn": "999", "text": "fear is the mind-killer"},
		},
		{
			name: "comment on review",
			call: func() (string, error) {
				return c.CommentOnReview(ctx, "rev-1", "agreed")
			},
			wantPath: "/post-comment-review",
			wantBody: map[string]any{"review_id": "rev-1", "text": "agreed"},
		},
		{
			name: "comment on quote",
			call: func() (string, error) {
				return c.CommentOnQuote(ctx, "q-1", "love it")
			},
			wantPath: "/post-comment-quote",
			wantBody: map[string]any{"quote_id": "q-1", "text": "love it"},
		},
		{
			name: "mark notifications seen",
			call: func() (string, error) {
				return c.MarkNotificationsSeen(ctx)
			},
			wantPath: "/mark-notification-seen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := tt.call()
			if err != nil {
				t.Fatalf("call returned error: %v", err)
			}
			if msg != "ok" {
				t.Fatalf("message = %q, want ok", msg)
			}
			if gotPath != tt.wantPath {
				t.Fatalf("path = %q, want %q", gotPath, tt.wantPath)
			}
			for k, want := range tt.wantBody {
				if gotBody[k] != want {
					t.Fatalf("body[%q] = %v, want %v", k, gotBody[k], want)
				}
			}
		})
	}
}

func TestClient_CollectionEnvelopes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search-users":
			_, _ = w.Write([]byte(`{"count":1,"users":[{"name":"Abel","reader_id":"rdr-1"}]}`))
		case "/public-reviews":
			_, _ = w.Write([]byte(`{"reviews":[{"id":"r1","review_text":"great","upvotes":3}]}`))
		case "/user-borrow-history":
			_, _ = w.Write([]byte(`[{"book_title":"Dune","returned":true}]`))
		case "/recommendations":
			_, _ = w.Write([]byte(`{"recommendations":[{"ID":"1","Title":"Emma"}]}`))
		case "/borrow-book":
			_, _ = w.Write([]byte(`{"location":"Shelf B2","phone_number":"0911"}`))
		case "/search-quotes":
			_, _ = w.Write([]byte(`{"count":1,"quotes":[{"id":"q1","text":"words"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, &memStore{token: "tok"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	users, err := c.SearchUsers(ctx, "abel")
	if err != nil || len(users) != 1 || users[0].ReaderID != "rdr-1" {
		t.Fatalf("SearchUsers = %#v, %v; want 1 user rdr-1", users, err)
	}

	reviews, err := c.PublicReviews(ctx)
	if err != nil || len(reviews) != 1 || reviews[0].Upvotes != 3 {
		t.Fatalf("PublicReviews = %#v, %v; want 1 review with 3 upvotes", reviews, err)
	}

	history, err := c.BorrowHistory(ctx)
	if err != nil || len(history) != 1 || !history[0].Returned {
		t.Fatalf("BorrowHistory = %#v, %v; want 1 returned record", history, err)
	}

	recs, err := c.Recommendations(ctx)
	if err != nil || len(recs) != 1 || recs[0].Title != "Emma" {
		t.Fatalf("Recommendations = %#v, %v; want 1 book Emma", recs, err)
	}

	receipt, err := c.BorrowBook(ctx, "999")
	if err != nil || receipt.Location != "Shelf B2" || receipt.PhoneNumber != "0911" {
		t.Fatalf("BorrowBook = %#v, %v; want pickup receipt", receipt, err)
	}

	quotes, err := c.SearchQuotes(ctx, QuoteQuery{Query: "words"})
	if err != nil || len(quotes) != 1 || quotes[0].ID != "q1" {
		t.Fatalf("SearchQuotes = %#v, %v; want 1 quote q1", quotes, err)
	}
}

func TestClient_DecodeErrorIsWrapped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, &memStore{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchProfile(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchProfile error = %v, want decode response error", err)
	}
}
