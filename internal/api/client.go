package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenSource yields the bearer token attached to outgoing requests.
// An empty token means the request goes out unauthenticated, which is
// fine for the public endpoints.
type TokenSource interface {
	Token() string
}

// TokenStore extends TokenSource with persistence, so a successful
// login can write the token through before returning it.
type TokenStore interface {
	TokenSource
	Save(token string) error
	Clear() error
}

// ProfileFetcher defines the slice of the API the session layer needs.
// This interface is implemented by *Client and can be used for testing.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (*Profile, error)
}

// Ensure Client implements ProfileFetcher at compile time.
var _ ProfileFetcher = (*Client)(nil)

// Client talks to the reading-challenge server's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenStore
	userAgent string
}

const (
	defaultServerURL = "http://127.0.0.1:8080"
	defaultUserAgent = "bookworm/0.1"
	requestTimeout   = 10 * time.Second

	// NoResponseMessage is the fixed message used when a request went out
	// but no response ever arrived.
	NoResponseMessage = "no response from server"
)

// Error is the single error shape every failed call resolves to.
// Status and Body are populated only when the server actually
// responded with a non-2xx status.
type Error struct {
	Status int
	Body   string
	msg    string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.msg }

// IsAuthError reports whether err is a 401 or 403 rejection.
func IsAuthError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// NewClient builds a Client for the given server URL. The token store
// is consulted on every outgoing request and written on login.
func NewClient(serverURL string, tokens TokenStore) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token store is nil")
	}
	base, err := parseServerURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		tokens:    tokens,
		userAgent: defaultUserAgent,
	}, nil
}

// Login exchanges credentials for a bearer token. The token is written
// to the store before it is returned, so follow-up calls are already
// authenticated.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/login", creds, &payload); err != nil {
		return "", err
	}
	if err := c.tokens.Save(payload.Token); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}
	return payload.Token, nil
}

// Register submits a registration request. Accounts need admin
// approval before they can log in.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	return c.postForMessage(ctx, "/register", reg)
}

// ChangePassword updates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	body := struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}{oldPassword, newPassword}
	return c.postForMessage(ctx, "/change-password", body)
}

// ListBooks retrieves the full catalog.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var payload bookList
	if err := c.get(ctx, "/books", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AvailableBooks retrieves the catalog entries currently borrowable.
func (c *Client) AvailableBooks(ctx context.Context) ([]Book, error) {
	var payload bookList
	if err := c.get(ctx, "/available-books", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SearchBooks finds catalog entries matching the query string.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]Book, error) {
	values := url.Values{}
	if q := strings.TrimSpace(query); q != "" {
		values.Set("query", q)
	}
	var payload struct {
		Count int      `json:"count"`
		Books bookList `json:"books"`
	}
	if err := c.get(ctx, "/search-books", values, &payload); err != nil {
		return nil, err
	}
	return payload.Books, nil
}

// BorrowBook reserves a hardcopy and returns the pickup details.
func (c *Client) BorrowBook(ctx context.Context, isbn string) (*BorrowReceipt, error) {
	body := struct {
		ISBN string `json:"isbn"`
	}{isbn}
	var payload BorrowReceipt
	if err := c.post(ctx, "/borrow-book", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ReturnBook marks a borrowed hardcopy as returned.
func (c *Client) ReturnBook(ctx context.Context, isbn string) (string, error) {
	body := struct {
		ISBN string `json:"isbn"`
	}{isbn}
	return c.postForMessage(ctx, "/return-book", body)
}

// AddToReading puts a softcopy on the reader's progress list.
func (c *Client) AddToReading(ctx context.Context, isbn string) (string, error) {
	body := struct {
		ISBN string `json:"isbn"`
	}{isbn}
	return c.postForMessage(ctx, "/add-soft-to-reading", body)
}

// ReadingProgress retrieves the reader's in-progress books. The server
// nests the payload under a human-readable key; callers get the bare
// slice.
func (c *Client) ReadingProgress(ctx context.Context) ([]ReadingProgress, error) {
	var payload struct {
		Items []ReadingProgress `json:"your reading progress"`
	}
	if err := c.get(ctx, "/user-reading-progress", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// UpdateReadingProgress records pages read for one book.
func (c *Client) UpdateReadingProgress(ctx context.Context, update ProgressUpdate) (string, error) {
	return c.postForMessage(ctx, "/reading-progress", update)
}

// BorrowHistory retrieves the reader's borrow records.
func (c *Client) BorrowHistory(ctx context.Context) ([]BorrowRecord, error) {
	var payload []BorrowRecord
	if err := c.get(ctx, "/user-borrow-history", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SubmitReview posts a review for moderation.
func (c *Client) SubmitReview(ctx context.Context, review ReviewSubmission) (string, error) {
	return c.postForMessage(ctx, "/submit-review", review)
}

// AddQuote posts a quote.
func (c *Client) AddQuote(ctx context.Context, quote QuoteSubmission) (string, error) {
	return c.postForMessage(ctx, "/add-quote", quote)
}

// ReviewQuery configures /search-reviews requests. All fields are
// optional.
type ReviewQuery struct {
	Query  string
	ISBN   string
	UserID string
}

// SearchReviews finds published reviews matching the query.
func (c *Client) SearchReviews(ctx context.Context, query ReviewQuery) ([]Review, error) {
	values := url.Values{}
	values.Set("query", strings.TrimSpace(query.Query))
	if isbn := strings.TrimSpace(query.ISBN); isbn != "" {
		values.Set("isbn", isbn)
	}
	if id := strings.TrimSpace(query.UserID); id != "" {
		values.Set("user_id", id)
	}
	var payload struct {
		Count   int      `json:"count"`
		Reviews []Review `json:"reviews"`
	}
	if err := c.get(ctx, "/search-reviews", values, &payload); err != nil {
		return nil, err
	}
	return payload.Reviews, nil
}

// QuoteQuery configures /search-quotes requests. All fields are
// optional.
type QuoteQuery struct {
	Query  string
	UserID string
}

// SearchQuotes finds quotes matching the query.
func (c *Client) SearchQuotes(ctx context.Context, query QuoteQuery) ([]Quote, error) {
	values := url.Values{}
	values.Set("query", strings.TrimSpace(query.Query))
	if id := strings.TrimSpace(query.UserID); id != "" {
		values.Set("user_id", id)
	}
	var payload struct {
		Count  int     `json:"count"`
		Quotes []Quote `json:"quotes"`
	}
	if err := c.get(ctx, "/search-quotes", values, &payload); err != nil {
		return nil, err
	}
	return payload.Quotes, nil
}

// SearchUsers finds readers by name or reader ID.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]UserSummary, error) {
	values := url.Values{}
	values.Set("query", strings.TrimSpace(query))
	var payload struct {
		Count int           `json:"count"`
		Users []UserSummary `json:"users"`
	}
	if err := c.get(ctx, "/search-users", values, &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

// PublicReviews retrieves the public review feed.
func (c *Client) PublicReviews(ctx context.Context) ([]Review, error) {
	var payload struct {
		Reviews []Review `json:"reviews"`
	}
	if err := c.get(ctx, "/public-reviews", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Reviews, nil
}

// ToggleReviewUpvote likes or unlikes a review.
func (c *Client) ToggleReviewUpvote(ctx context.Context, reviewID string) (*UpvoteResult, error) {
	body := struct {
		ReviewID string `json:"review_id"`
	}{reviewID}
	var payload UpvoteResult
	if err := c.post(ctx, "/toggle-upvote", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToggleQuoteUpvote likes or unlikes a quote.
func (c *Client) ToggleQuoteUpvote(ctx context.Context, quoteID string) (*UpvoteResult, error) {
	body := struct {
		QuoteID string `json:"quote_id"`
	}{quoteID}
	var payload UpvoteResult
	if err := c.post(ctx, "/toggle-quote-upvote", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CommentOnReview adds a comment under a review.
func (c *Client) CommentOnReview(ctx context.Context, reviewID, text string) (string, error) {
	body := struct {
		ReviewID string `json:"review_id"`
		Text     string `json:"text"`
	}{reviewID, text}
	return c.postForMessage(ctx, "/post-comment-review", body)
}

// CommentOnQuote adds a comment under a quote.
func (c *Client) CommentOnQuote(ctx context.Context, quoteID, text string) (string, error) {
	body := struct {
		QuoteID string `json:"quote_id"`
		Text    string `json:"text"`
	}{quoteID, text}
	return c.postForMessage(ctx, "/post-comment-quote", body)
}

// Leaderboard retrieves the top readers. A non-positive limit uses the
// server default.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	var payload struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
		Count       int                `json:"count"`
	}
	if err := c.get(ctx, "/leader-board", values, &payload); err != nil {
		return nil, err
	}
	return payload.Leaderboard, nil
}

// FetchProfile retrieves the authenticated user's profile. Expired or
// invalid tokens come back as a 401.
func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	var payload Profile
	if err := c.get(ctx, "/user-profile", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Recommendations retrieves books picked for the reader.
func (c *Client) Recommendations(ctx context.Context) ([]Book, error) {
	var payload struct {
		Recommendations bookList `json:"recommendations"`
	}
	if err := c.get(ctx, "/recommendations", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Recommendations, nil
}

// ListNotifications retrieves the reader's notifications, newest
// first.
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var payload struct {
		Count         int            `json:"count"`
		Notifications []Notification `json:"notifications"`
	}
	if err := c.get(ctx, "/list-notifications", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Notifications, nil
}

// MarkNotificationsSeen marks every unseen notification as seen.
func (c *Client) MarkNotificationsSeen(ctx context.Context) (string, error) {
	return c.postForMessage(ctx, "/mark-notification-seen", nil)
}

// FetchAnalytics retrieves the admin analytics aggregate. Non-admin
// tokens are rejected with a 403.
func (c *Client) FetchAnalytics(ctx context.Context) (*Analytics, error) {
	var payload Analytics
	if err := c.get(ctx, "/analytics", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// IsAdmin probes /analytics to derive the caller's role. A 403 means
// the token belongs to a regular reader and is not an error; anything
// else failing is reported as-is.
func (c *Client) IsAdmin(ctx context.Context) (bool, error) {
	_, err := c.FetchAnalytics(ctx)
	if err == nil {
		return true, nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
		return false, nil
	}
	return false, err
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(values) > 0 {
		rel.RawQuery = values.Encode()
	}
	return c.doURL(ctx, http.MethodGet, rel, nil, dest)
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, http.MethodPost, rel, body, dest)
}

func (c *Client) postForMessage(ctx context.Context, path string, body any) (string, error) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, path, body, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// doURL performs one request and flattens every failure into *Error.
// Three cases: the server rejected the request (status + body kept),
// the request went out but no response arrived, or the request never
// left the client.
func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return c.fail(&Error{msg: err.Error()})
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return c.fail(&Error{msg: err.Error()})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(&Error{msg: NoResponseMessage})
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(&Error{msg: NoResponseMessage})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serialized := strings.TrimSpace(string(data))
		return c.fail(&Error{
			Status: resp.StatusCode,
			Body:   serialized,
			msg:    fmt.Sprintf("Error %d: %s", resp.StatusCode, serialized),
		})
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) fail(e *Error) error {
	log.Printf("api: %s", e.msg)
	return e
}

// bookList accepts both shapes the server uses for book collections: a
// bare array and an object wrapping the array under "books".
type bookList []Book

// UnmarshalJSON implements json.Unmarshaler.
func (b *bookList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Book
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*b = items
		return nil
	}
	var wrapped struct {
		Books []Book `json:"books"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	*b = wrapped.Books
	return nil
}

func parseServerURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
