package api

import "time"

// Book describes a single catalog entry. The server encodes books with
// Go-default field names, so the tags here are capitalized.
type Book struct {
	ID               string `json:"ID"`
	Title            string `json:"Title"`
	Author           string `json:"Author"`
	ISBN             string `json:"ISBN"`
	Genre            string `json:"Genre"`
	Type             string `json:"Type"` // "hardcopy" or "softcopy"
	Available        bool   `json:"Available"`
	TotalPages       int    `json:"TotalPages"`
	PhysicalLocation string `json:"PhysicalLocation"`
}

// Profile mirrors the /user-profile payload. Email and the dorm/batch
// fields are only present when fetching your own profile (or as admin).
type Profile struct {
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	ReaderID          string         `json:"reader_id"`
	Role              string         `json:"role"`
	ClassTag          string         `json:"class_tag"`
	RankScore         int            `json:"rank_score"`
	BooksRead         int            `json:"books_read"`
	InsaBatch         string         `json:"insa_batch"`
	DormNumber        string         `json:"dorm_number"`
	EducationalStatus string         `json:"educational_status"`
	Badges            []string       `json:"badges"`
	BorrowHistory     []BorrowRecord `json:"borrow_history"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool {
	return p.Role == "admin"
}

// BorrowRecord is one entry of a user's borrow history.
type BorrowRecord struct {
	BookTitle  string `json:"book_title"`
	BorrowDate string `json:"borrow_date"`
	ReturnDate string `json:"return_date"`
	Returned   bool   `json:"returned"`
}

// LeaderboardEntry mirrors one row of /leader-board.
type LeaderboardEntry struct {
	Name      string   `json:"name"`
	ReaderID  string   `json:"reader_id"`
	RankScore int      `json:"rank_score"`
	BooksRead int      `json:"books_read"`
	ClassTag  string   `json:"class_tag"`
	Badges    []string `json:"badges,omitempty"`
}

// Review is a review search result with its author attached.
type Review struct {
	ID         string    `json:"id"`
	ReviewText string    `json:"review_text"`
	UserName   string    `json:"user_name"`
	ReaderID   string    `json:"reader_id"`
	BookID     string    `json:"book_id"`
	Upvotes    int       `json:"upvotes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Quote is a quote search result with its author attached.
type Quote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UserName  string    `json:"user_name"`
	ReaderID  string    `json:"reader_id"`
	Upvotes   int       `json:"upvotes"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary mirrors one row of /search-users.
type UserSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ReaderID  string `json:"reader_id"`
	ClassTag  string `json:"class_tag"`
	RankScore int    `json:"rank_score"`
	BooksRead int    `json:"books_read"`
}

// Notification mirrors one entry of /list-notifications. The server
// encodes notifications with Go-default field names.
type Notification struct {
	ID        string    `json:"ID"`
	ActorID   string    `json:"ActorID"`
	TargetID  string    `json:"TargetID"`
	Type      string    `json:"Type"`
	Seen      bool      `json:"Seen"`
	CreatedAt time.Time `json:"CreatedAt"`
}

// ReadingProgress is one book currently on a reader's progress list.
type ReadingProgress struct {
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	TotalPages      int       `json:"total_page"`
	PagesRead       int       `json:"pages_read"`
	StartDate       time.Time `json:"start_date"`
	CompletedStatus bool      `json:"competed_status"`
	Reflection      string    `json:"reflection"`
	CompletedDate   time.Time `json:"completed_date"`
	StreakDays      int       `json:"streak_days"`
	LastUpdated     time.Time `json:"last_updated"`
}

// PercentDone returns reading completion as a 0-100 percentage.
func (r ReadingProgress) PercentDone() float64 {
	if r.TotalPages <= 0 {
		return 0
	}
	pct := float64(r.PagesRead) / float64(r.TotalPages) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// BorrowReceipt is the pickup information returned by /borrow-book.
type BorrowReceipt struct {
	Location    string `json:"location"`
	PhoneNumber string `json:"phone_number"`
}

// UpvoteResult carries the server's post-toggle state.
type UpvoteResult struct {
	Message string `json:"message"`
	Upvotes int    `json:"upvotes"`
}

// Analytics mirrors the /analytics aggregate available to admins.
type Analytics struct {
	Users       UsersAnalytics   `json:"users"`
	Books       BooksAnalytics   `json:"books"`
	Reading     ReadingAnalytics `json:"reading"`
	Social      SocialAnalytics  `json:"social"`
	Badges      BadgesAnalytics  `json:"badges"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// UsersAnalytics aggregates reader statistics.
type UsersAnalytics struct {
	TotalUsers           int64            `json:"total_users"`
	PendingRegistrations int64            `json:"pending_registrations"`
	TopReadersByBooks    []ReaderStanding `json:"top_readers_by_books"`
	TopReadersByRank     []ReaderStanding `json:"top_readers_by_rank"`
}

// ReaderStanding is one reader row inside the analytics aggregate.
type ReaderStanding struct {
	Name      string `json:"name"`
	BooksRead int    `json:"books_read"`
	RankScore int    `json:"rank_score"`
	InsaBatch string `json:"insa_batch"`
}

// BooksAnalytics aggregates catalog statistics.
type BooksAnalytics struct {
	TotalBooks                int64          `json:"total_books"`
	PopularBooksByBorrows     []BookStanding `json:"popular_books_by_borrows"`
	PopularBooksByCompletions []BookStanding `json:"popular_books_by_completions"`
}

// BookStanding is one book row inside the analytics aggregate.
type BookStanding struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Count  int64  `json:"count"`
}

// ReadingAnalytics aggregates reading-time statistics.
type ReadingAnalytics struct {
	AvgReadingTimeHours float64 `json:"avg_reading_time_hours"`
}

// SocialAnalytics aggregates review and quote statistics.
type SocialAnalytics struct {
	TotalReviews        int64            `json:"total_reviews"`
	TotalQuotes         int64            `json:"total_quotes"`
	TotalReviewComments int64            `json:"total_review_comments"`
	TotalQuoteComments  int64            `json:"total_quote_comments"`
	TopReviews          []ReviewStanding `json:"top_reviews"`
	TopQuotes           []QuoteStanding  `json:"top_quotes"`
}

// ReviewStanding is one review row inside the analytics aggregate.
type ReviewStanding struct {
	BookTitle  string  `json:"book_title"`
	ReviewText string  `json:"review_text"`
	Upvotes    int     `json:"upvotes"`
	AIScore    float64 `json:"ai_score"`
}

// QuoteStanding is one quote row inside the analytics aggregate.
type QuoteStanding struct {
	Text    string `json:"text"`
	Upvotes int    `json:"upvotes"`
}

// BadgesAnalytics aggregates badge statistics.
type BadgesAnalytics struct {
	TotalBadges       int64         `json:"total_badges"`
	BadgeDistribution []BadgeBucket `json:"badge_distribution"`
}

// BadgeBucket is one badge-type count inside the analytics aggregate.
type BadgeBucket struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// Credentials is the /login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the /register request body.
type Registration struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	InsaBatch         string `json:"insa_batch"`
	DormNumber        string `json:"dorm_number"`
	EducationalStatus string `json:"educational_status"`
}

// ProgressUpdate is the /reading-progress request body.
type ProgressUpdate struct {
	ISBN       string `json:"isbn"`
	PagesRead  int    `json:"pages_read"`
	Reflection string `json:"reflection,omitempty"`
	Completed  bool   `json:"completed"`
}

// ReviewSubmission is the /submit-review request body.
type ReviewSubmission struct {
	ISBN       string `json:"isbn"`
	ReviewText string `json:"review_text"`
}

// QuoteSubmission is the /add-quote request body.
type QuoteSubmission struct {
	ISBN string `json:"isbn"`
	Text string `json:"text"`
}
