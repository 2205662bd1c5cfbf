package api

import "time"

const serverTimestampLayout = "2006-01-02 15:04:05"

// LoginResponse mirrors POST /api/admin/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AdminID     string `json:"admin_id"`
	Role        string `json:"role"`
}

// AdminProfile mirrors GET /api/admin/me.
type AdminProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// StaffRegistration is the payload for POST /api/admin/register.
type StaffRegistration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Patron describes a registered library user.
type Patron struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Barcode    string `json:"barcode"`
	Birthday   string `json:"birthday,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// ParsedCreatedAt returns the registration timestamp when parseable.
func (p Patron) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// PatronReport is the payload returned by POST /api/admin/check for a
// barcode that matches a registered user. Loan counters are lifetime totals.
type PatronReport struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Barcode        string `json:"barcode"`
	Birthday       string `json:"birthday,omitempty"`
	DeviceType     string `json:"device_type,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at,omitempty"`
	TotalLoans     int    `json:"total_loans"`
	ActiveLoans    int    `json:"active_loans"`
	OverdueLoans   int    `json:"overdue_loans"`
	ReturnedLoans  int    `json:"returned_loans"`
	LastBookTitle  string `json:"last_book_title,omitempty"`
	LastBookAuthor string `json:"last_book_author,omitempty"`
	LastLoanDate   string `json:"last_loan_date,omitempty"`
}

// ParsedCreatedAt returns the registration timestamp when parseable.
func (r PatronReport) ParsedCreatedAt() time.Time {
	return parseTime(r.CreatedAt)
}

// ParsedLastLoanDate returns the last loan timestamp when parseable.
func (r PatronReport) ParsedLastLoanDate() time.Time {
	return parseTime(r.LastLoanDate)
}

// Book describes a catalog entry.
type Book struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	ISBN           string `json:"isbn"`
	Description    string `json:"description,omitempty"`
	Genre          string `json:"genre,omitempty"`
	CoverURL       string `json:"cover_url,omitempty"`
	TotalCopies    int    `json:"total_copies"`
	AvailableCount int    `json:"available_copies"`
	CreatedAt      string `json:"created_at"`
}

// NewBook carries the fields for POST /api/books. The endpoint accepts a
// multipart form so a cover image can ride along.
type NewBook struct {
	Title       string
	Author      string
	ISBN        string
	Description string
	Genre       string
	ImageName   string
	Image       []byte
}

// BookUpdate is the payload for PUT /api/books/{id}. Pointer fields are
// omitted when nil so partial updates stay partial.
type BookUpdate struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
}

// NewInstance is the payload for POST /api/books/{id}/instances.
type NewInstance struct {
	Barcode  string `json:"barcode"`
	Location string `json:"location,omitempty"`
}

// Instance describes one physical copy of a book.
type Instance struct {
	ID       string `json:"id"`
	BookID   string `json:"book_id"`
	Barcode  string `json:"barcode"`
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
}

// Event describes a library event.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Location    string `json:"location,omitempty"`
	Capacity    int    `json:"capacity"`
	Registered  int    `json:"registered"`
	Status      string `json:"status"`
}

// ParsedDate returns the event timestamp when parseable.
func (e Event) ParsedDate() time.Time {
	return parseTime(e.Date)
}

// EventUpdate is the payload for PUT /api/events/{id}.
type EventUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Location    *string `json:"location,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Loan describes one circulation record.
type Loan struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name,omitempty"`
	BookTitle       string `json:"book_title,omitempty"`
	BookAuthor      string `json:"book_author,omitempty"`
	InstanceBarcode string `json:"instance_barcode,omitempty"`
	Status          string `json:"status"`
	ReservedAt      string `json:"reserved_at,omitempty"`
	IssuedAt        string `json:"issued_at,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
	ReturnedAt      string `json:"returned_at,omitempty"`
}

// ParsedDueDate returns the due timestamp when parseable.
func (l Loan) ParsedDueDate() time.Time {
	return parseTime(l.DueDate)
}

// ReserveRequest is the payload for POST /api/loans/reserve.
type ReserveRequest struct {
	UserBarcode string `json:"user_barcode"`
	ISBN        string `json:"isbn"`
}

// StatsSummary mirrors GET /api/stats/summary.
type StatsSummary struct {
	TotalBooks        int `json:"total_books"`
	ActiveLoans       int `json:"active_loans"`
	TotalUsers        int `json:"total_users"`
	OverdueLoans      int `json:"overdue_loans"`
	BooksAvailable    int `json:"books_available"`
	NewBooksThisMonth int `json:"new_books_this_month"`
}

// ActivityPoint is one day of GET /api/stats/activity.
type ActivityPoint struct {
	Date     string `json:"date"`
	Issued   int    `json:"issued"`
	Returned int    `json:"returned"`
}

// parseTime accepts the handful of timestamp layouts the API emits. Invalid
// or empty values return the zero time.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	if ts, err := time.ParseInLocation(serverTimestampLayout, value, time.Local); err == nil {
		return ts
	}
	return time.Time{}
}
