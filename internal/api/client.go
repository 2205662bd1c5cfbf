package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Verifier resolves a barcode to a patron report. Implemented by *Client and
// by test doubles.
type Verifier interface {
	CheckBarcode(ctx context.Context, barcode string) (*PatronReport, error)
}

// Ensure Client implements Verifier at compile time.
var _ Verifier = (*Client)(nil)

// Client talks to the library management HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string

	mu    sync.RWMutex
	token string

	// lists caches idempotent GET collections so view switches and filter
	// toggles do not refetch. Mutations flush it.
	lists *gocache.Cache
}

const (
	defaultAPIAddr   = "127.0.0.1:8000"
	defaultUserAgent = "stacks/0.1"
	requestTimeout   = 10 * time.Second
	listCacheTTL     = 30 * time.Second
)

// NewClient builds a Client for the provided api_url value. A bare host:port
// is normalized to an http:// base URL.
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		lists:     gocache.New(listCacheTTL, time.Minute),
	}, nil
}

// SetTimeout overrides the per-request timeout. Zero or negative values are
// ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if c == nil || d <= 0 {
		return
	}
	c.http.Timeout = d
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates a staff member and installs the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	payload := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.postJSON(ctx, "/api/admin/login", payload, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.AccessToken)
	return &resp, nil
}

// Me retrieves the profile behind the installed token.
func (c *Client) Me(ctx context.Context) (*AdminProfile, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var profile AdminProfile
	if err := c.get(ctx, &url.URL{Path: "/api/admin/me"}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListPatrons retrieves all registered users.
func (c *Client) ListPatrons(ctx context.Context) ([]Patron, error) {
	rel := &url.URL{Path: "/api/admin/users"}
	if cached, ok := c.lists.Get(rel.String()); ok {
		if patrons, ok := cached.([]Patron); ok {
			return patrons, nil
		}
	}
	var patrons []Patron
	if err := c.get(ctx, rel, &patrons); err != nil {
		return nil, err
	}
	c.lists.SetDefault(rel.String(), patrons)
	return patrons, nil
}

// RegisterStaff creates a staff account.
func (c *Client) RegisterStaff(ctx context.Context, reg StaffRegistration) (*AdminProfile, error) {
	var profile AdminProfile
	if err := c.postJSON(ctx, "/api/admin/register", reg, &profile); err != nil {
		return nil, err
	}
	c.lists.Flush()
	return &profile, nil
}

// CheckBarcode resolves a user or instance barcode to a patron report. The
// endpoint answers with an array; an empty array means no match and is
// reported as a 404-shaped *Error so callers treat both forms alike.
func (c *Client) CheckBarcode(ctx context.Context, barcode string) (*PatronReport, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	payload := map[string]string{"barcode": barcode}
	var reports []PatronReport
	if err := c.postJSON(ctx, "/api/admin/check", payload, &reports); err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, &Error{Status: http.StatusNotFound, Path: "/api/admin/check"}
	}
	return &reports[0], nil
}

// ListBooks retrieves a page of the catalog.
func (c *Client) ListBooks(ctx context.Context, skip, limit int) ([]Book, error) {
	rel := &url.URL{Path: "/api/books", RawQuery: pageQuery(skip, limit).Encode()}
	if cached, ok := c.lists.Get(rel.String()); ok {
		if books, ok := cached.([]Book); ok {
			return books, nil
		}
	}
	var books []Book
	if err := c.get(ctx, rel, &books); err != nil {
		return nil, err
	}
	c.lists.SetDefault(rel.String(), books)
	return books, nil
}

// BookByISBN retrieves one catalog entry by ISBN.
func (c *Client) BookByISBN(ctx context.Context, isbn string) (*Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("isbn required")
	}
	var book Book
	if err := c.get(ctx, &url.URL{Path: "/api/books/isbn/" + url.PathEscape(isbn)}, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// SearchBooks runs a full-text catalog search.
func (c *Client) SearchBooks(ctx context.Context, query string, skip, limit int) ([]Book, error) {
	rel := &url.URL{Path: "/api/books/search", RawQuery: pageQuery(skip, limit).Encode()}
	payload := map[string]string{"query": query}
	var books []Book
	if err := c.doJSON(ctx, http.MethodPost, rel, payload, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook adds a catalog entry. The endpoint takes a multipart form so an
// optional cover image can ride along.
func (c *Client) CreateBook(ctx context.Context, book NewBook) (*Book, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":  book.Title,
		"author": book.Author,
		"isbn":   book.ISBN,
	}
	if book.Description != "" {
		fields["description"] = book.Description
	}
	if book.Genre != "" {
		fields["genre"] = book.Genre
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	if len(book.Image) > 0 {
		name := book.ImageName
		if name == "" {
			name = "cover"
		}
		part, err := form.CreateFormFile("image", name)
		if err != nil {
			return nil, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(book.Image); err != nil {
			return nil, fmt.Errorf("write image part: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	var created Book
	rel := &url.URL{Path: "/api/books"}
	if err := c.do(ctx, http.MethodPost, rel, &buf, form.FormDataContentType(), &created); err != nil {
		return nil, err
	}
	c.lists.Flush()
	return &created, nil
}

// UpdateBook applies a partial update to a catalog entry.
func (c *Client) UpdateBook(ctx context.Context, bookID string, update BookUpdate) (*Book, error) {
	var updated Book
	rel := &url.URL{Path: "/api/books/" + url.PathEscape(bookID)}
	if err := c.doJSON(ctx, http.MethodPut, rel, update, &updated); err != nil {
		return nil, err
	}
	c.lists.Flush()
	return &updated, nil
}

// AddInstance registers a physical copy under a catalog entry.
func (c *Client) AddInstance(ctx context.Context, bookID string, inst NewInstance) (*Instance, error) {
	var created Instance
	rel := &url.URL{Path: "/api/books/" + url.PathEscape(bookID) + "/instances"}
	if err := c.doJSON(ctx, http.MethodPost, rel, inst, &created); err != nil {
		return nil, err
	}
	c.lists.Flush()
	return &created, nil
}

// ListEvents retrieves a page of all events, cancelled included.
func (c *Client) ListEvents(ctx context.Context, skip, limit int) ([]Event, error) {
	return c.eventPage(ctx, "/api/events/admin/all", skip, limit)
}

// UpcomingEvents retrieves a page of upcoming events only.
func (c *Client) UpcomingEvents(ctx context.Context, skip, limit int) ([]Event, error) {
	return c.eventPage(ctx, "/api/events", skip, limit)
}

func (c *Client) eventPage(ctx context.Context, path string, skip, limit int) ([]Event, error) {
	rel := &url.URL{Path: path, RawQuery: pageQuery(skip, limit).Encode()}
	if cached, ok := c.lists.Get(rel.String()); ok {
		if events, ok := cached.([]Event); ok {
			return events, nil
		}
	}
	var events []Event
	if err := c.get(ctx, rel, &events); err != nil {
		return nil, err
	}
	c.lists.SetDefault(rel.String(), events)
	return events, nil
}

// EventByID retrieves one event.
func (c *Client) EventByID(ctx context.Context, eventID string) (*Event, error) {
	var event Event
	if err := c.get(ctx, &url.URL{Path: "/api/events/" + url.PathEscape(eventID)}, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent schedules a new event.
func (c *Client) CreateEvent(ctx context.Context, event Event) (*Event, error) {
	var created Event
	if err := c.postJSON(ctx, "/api/events", event, &created); err != nil {
		return nil, err
	}
	c.lists.Flush()
	return &created, nil
}

// UpdateEvent applies a partial update to an event.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, update EventUpdate) (*Event, error) {
	var updated Event
	rel := &url.URL{Path: "/api/events/" + url.PathEscape(eventID)}
	if err := c.doJSON(ctx, http.MethodPut, rel, update, &updated); err != nil {
		return nil, err
	}
	c.lists.Flush()
	return &updated, nil
}

// CancelEvent marks an event cancelled. The API models cancellation as a
// status update rather than a delete.
func (c *Client) CancelEvent(ctx context.Context, eventID string) (*Event, error) {
	status := "cancelled"
	return c.UpdateEvent(ctx, eventID, EventUpdate{Status: &status})
}

// ListLoans retrieves every circulation record.
func (c *Client) ListLoans(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	if err := c.get(ctx, &url.URL{Path: "/api/loans/all"}, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ReserveLoan places a reservation for a patron.
func (c *Client) ReserveLoan(ctx context.Context, req ReserveRequest) (*Loan, error) {
	var loan Loan
	if err := c.postJSON(ctx, "/api/loans/reserve", req, &loan); err != nil {
		return nil, err
	}
	c.lists.Flush()
	return &loan, nil
}

// IssueLoan hands a reserved loan to the patron.
func (c *Client) IssueLoan(ctx context.Context, loanID string) (*Loan, error) {
	return c.loanAction(ctx, loanID, "issue")
}

// ReturnLoan closes an active loan.
func (c *Client) ReturnLoan(ctx context.Context, loanID string) (*Loan, error) {
	return c.loanAction(ctx, loanID, "return")
}

func (c *Client) loanAction(ctx context.Context, loanID, action string) (*Loan, error) {
	if strings.TrimSpace(loanID) == "" {
		return nil, fmt.Errorf("loan id required")
	}
	var loan Loan
	rel := &url.URL{Path: "/api/loans/" + url.PathEscape(loanID) + "/" + action}
	if err := c.doJSON(ctx, http.MethodPost, rel, nil, &loan); err != nil {
		return nil, err
	}
	c.lists.Flush()
	return &loan, nil
}

// FetchSummary retrieves dashboard counters.
func (c *Client) FetchSummary(ctx context.Context) (*StatsSummary, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var summary StatsSummary
	if err := c.get(ctx, &url.URL{Path: "/api/stats/summary"}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FetchActivity retrieves per-day issue/return counts for the window.
func (c *Client) FetchActivity(ctx context.Context, from, to time.Time) ([]ActivityPoint, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if !from.IsZero() {
		values.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		values.Set("to", to.Format("2006-01-02"))
	}
	rel := &url.URL{Path: "/api/stats/activity", RawQuery: values.Encode()}
	var points []ActivityPoint
	if err := c.get(ctx, rel, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) get(ctx context.Context, rel *url.URL, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, rel, nil, "", dest)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, dest any) error {
	return c.doJSON(ctx, http.MethodPost, &url.URL{Path: path}, payload, dest)
}

func (c *Client) doJSON(ctx context.Context, method string, rel *url.URL, payload, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, method, rel, body, contentType, dest)
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return newStatusError(rel.Path, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func pageQuery(skip, limit int) url.Values {
	values := url.Values{}
	if skip > 0 {
		values.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	return values
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIAddr
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
