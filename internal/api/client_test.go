package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIAddr {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIAddr)
	}

	u, err = parseBaseURL("https://lib.example.org:8443/ignored?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
}

func TestClient_LoginInstallsToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/admin/login":
			var creds map[string]string
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds["email"] != "staff@lib.test" || creds["password"] != "hunter2" {
				http.Error(w, `{"detail":"invalid credentials"}`, http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok-123", AdminID: "a1", Role: "admin"})
		case "/api/admin/me":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(AdminProfile{ID: "a1", Email: "staff@lib.test", Role: "admin"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	resp, err := c.Login(ctx, "staff@lib.test", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.AccessToken != "tok-123" {
		t.Fatalf("token = %q, want tok-123", resp.AccessToken)
	}

	if _, err := c.Me(ctx); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestClient_ErrorCarriesServerDetail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Пользователь не найден"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.CheckBarcode(context.Background(), "000000")
	if err == nil {
		t.Fatal("CheckBarcode succeeded, want error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if !apiErr.NotFound() {
		t.Fatalf("NotFound() = false for status %d", apiErr.Status)
	}
	if apiErr.Detail != "Пользователь не найден" {
		t.Fatalf("detail = %q, want server message", apiErr.Detail)
	}
}

func TestClient_CheckBarcodeEmptyArrayIsNotFound(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.CheckBarcode(context.Background(), "9780131103627")
	var apiErr *Error
	if !errors.As(err, &apiErr) || !apiErr.NotFound() {
		t.Fatalf("error = %v, want not-found *Error", err)
	}
	if gotBody["barcode"] != "9780131103627" {
		t.Fatalf("request body barcode = %q", gotBody["barcode"])
	}
}

func TestClient_CheckBarcodeReturnsFirstReport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]PatronReport{{
			FullName:    "Anna Petrova",
			Email:       "anna@lib.test",
			Barcode:     "9780131103627",
			TotalLoans:  12,
			ActiveLoans: 2,
		}})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	report, err := c.CheckBarcode(context.Background(), "9780131103627")
	if err != nil {
		t.Fatalf("CheckBarcode returned error: %v", err)
	}
	if report.FullName != "Anna Petrova" || report.TotalLoans != 12 {
		t.Fatalf("report = %#v", report)
	}
}

func TestClient_ListBooksEncodesPagingAndCaches(t *testing.T) {
	t.Parallel()

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if got := r.URL.Query().Get("skip"); got != "100" {
			t.Errorf("skip = %q, want 100", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Book{{ID: "b1", Title: "Мастер и Маргарита"}})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		books, err := c.ListBooks(ctx, 100, 50)
		if err != nil {
			t.Fatalf("ListBooks returned error: %v", err)
		}
		if len(books) != 1 || books[0].ID != "b1" {
			t.Fatalf("books = %#v", books)
		}
	}
	if hits != 1 {
		t.Fatalf("server hits = %d, want 1 (cached)", hits)
	}
}

func TestClient_MutationFlushesListCache(t *testing.T) {
	t.Parallel()

	listHits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/books":
			listHits++
			_ = json.NewEncoder(w).Encode([]Book{})
		case r.Method == http.MethodPost && r.URL.Path == "/api/books/b1/instances":
			_ = json.NewEncoder(w).Encode(Instance{ID: "i1", BookID: "b1", Barcode: "INST-1"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()
	if _, err := c.ListBooks(ctx, 0, 100); err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if _, err := c.ListBooks(ctx, 0, 100); err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if listHits != 1 {
		t.Fatalf("list hits before mutation = %d, want 1", listHits)
	}

	if _, err := c.AddInstance(ctx, "b1", NewInstance{Barcode: "INST-1"}); err != nil {
		t.Fatalf("AddInstance returned error: %v", err)
	}
	if _, err := c.ListBooks(ctx, 0, 100); err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if listHits != 2 {
		t.Fatalf("list hits after mutation = %d, want 2", listHits)
	}
}

func TestClient_CreateBookSendsMultipartForm(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
		}
		if got := r.FormValue("title"); got != "Собачье сердце" {
			t.Errorf("title = %q", got)
		}
		if got := r.FormValue("isbn"); got != "9785170878895" {
			t.Errorf("isbn = %q", got)
		}
		if _, _, err := r.FormFile("image"); err != nil {
			t.Errorf("image part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Book{ID: "b9", Title: "Собачье сердце"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	created, err := c.CreateBook(context.Background(), NewBook{
		Title:     "Собачье сердце",
		Author:    "Михаил Булгаков",
		ISBN:      "9785170878895",
		ImageName: "cover.jpg",
		Image:     []byte{0xff, 0xd8, 0xff},
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if created.ID != "b9" {
		t.Fatalf("created = %#v", created)
	}
}

func TestClient_CancelEventSendsStatusUpdate(t *testing.T) {
	t.Parallel()

	var gotUpdate EventUpdate
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/events/e7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotUpdate)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Event{ID: "e7", Status: "cancelled"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	event, err := c.CancelEvent(context.Background(), "e7")
	if err != nil {
		t.Fatalf("CancelEvent returned error: %v", err)
	}
	if event.Status != "cancelled" {
		t.Fatalf("status = %q, want cancelled", event.Status)
	}
	if gotUpdate.Status == nil || *gotUpdate.Status != "cancelled" {
		t.Fatalf("update payload = %#v, want status=cancelled", gotUpdate)
	}
}

func TestClient_EventByIDFetchesFullRecord(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/events/e3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Event{
			ID:          "e3",
			Title:       "Вечер поэзии",
			Description: "Читаем Ахматову вслух.",
			Date:        "2026-09-12T18:00:00Z",
			Location:    "Зал 2",
			Capacity:    40,
			Registered:  12,
			Status:      "upcoming",
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	event, err := c.EventByID(context.Background(), "e3")
	if err != nil {
		t.Fatalf("EventByID returned error: %v", err)
	}
	if event.Description != "Читаем Ахматову вслух." {
		t.Fatalf("description = %q", event.Description)
	}
	if event.Capacity != 40 || event.Registered != 12 {
		t.Fatalf("seats = %d/%d", event.Registered, event.Capacity)
	}
}

func TestClient_FetchActivityEncodesWindow(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from"); got != "2026-08-01" {
			t.Errorf("from = %q", got)
		}
		if got := r.URL.Query().Get("to"); got != "2026-08-29" {
			t.Errorf("to = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]ActivityPoint{{Date: "2026-08-28", Issued: 14, Returned: 9}})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	points, err := c.FetchActivity(context.Background(), from, to)
	if err != nil {
		t.Fatalf("FetchActivity returned error: %v", err)
	}
	if len(points) != 1 || points[0].Issued != 14 {
		t.Fatalf("points = %#v", points)
	}
}
