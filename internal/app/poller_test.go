package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/biblioteka14/stacks/internal/api"
	"github.com/biblioteka14/stacks/internal/state"
)

func TestCalculateBackoff_DoublesPerFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"healthy", 0, defaultPollInterval},
		{"negative treated as healthy", -3, defaultPollInterval},
		{"first failure", 1, 10 * time.Second},
		{"second failure", 2, 20 * time.Second},
		{"third failure hits cap", 3, maxBackoff},
		{"long outage stays at cap", 8, maxBackoff},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateBackoff(tc.failures, defaultPollInterval)
			if got != tc.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tc.failures, defaultPollInterval, got, tc.want)
			}
		})
	}
}

func TestCalculateBackoff_NeverExceedsCap(t *testing.T) {
	t.Parallel()

	for failures := 0; failures <= 24; failures++ {
		if got := calculateBackoff(failures, defaultPollInterval); got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds %v", failures, defaultPollInterval, got, maxBackoff)
		}
	}
}

// pollServer serves the three endpoints refresh hits; failing flips every
// response to a 500.
func pollServer(t *testing.T, failing *atomic.Bool) *api.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, `{"detail":"database unavailable"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/stats/summary":
			_ = json.NewEncoder(w).Encode(api.StatsSummary{TotalBooks: 120, ActiveLoans: 7})
		case "/api/stats/activity":
			_ = json.NewEncoder(w).Encode([]api.ActivityPoint{
				{Date: "2026-08-28", Issued: 3, Returned: 1},
				{Date: "2026-08-29", Issued: 2, Returned: 4},
			})
		case "/api/loans/all":
			_ = json.NewEncoder(w).Encode([]api.Loan{
				{ID: "l1", Status: "active", BookTitle: "Мастер и Маргарита"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestRefresh_PopulatesStore(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	client := pollServer(t, &failing)
	store := &state.Store{}

	refresh(context.Background(), store, client)

	snap := store.Snapshot()
	if !snap.HasSummary || snap.Summary.TotalBooks != 120 {
		t.Fatalf("summary not stored: %+v", snap.Summary)
	}
	if len(snap.Activity) != 2 {
		t.Fatalf("activity len = %d, want 2", len(snap.Activity))
	}
	if len(snap.Loans) != 1 || snap.Loans[0].ID != "l1" {
		t.Fatalf("loans = %+v", snap.Loans)
	}
	if snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("unexpected error state: %v (%d failures)", snap.LastError, snap.ConsecutiveFailures)
	}
}

func TestRefresh_FailureKeepsPreviousData(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	client := pollServer(t, &failing)
	store := &state.Store{}

	refresh(context.Background(), store, client)
	failing.Store(true)
	refresh(context.Background(), store, client)
	refresh(context.Background(), store, client)

	snap := store.Snapshot()
	if snap.LastError == nil {
		t.Fatal("LastError not recorded after failed poll")
	}
	if snap.ConsecutiveFailures != 2 {
		t.Fatalf("ConsecutiveFailures = %d, want 2", snap.ConsecutiveFailures)
	}
	if len(snap.Loans) != 1 {
		t.Fatalf("previous loans discarded: %+v", snap.Loans)
	}
	if !snap.IsOffline() {
		t.Fatal("store not offline after two straight failures")
	}

	failing.Store(false)
	refresh(context.Background(), store, client)
	snap = store.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("recovery not recorded: %v (%d failures)", snap.LastError, snap.ConsecutiveFailures)
	}
}
