package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/biblioteka14/stacks/internal/api"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Summary             api.StatsSummary
	HasSummary          bool
	Activity            []api.ActivityPoint
	Loans               []api.Loan
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(summary *api.StatsSummary, activity []api.ActivityPoint, loans []api.Loan, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Activity = cloneActivity(activity)
	s.snapshot.Loans = cloneLoans(loans)
	if summary != nil {
		s.snapshot.Summary = *summary
		s.snapshot.HasSummary = true
	} else {
		s.snapshot.HasSummary = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Activity = cloneActivity(s.snapshot.Activity)
	snap.Loans = cloneLoans(s.snapshot.Loans)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneActivity(points []api.ActivityPoint) []api.ActivityPoint {
	if len(points) == 0 {
		return nil
	}
	dup := make([]api.ActivityPoint, len(points))
	copy(dup, points)
	return dup
}

func cloneLoans(loans []api.Loan) []api.Loan {
	if len(loans) == 0 {
		return nil
	}
	dup := make([]api.Loan, len(loans))
	copy(dup, loans)
	return dup
}
