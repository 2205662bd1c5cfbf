package app

import (
	"context"
	"log"
	"time"

	"github.com/biblioteka14/stacks/internal/api"
	"github.com/biblioteka14/stacks/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	activityWindow      = 14 * 24 * time.Hour
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off while the server is unreachable. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, client *api.Client, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, client)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func refresh(ctx context.Context, store *state.Store, client *api.Client) {
	summary, err := client.FetchSummary(ctx)
	if err != nil {
		store.Update(nil, nil, nil, err)
		log.Printf("summary poll failed: %v", err)
		return
	}
	now := time.Now()
	activity, err := client.FetchActivity(ctx, now.Add(-activityWindow), now)
	if err != nil {
		store.Update(nil, nil, nil, err)
		log.Printf("activity poll failed: %v", err)
		return
	}
	loans, err := client.ListLoans(ctx)
	if err != nil {
		store.Update(nil, nil, nil, err)
		log.Printf("loan poll failed: %v", err)
		return
	}
	store.Update(summary, activity, loans, nil)
}
