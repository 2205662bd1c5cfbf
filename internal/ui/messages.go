package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/biblioteka14/stacks/internal/api"
	"github.com/biblioteka14/stacks/internal/history"
	"github.com/biblioteka14/stacks/internal/scan"
	"github.com/biblioteka14/stacks/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type scanMsg scan.Snapshot

type booksMsg []api.Book

type eventsMsg []api.Event

type eventDetailMsg struct{ event *api.Event }

type loansMsg []api.Loan

type patronsMsg []api.Patron

type historyMsg []history.Entry

// actionDoneMsg reports the outcome of a mutating request (issue, return,
// cancel).
type actionDoneMsg struct{ err error }

type fetchErrMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchBooksCmd(ctx context.Context, client *api.Client, query string) tea.Cmd {
	return func() tea.Msg {
		var (
			books []api.Book
			err   error
		)
		switch {
		case isISBN(query):
			var book *api.Book
			book, err = client.BookByISBN(ctx, query)
			if book != nil {
				books = []api.Book{*book}
			}
			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.NotFound() {
				err = nil
			}
		case query != "":
			books, err = client.SearchBooks(ctx, query, 0, listPageSize)
		default:
			books, err = client.ListBooks(ctx, 0, listPageSize)
		}
		if err != nil {
			return fetchErrMsg{err}
		}
		return booksMsg(books)
	}
}

func fetchEventsCmd(ctx context.Context, client *api.Client, upcoming bool) tea.Cmd {
	return func() tea.Msg {
		var (
			events []api.Event
			err    error
		)
		if upcoming {
			events, err = client.UpcomingEvents(ctx, 0, listPageSize)
		} else {
			events, err = client.ListEvents(ctx, 0, listPageSize)
		}
		if err != nil {
			return fetchErrMsg{err}
		}
		return eventsMsg(events)
	}
}

// fetchEventDetailCmd pulls the full record for one event, including the
// description the list payload omits.
func fetchEventDetailCmd(ctx context.Context, client *api.Client, eventID string) tea.Cmd {
	return func() tea.Msg {
		event, err := client.EventByID(ctx, eventID)
		if err != nil {
			return fetchErrMsg{err}
		}
		return eventDetailMsg{event}
	}
}

func fetchLoansCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		loans, err := client.ListLoans(ctx)
		if err != nil {
			return fetchErrMsg{err}
		}
		return loansMsg(loans)
	}
}

func fetchPatronsCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		patrons, err := client.ListPatrons(ctx)
		if err != nil {
			return fetchErrMsg{err}
		}
		return patronsMsg(patrons)
	}
}

func fetchHistoryCmd(trail *history.Log) tea.Cmd {
	return func() tea.Msg {
		entries, err := trail.Recent(recentScanCount)
		if err != nil {
			return fetchErrMsg{err}
		}
		return historyMsg(entries)
	}
}

func issueLoanCmd(ctx context.Context, client *api.Client, loanID string) tea.Cmd {
	return func() tea.Msg {
		_, err := client.IssueLoan(ctx, loanID)
		return actionDoneMsg{err}
	}
}

func returnLoanCmd(ctx context.Context, client *api.Client, loanID string) tea.Cmd {
	return func() tea.Msg {
		_, err := client.ReturnLoan(ctx, loanID)
		return actionDoneMsg{err}
	}
}

func cancelEventCmd(ctx context.Context, client *api.Client, eventID string) tea.Cmd {
	return func() tea.Msg {
		_, err := client.CancelEvent(ctx, eventID)
		return actionDoneMsg{err}
	}
}

func startCameraCmd(ctx context.Context, controller *scan.Controller) tea.Cmd {
	return func() tea.Msg {
		// Outcomes arrive through the scan feed; the error return only
		// duplicates what the snapshot already carries.
		_ = controller.StartCamera(ctx)
		return nil
	}
}

func appendHistoryCmd(trail *history.Log, entry history.Entry) tea.Cmd {
	return func() tea.Msg {
		if err := trail.Append(entry); err != nil {
			return fetchErrMsg{err}
		}
		entries, err := trail.Recent(recentScanCount)
		if err != nil {
			return fetchErrMsg{err}
		}
		return historyMsg(entries)
	}
}
