package ui

import (
	"testing"
	"time"

	"github.com/biblioteka14/stacks/internal/api"
)

func TestLoanDisplayStatus(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour).Format(time.RFC3339)
	future := time.Now().Add(48 * time.Hour).Format(time.RFC3339)

	cases := []struct {
		name string
		loan api.Loan
		want string
	}{
		{"reserved", api.Loan{Status: "reserved"}, "reserved"},
		{"active_future_due", api.Loan{Status: "active", DueDate: future}, "active"},
		{"active_past_due", api.Loan{Status: "active", DueDate: past}, "overdue"},
		{"active_no_due", api.Loan{Status: "active"}, "active"},
		{"returned_past_due", api.Loan{Status: "returned", DueDate: past}, "returned"},
		{"trims_and_lowers", api.Loan{Status: "  Reserved "}, "reserved"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := loanDisplayStatus(tc.loan); got != tc.want {
				t.Fatalf("loanDisplayStatus = %q, want %q", got, tc.want)
			}
		})
	}
}
