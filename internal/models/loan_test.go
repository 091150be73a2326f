package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		due    time.Time
		want   bool
	}{
		{name: "due exactly now", status: LoanStatusIssued, due: now, want: false},
		{name: "due one second ago", status: LoanStatusIssued, due: now.Add(-time.Second), want: true},
		{name: "renewed and past due", status: LoanStatusRenewed, due: now.Add(-time.Hour), want: true},
		{name: "due tomorrow", status: LoanStatusIssued, due: now.Add(24 * time.Hour), want: false},
		{name: "returned loans are never overdue", status: LoanStatusReturned, due: now.Add(-72 * time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(tt.status, tt.due, now))
		})
	}
}

func TestLateDays(t *testing.T) {
	due := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		returned time.Time
		want     int
	}{
		{name: "on time", returned: due, want: 0},
		{name: "early", returned: due.Add(-48 * time.Hour), want: 0},
		{name: "one minute late counts as a day", returned: due.Add(time.Minute), want: 1},
		{name: "exactly three days", returned: due.Add(72 * time.Hour), want: 3},
		{name: "three days and an hour", returned: due.Add(73 * time.Hour), want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LateDays(due, tt.returned))
		})
	}
}

func TestUpdateLoanRequest_Validate(t *testing.T) {
	days := func(n int) *int { return &n }

	tests := []struct {
		name       string
		req        UpdateLoanRequest
		wantErr    bool
		wantReturn bool
	}{
		{name: "return", req: UpdateLoanRequest{Status: "returned"}, wantReturn: true},
		{name: "renew", req: UpdateLoanRequest{RenewDays: days(7)}},
		{name: "renew with explicit status", req: UpdateLoanRequest{Status: "renewed", RenewDays: days(3)}},
		{name: "empty body", req: UpdateLoanRequest{}, wantErr: true},
		{name: "return with renew days", req: UpdateLoanRequest{Status: "returned", RenewDays: days(2)}, wantErr: true},
		{name: "zero renew days", req: UpdateLoanRequest{RenewDays: days(0)}, wantErr: true},
		{name: "issued is not a transition", req: UpdateLoanRequest{Status: "issued"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantReturn, tt.req.IsReturn())
		})
	}
}
