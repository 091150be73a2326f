package models

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus values stored on book_issues.status. Overdue is never stored.
const (
	LoanStatusIssued   = "issued"
	LoanStatusRenewed  = "renewed"
	LoanStatusReturned = "returned"
)

// IssueLoanRequest represents a request to lend a copy to a student
type IssueLoanRequest struct {
	BookID    int32   `json:"book_id" binding:"required,min=1"`
	StudentID int32   `json:"student_id" binding:"required,min=1"`
	Days      int     `json:"days" binding:"required,min=1"`
	Remarks   *string `json:"remarks" binding:"omitempty,max=500"`
}

// UpdateLoanRequest drives PUT /book-issue: either a return (status=returned)
// or a renewal (renew_days).
type UpdateLoanRequest struct {
	Status     string           `json:"status" binding:"omitempty,loan_status"`
	RenewDays  *int             `json:"renew_days" binding:"omitempty,min=1"`
	Remarks    *string          `json:"remarks" binding:"omitempty,max=500"`
	FineAmount *decimal.Decimal `json:"fine_amount"`
}

// EditLoanRequest reissues an open loan in place
type EditLoanRequest struct {
	BookID    int32   `json:"book_id" binding:"required,min=1"`
	StudentID int32   `json:"student_id" binding:"required,min=1"`
	Days      int     `json:"days" binding:"required,min=1"`
	Remarks   *string `json:"remarks" binding:"omitempty,max=500"`
}

// LoanListQuery holds the GET /book-issue filters
type LoanListQuery struct {
	StudentID *int32 `form:"student_id" binding:"omitempty,min=1"`
	BookID    *int32 `form:"book_id" binding:"omitempty,min=1"`
	Status    string `form:"status" binding:"omitempty,loan_status"`
	Overdue   bool   `form:"overdue"`
	Limit     int32  `form:"limit,default=50" binding:"min=1,max=200"`
	Offset    int32  `form:"offset" binding:"min=0"`
}

type LoanResponse struct {
	ID           int32      `json:"id"`
	BookID       int32      `json:"book_id"`
	StudentID    int32      `json:"student_id"`
	IssueDate    time.Time  `json:"issue_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date"`
	Status       string     `json:"status"`
	Remarks      *string    `json:"remarks"`
	IsRenewed    bool       `json:"is_renewed"`
	RenewalCount int32      `json:"renewal_count"`
	IsOverdue    bool       `json:"is_overdue"`
	LateDays     int        `json:"late_days"`
	CreatedBy    string     `json:"created_by"`
	CreatedOn    time.Time  `json:"created_on"`
	ModifiedBy   *string    `json:"modified_by"`
	ModifiedOn   *time.Time `json:"modified_on"`
}

// ReturnLoanResponse carries the penalty raised by a late return, if any.
type ReturnLoanResponse struct {
	Loan    LoanResponse     `json:"loan"`
	Penalty *PenaltyResponse `json:"penalty,omitempty"`
}

// IsOpenStatus reports whether a loan in this status still holds a copy.
func IsOpenStatus(status string) bool {
	return status == LoanStatusIssued || status == LoanStatusRenewed
}

// IsOverdue is true for an open loan whose due date has strictly passed.
func IsOverdue(status string, dueDate, now time.Time) bool {
	return IsOpenStatus(status) && now.After(dueDate)
}

// LateDays is ceil((returned - due) / 24h), floored at zero.
func LateDays(dueDate, returnedAt time.Time) int {
	late := returnedAt.Sub(dueDate)
	if late <= 0 {
		return 0
	}
	return int(math.Ceil(late.Hours() / 24))
}

// Validate checks that the request names exactly one transition.
func (r *UpdateLoanRequest) Validate() error {
	r.Status = strings.TrimSpace(r.Status)
	switch r.Status {
	case LoanStatusReturned:
		if r.RenewDays != nil {
			return errors.New("renew_days cannot be combined with a return")
		}
	case "", LoanStatusRenewed:
		if r.RenewDays == nil {
			return errors.New("either status=returned or renew_days is required")
		}
		if *r.RenewDays <= 0 {
			return errors.New("renew_days must be positive")
		}
	default:
		return errors.New("status must be returned or renewed")
	}
	return nil
}

// IsReturn reports whether the request asks for a return.
func (r *UpdateLoanRequest) IsReturn() bool {
	return r.Status == LoanStatusReturned
}
