package queries

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ngenohkevin/lms-circulation/internal/models"
	"github.com/shopspring/decimal"
)

// ToResponse converts queries.Book to models.BookResponse
func (b *Book) ToResponse() models.BookResponse {
	resp := models.BookResponse{
		ID:              b.ID,
		ISBN:            textPtr(b.Isbn),
		Title:           b.Title,
		Author:          b.Author,
		CourseID:        int4Ptr(b.CourseID),
		SubjectID:       int4Ptr(b.SubjectID),
		PublicationID:   int4Ptr(b.PublicationID),
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		IsActive:        b.IsActive,
		Status:          models.StatusFor(b.IsActive, b.AvailableCopies),
	}
	if b.CreatedAt.Valid {
		resp.CreatedAt = b.CreatedAt.Time
	}
	if b.UpdatedAt.Valid {
		resp.UpdatedAt = b.UpdatedAt.Time
	}
	return resp
}

func (s *Student) ToResponse() models.StudentResponse {
	resp := models.StudentResponse{
		ID:          s.ID,
		StudentCode: s.StudentCode,
		FullName:    s.FullName,
		Email:       textPtr(s.Email),
		IsActive:    s.IsActive,
	}
	if s.CreatedAt.Valid {
		resp.CreatedAt = s.CreatedAt.Time
	}
	return resp
}

// ToResponse converts a loan row, deriving the overdue flag against now.
func (i *BookIssue) ToResponse(now time.Time) models.LoanResponse {
	resp := models.LoanResponse{
		ID:           i.ID,
		BookID:       i.BookID,
		StudentID:    i.StudentID,
		IssueDate:    i.IssueDate.Time,
		DueDate:      i.DueDate.Time,
		ReturnDate:   timePtr(i.ReturnDate),
		Status:       i.Status,
		Remarks:      textPtr(i.Remarks),
		IsRenewed:    i.IsRenewed,
		RenewalCount: i.RenewalCount,
		IsOverdue:    models.IsOverdue(i.Status, i.DueDate.Time, now),
		CreatedBy:    i.CreatedBy,
		CreatedOn:    i.CreatedOn.Time,
		ModifiedBy:   textPtr(i.ModifiedBy),
		ModifiedOn:   timePtr(i.ModifiedOn),
	}
	if i.ReturnDate.Valid {
		resp.LateDays = models.LateDays(i.DueDate.Time, i.ReturnDate.Time)
	} else if resp.IsOverdue {
		resp.LateDays = models.LateDays(i.DueDate.Time, now)
	}
	return resp
}

// ToResponse converts a penalty row; paid is the sum of its payments and
// lateDays comes from the loan it belongs to.
func (p *Penalty) ToResponse(paid decimal.Decimal, lateDays int) models.PenaltyResponse {
	amount := DecimalFromNumeric(p.Amount)
	remaining := amount.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return models.PenaltyResponse{
		ID:         p.ID,
		IssueID:    p.IssueID,
		StudentID:  p.StudentID,
		Amount:     amount,
		PaidTotal:  paid,
		Remaining:  remaining,
		Status:     p.Status,
		LateDays:   lateDays,
		Remarks:    textPtr(p.Remarks),
		CreatedBy:  p.CreatedBy,
		CreatedOn:  p.CreatedOn.Time,
		ModifiedBy: textPtr(p.ModifiedBy),
		ModifiedOn: timePtr(p.ModifiedOn),
	}
}

func (l *LibraryPayment) ToResponse() models.PaymentResponse {
	return models.PaymentResponse{
		ID:            l.ID,
		IssueID:       l.IssueID,
		StudentID:     l.StudentID,
		AmountPaid:    DecimalFromNumeric(l.AmountPaid),
		PaymentMode:   l.PaymentMode,
		TransactionID: textPtr(l.TransactionID),
		ReceivedBy:    l.ReceivedBy,
		CreatedBy:     l.CreatedBy,
		CreatedOn:     l.CreatedOn.Time,
	}
}

func (h *BookStockHistory) ToResponse() models.StockHistoryResponse {
	return models.StockHistoryResponse{
		ID:          h.ID,
		BookID:      h.BookID,
		CopiesAdded: h.CopiesAdded,
		Remarks:     textPtr(h.Remarks),
		CreatedBy:   h.CreatedBy,
		CreatedOn:   h.CreatedOn.Time,
		ModifiedBy:  textPtr(h.ModifiedBy),
		ModifiedOn:  timePtr(h.ModifiedOn),
	}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func int4Ptr(i pgtype.Int4) *int32 {
	if !i.Valid {
		return nil
	}
	v := i.Int32
	return &v
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
