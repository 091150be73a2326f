package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ngenohkevin/lms-circulation/internal/config"
	"github.com/ngenohkevin/lms-circulation/internal/database"
	"github.com/ngenohkevin/lms-circulation/internal/database/queries"
	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// LoanService runs the loan lifecycle: issue, renew, return, edit, delete.
// Every transition that moves a copy runs in one transaction together with
// the inventory change.
type LoanService struct {
	store           database.Store
	ledger          InventoryLedger
	maxLoanDays     int
	minimumLateFine decimal.Decimal
	now             func() time.Time
	logger          *slog.Logger
}

func NewLoanService(store database.Store, policy config.CirculationConfig, opts ...Option) *LoanService {
	o := applyOptions(opts)
	return &LoanService{
		store:           store,
		maxLoanDays:     policy.MaxLoanDays,
		minimumLateFine: policy.MinimumLateFineDecimal(),
		now:             o.now,
		logger:          o.logger,
	}
}

// IssueBook lends one copy of a book to a student for the given number of days.
func (s *LoanService) IssueBook(ctx context.Context, req models.IssueLoanRequest, actor string) (*models.LoanResponse, error) {
	if err := s.validateTerms(req.BookID, req.StudentID, req.Days); err != nil {
		logFailure(s.logger, "issue_book", err, "book_id", req.BookID, "student_id", req.StudentID)
		return nil, err
	}

	now := s.now()
	var issue queries.BookIssue
	err := s.store.ExecTx(ctx, func(q queries.Querier) error {
		if err := requireActiveStudent(ctx, q, req.StudentID); err != nil {
			return err
		}
		if _, err := s.ledger.ReserveCopy(ctx, q, req.BookID); err != nil {
			return err
		}

		var err error
		issue, err = q.CreateBookIssue(ctx, queries.CreateBookIssueParams{
			BookID:    req.BookID,
			StudentID: req.StudentID,
			IssueDate: queries.Timestamptz(now),
			DueDate:   queries.Timestamptz(now.AddDate(0, 0, req.Days)),
			Remarks:   queries.OptionalText(trimmed(req.Remarks)),
			CreatedBy: actor,
		})
		if err != nil {
			return fmt.Errorf("failed to create loan: %w", err)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "issue_book", err, "book_id", req.BookID, "student_id", req.StudentID)
		return nil, err
	}

	s.logger.Info("Book issued", "loan_id", issue.ID, "book_id", issue.BookID, "student_id", issue.StudentID, "actor", actor)
	resp := issue.ToResponse(now)
	return &resp, nil
}

// RenewLoan pushes the due date of an open loan out by days, counted from
// the current due date so that serial renewals add up.
func (s *LoanService) RenewLoan(ctx context.Context, id int32, days int, actor string) (*models.LoanResponse, error) {
	var err error
	switch {
	case days <= 0:
		err = validationError("renew days must be positive")
	case s.maxLoanDays > 0 && days > s.maxLoanDays:
		err = validationError("renew days cannot exceed %d", s.maxLoanDays)
	}
	if err != nil {
		logFailure(s.logger, "renew_loan", err, "loan_id", id)
		return nil, err
	}

	now := s.now()
	var issue queries.BookIssue
	err = s.store.ExecTx(ctx, func(q queries.Querier) error {
		loan, err := lockOpenLoan(ctx, q, id)
		if err != nil {
			return err
		}

		issue, err = q.RenewBookIssue(ctx, queries.RenewBookIssueParams{
			ID:         id,
			DueDate:    queries.Timestamptz(loan.DueDate.Time.AddDate(0, 0, days)),
			ModifiedBy: queries.Text(actor),
			ModifiedOn: queries.Timestamptz(now),
		})
		if err != nil {
			return fmt.Errorf("failed to renew loan %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "renew_loan", err, "loan_id", id)
		return nil, err
	}

	resp := issue.ToResponse(now)
	return &resp, nil
}

// ReturnBook closes an open loan and puts the copy back. A late return must
// come with a fine above the configured minimum; it is recorded as the loan's
// penalty. A fine on an on-time return is ignored.
func (s *LoanService) ReturnBook(ctx context.Context, id int32, remarks *string, fine *decimal.Decimal, actor string) (*models.ReturnLoanResponse, error) {
	now := s.now()
	var (
		issue   queries.BookIssue
		penalty *queries.Penalty
	)
	err := s.store.ExecTx(ctx, func(q queries.Querier) error {
		loan, err := lockOpenLoan(ctx, q, id)
		if err != nil {
			return err
		}

		late := now.After(loan.DueDate.Time)
		if late {
			if fine == nil || !fine.GreaterThan(s.minimumLateFine) {
				return validationError("loan %d is overdue: a fine greater than %s is required", id, s.minimumLateFine)
			}
			if !isMoney(*fine) {
				return validationError("fine must have at most two decimal places")
			}
		}

		issue, err = q.ReturnBookIssue(ctx, queries.ReturnBookIssueParams{
			ID:         id,
			ReturnDate: queries.Timestamptz(now),
			Remarks:    queries.OptionalText(trimmed(remarks)),
			ModifiedBy: queries.Text(actor),
			ModifiedOn: queries.Timestamptz(now),
		})
		if err != nil {
			return fmt.Errorf("failed to return loan %d: %w", id, err)
		}

		if _, err := s.ledger.ReleaseCopy(ctx, q, loan.BookID); err != nil {
			return err
		}

		if late {
			p, err := recordPenalty(ctx, q, issue, *fine, trimmed(remarks), actor, now)
			if err != nil {
				return err
			}
			penalty = &p
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "return_book", err, "loan_id", id)
		return nil, err
	}

	resp := &models.ReturnLoanResponse{Loan: issue.ToResponse(now)}
	if penalty != nil {
		p := penalty.ToResponse(decimal.Zero, resp.Loan.LateDays)
		resp.Penalty = &p
		s.logger.Info("Late return penalised", "loan_id", id, "amount", p.Amount.String(), "late_days", p.LateDays)
	}
	return resp, nil
}

// EditLoan reissues an open loan in place. Changing the book swaps the
// reserved copy; if the new book has nothing free the edit fails and the old
// reservation stays.
func (s *LoanService) EditLoan(ctx context.Context, id int32, req models.EditLoanRequest, actor string) (*models.LoanResponse, error) {
	if err := s.validateTerms(req.BookID, req.StudentID, req.Days); err != nil {
		logFailure(s.logger, "edit_loan", err, "loan_id", id)
		return nil, err
	}

	now := s.now()
	var issue queries.BookIssue
	err := s.store.ExecTx(ctx, func(q queries.Querier) error {
		loan, err := lockOpenLoan(ctx, q, id)
		if err != nil {
			return err
		}
		if err := requireActiveStudent(ctx, q, req.StudentID); err != nil {
			return err
		}

		if req.BookID != loan.BookID {
			// Lock both books in id order so two crossing edits cannot deadlock.
			if err := lockBooks(ctx, q, loan.BookID, req.BookID); err != nil {
				return err
			}
			if _, err := s.ledger.ReleaseCopy(ctx, q, loan.BookID); err != nil {
				return err
			}
			if _, err := s.ledger.ReserveCopy(ctx, q, req.BookID); err != nil {
				return err
			}
		}

		remarks := loan.Remarks
		if req.Remarks != nil {
			remarks = queries.OptionalText(trimmed(req.Remarks))
		}

		issue, err = q.ReissueBookIssue(ctx, queries.ReissueBookIssueParams{
			ID:         id,
			BookID:     req.BookID,
			StudentID:  req.StudentID,
			IssueDate:  queries.Timestamptz(now),
			DueDate:    queries.Timestamptz(now.AddDate(0, 0, req.Days)),
			Remarks:    remarks,
			ModifiedBy: queries.Text(actor),
			ModifiedOn: queries.Timestamptz(now),
		})
		if err != nil {
			return fmt.Errorf("failed to update loan %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "edit_loan", err, "loan_id", id, "book_id", req.BookID)
		return nil, err
	}

	resp := issue.ToResponse(now)
	return &resp, nil
}

// DeleteLoan removes an open loan and releases its copy. Returned loans have
// already given their copy back and cannot be deleted.
func (s *LoanService) DeleteLoan(ctx context.Context, id int32, actor string) error {
	err := s.store.ExecTx(ctx, func(q queries.Querier) error {
		loan, err := lockOpenLoan(ctx, q, id)
		if err != nil {
			return err
		}
		if err := q.DeleteBookIssue(ctx, id); err != nil {
			return fmt.Errorf("failed to delete loan %d: %w", id, err)
		}
		if _, err := s.ledger.ReleaseCopy(ctx, q, loan.BookID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "delete_loan", err, "loan_id", id)
		return err
	}

	s.logger.Info("Loan deleted", "loan_id", id, "actor", actor)
	return nil
}

func (s *LoanService) GetLoan(ctx context.Context, id int32) (*models.LoanResponse, error) {
	issue, err := s.store.GetBookIssueByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "loan %d", id)
	}
	resp := issue.ToResponse(s.now())
	return &resp, nil
}

// ListLoans returns loans newest first. Overdue is evaluated against the
// service clock at query time.
func (s *LoanService) ListLoans(ctx context.Context, query models.LoanListQuery) ([]models.LoanResponse, error) {
	now := s.now()
	params := queries.ListBookIssuesParams{
		StudentID: queries.OptionalInt4(query.StudentID),
		BookID:    queries.OptionalInt4(query.BookID),
		Limit:     query.Limit,
		Offset:    query.Offset,
	}
	if query.Status != "" {
		params.Status = queries.Text(query.Status)
	}
	if query.Overdue {
		params.OverdueAt = queries.Timestamptz(now)
	}

	issues, err := s.store.ListBookIssues(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	loans := make([]models.LoanResponse, 0, len(issues))
	for i := range issues {
		loans = append(loans, issues[i].ToResponse(now))
	}
	return loans, nil
}

func (s *LoanService) validateTerms(bookID, studentID int32, days int) error {
	switch {
	case bookID <= 0:
		return validationError("book_id is required")
	case studentID <= 0:
		return validationError("student_id is required")
	case days <= 0:
		return validationError("days must be positive")
	case s.maxLoanDays > 0 && days > s.maxLoanDays:
		return validationError("days cannot exceed %d", s.maxLoanDays)
	}
	return nil
}

// lockOpenLoan loads a loan FOR UPDATE and rejects it unless it is open.
func lockOpenLoan(ctx context.Context, q queries.Querier, id int32) (queries.BookIssue, error) {
	loan, err := q.GetBookIssueByIDForUpdate(ctx, id)
	if err != nil {
		return queries.BookIssue{}, notFoundOr(err, "loan %d", id)
	}
	if !models.IsOpenStatus(loan.Status) {
		return queries.BookIssue{}, fmt.Errorf("%w: loan %d is %s", ErrInvalidState, id, loan.Status)
	}
	return loan, nil
}

func requireActiveStudent(ctx context.Context, q queries.Querier, id int32) error {
	student, err := q.GetStudentByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "student %d", id)
	}
	if !student.IsActive {
		return validationError("student %d is inactive", id)
	}
	return nil
}

func lockBooks(ctx context.Context, q queries.Querier, ids ...int32) error {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if _, err := q.GetBookByIDForUpdate(ctx, id); err != nil {
			return notFoundOr(err, "book %d", id)
		}
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
