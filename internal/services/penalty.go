package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ngenohkevin/lms-circulation/internal/database"
	"github.com/ngenohkevin/lms-circulation/internal/database/queries"
	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// PenaltyService records fines for late returns and settles them with
// payments. The fine amount always comes from the operator.
type PenaltyService struct {
	store  database.Store
	now    func() time.Time
	logger *slog.Logger
}

func NewPenaltyService(store database.Store, opts ...Option) *PenaltyService {
	o := applyOptions(opts)
	return &PenaltyService{
		store:  store,
		now:    o.now,
		logger: o.logger,
	}
}

// CreatePenalty records the fine for a loan that was returned late, or
// replaces the amount of an existing fine that has no payments yet.
func (s *PenaltyService) CreatePenalty(ctx context.Context, req models.CreatePenaltyRequest, actor string) (*models.PenaltyResponse, error) {
	if !isMoney(req.Amount) {
		err := validationError("amount must be greater than zero with at most two decimal places")
		logFailure(s.logger, "create_penalty", err, "issue_id", req.IssueID)
		return nil, err
	}

	now := s.now()
	var (
		loan    queries.BookIssue
		penalty queries.Penalty
	)
	err := s.store.ExecTx(ctx, func(q queries.Querier) error {
		var err error
		loan, err = q.GetBookIssueByIDForUpdate(ctx, req.IssueID)
		if err != nil {
			return notFoundOr(err, "loan %d", req.IssueID)
		}
		if loan.Status != models.LoanStatusReturned || !loan.ReturnDate.Valid || !loan.ReturnDate.Time.After(loan.DueDate.Time) {
			return fmt.Errorf("%w: loan %d was not returned late", ErrInvalidState, req.IssueID)
		}

		penalty, err = recordPenalty(ctx, q, loan, req.Amount, req.Remarks, actor, now)
		return err
	})
	if err != nil {
		logFailure(s.logger, "create_penalty", err, "issue_id", req.IssueID)
		return nil, err
	}

	resp := penalty.ToResponse(decimal.Zero, models.LateDays(loan.DueDate.Time, loan.ReturnDate.Time))
	return &resp, nil
}

// RecordPayment applies one payment to the penalty of a loan. The penalty row
// is locked and the prior payments re-summed inside the transaction, so two
// concurrent payments cannot both pass the remaining-balance check.
func (s *PenaltyService) RecordPayment(ctx context.Context, req models.RecordPaymentRequest, actor string) (*models.PaymentReceipt, error) {
	if err := validatePayment(req); err != nil {
		logFailure(s.logger, "record_payment", err, "issue_id", req.IssueID)
		return nil, err
	}

	now := s.now()
	var receipt models.PaymentReceipt
	err := s.store.ExecTx(ctx, func(q queries.Querier) error {
		penalty, err := q.GetPenaltyByIssueIDForUpdate(ctx, req.IssueID)
		if err != nil {
			return notFoundOr(err, "penalty for loan %d", req.IssueID)
		}
		if penalty.StudentID != req.StudentID {
			return validationError("penalty for loan %d does not belong to student %d", req.IssueID, req.StudentID)
		}

		paidNum, err := q.SumPaymentsByIssueID(ctx, req.IssueID)
		if err != nil {
			return fmt.Errorf("failed to sum payments for loan %d: %w", req.IssueID, err)
		}
		amount := queries.DecimalFromNumeric(penalty.Amount)
		paid := queries.DecimalFromNumeric(paidNum)
		remaining := amount.Sub(paid)
		if req.AmountPaid.GreaterThan(remaining) {
			return validationError("amount %s exceeds remaining balance %s", req.AmountPaid, remaining)
		}

		if req.TransactionID != nil {
			exists, err := q.TransactionIDExists(ctx, *req.TransactionID)
			if err != nil {
				return fmt.Errorf("failed to check transaction id: %w", err)
			}
			if exists {
				return fmt.Errorf("%w: transaction id %s is already recorded", ErrDuplicateTransaction, *req.TransactionID)
			}
		}

		payment, err := q.CreateLibraryPayment(ctx, queries.CreateLibraryPaymentParams{
			IssueID:       req.IssueID,
			StudentID:     req.StudentID,
			AmountPaid:    queries.NumericFromDecimal(req.AmountPaid),
			PaymentMode:   req.PaymentMode,
			TransactionID: queries.OptionalText(req.TransactionID),
			ReceivedBy:    actor,
			CreatedBy:     actor,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: transaction id is already recorded", ErrDuplicateTransaction)
			}
			return fmt.Errorf("failed to record payment: %w", err)
		}

		remaining = remaining.Sub(req.AmountPaid)
		status := penalty.Status
		if remaining.IsZero() && status != models.PenaltyStatusPaid {
			settled, err := q.MarkPenaltyPaid(ctx, queries.MarkPenaltyPaidParams{
				ID:         penalty.ID,
				ModifiedBy: queries.Text(actor),
				ModifiedOn: queries.Timestamptz(now),
			})
			if err != nil {
				return fmt.Errorf("failed to settle penalty %d: %w", penalty.ID, err)
			}
			status = settled.Status
		}

		receipt = models.PaymentReceipt{
			Payment:       payment.ToResponse(),
			PenaltyStatus: status,
			Remaining:     remaining,
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "record_payment", err, "issue_id", req.IssueID, "student_id", req.StudentID)
		return nil, err
	}

	s.logger.Info("Payment recorded",
		"issue_id", req.IssueID,
		"amount", req.AmountPaid.String(),
		"mode", req.PaymentMode,
		"remaining", receipt.Remaining.String(),
	)
	return &receipt, nil
}

// Remaining reports the unpaid balance of the penalty on a loan.
func (s *PenaltyService) Remaining(ctx context.Context, issueID int32) (*models.BalanceResponse, error) {
	penalty, err := s.store.GetPenaltyByIssueID(ctx, issueID)
	if err != nil {
		return nil, notFoundOr(err, "penalty for loan %d", issueID)
	}
	paidNum, err := s.store.SumPaymentsByIssueID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments for loan %d: %w", issueID, err)
	}

	amount := queries.DecimalFromNumeric(penalty.Amount)
	paid := queries.DecimalFromNumeric(paidNum)
	return &models.BalanceResponse{
		IssueID:   issueID,
		Amount:    amount,
		PaidTotal: paid,
		Remaining: decimal.Max(amount.Sub(paid), decimal.Zero),
		Status:    penalty.Status,
	}, nil
}

func (s *PenaltyService) ListPenalties(ctx context.Context, query models.PenaltyListQuery) ([]models.PenaltyResponse, error) {
	params := queries.ListPenaltiesParams{
		StudentID: queries.OptionalInt4(query.StudentID),
		Limit:     query.Limit,
		Offset:    query.Offset,
	}
	if query.Status != "" {
		params.Status = queries.Text(query.Status)
	}

	penalties, err := s.store.ListPenalties(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalties: %w", err)
	}

	resp := make([]models.PenaltyResponse, 0, len(penalties))
	for i := range penalties {
		p, err := s.describe(ctx, penalties[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, p)
	}
	return resp, nil
}

func (s *PenaltyService) ListPayments(ctx context.Context, query models.PaymentListQuery) ([]models.PaymentResponse, error) {
	payments, err := s.store.ListLibraryPayments(ctx, queries.ListLibraryPaymentsParams{
		IssueID:   queries.OptionalInt4(query.IssueID),
		StudentID: queries.OptionalInt4(query.StudentID),
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	resp := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, payments[i].ToResponse())
	}
	return resp, nil
}

// describe fills in the paid total and late days of a penalty.
func (s *PenaltyService) describe(ctx context.Context, penalty queries.Penalty) (models.PenaltyResponse, error) {
	paid, err := s.store.SumPaymentsByIssueID(ctx, penalty.IssueID)
	if err != nil {
		return models.PenaltyResponse{}, fmt.Errorf("failed to sum payments for loan %d: %w", penalty.IssueID, err)
	}

	lateDays := 0
	loan, err := s.store.GetBookIssueByID(ctx, penalty.IssueID)
	switch {
	case err == nil && loan.ReturnDate.Valid:
		lateDays = models.LateDays(loan.DueDate.Time, loan.ReturnDate.Time)
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		return models.PenaltyResponse{}, fmt.Errorf("failed to load loan %d: %w", penalty.IssueID, err)
	}

	return penalty.ToResponse(queries.DecimalFromNumeric(paid), lateDays), nil
}

func validatePayment(req models.RecordPaymentRequest) error {
	switch {
	case req.IssueID <= 0:
		return validationError("issue_id is required")
	case req.StudentID <= 0:
		return validationError("student_id is required")
	case !isMoney(req.AmountPaid):
		return validationError("amount_paid must be greater than zero with at most two decimal places")
	case !models.IsValidPaymentMode(req.PaymentMode):
		return validationError("unknown payment mode %q", req.PaymentMode)
	case req.PaymentMode != models.PaymentModeCash && (req.TransactionID == nil || *req.TransactionID == ""):
		return validationError("transaction_id is required for %s payments", req.PaymentMode)
	}
	return nil
}

// recordPenalty creates the penalty for a returned loan or, if one already
// exists and nothing has been paid against it, replaces its amount.
func recordPenalty(ctx context.Context, q queries.Querier, loan queries.BookIssue, amount decimal.Decimal, remarks *string, actor string, now time.Time) (queries.Penalty, error) {
	existing, err := q.GetPenaltyByIssueIDForUpdate(ctx, loan.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return queries.Penalty{}, fmt.Errorf("failed to load penalty for loan %d: %w", loan.ID, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		penalty, err := q.CreatePenalty(ctx, queries.CreatePenaltyParams{
			IssueID:   loan.ID,
			StudentID: loan.StudentID,
			Amount:    queries.NumericFromDecimal(amount),
			Remarks:   queries.OptionalText(remarks),
			CreatedBy: actor,
		})
		if err != nil {
			return queries.Penalty{}, fmt.Errorf("failed to create penalty for loan %d: %w", loan.ID, err)
		}
		return penalty, nil
	}

	payments, err := q.CountPaymentsByIssueID(ctx, loan.ID)
	if err != nil {
		return queries.Penalty{}, fmt.Errorf("failed to count payments for loan %d: %w", loan.ID, err)
	}
	if payments > 0 {
		return queries.Penalty{}, fmt.Errorf("%w: penalty for loan %d already has payments", ErrInvalidState, loan.ID)
	}

	penalty, err := q.UpdatePenaltyAmount(ctx, queries.UpdatePenaltyAmountParams{
		ID:         existing.ID,
		Amount:     queries.NumericFromDecimal(amount),
		Remarks:    queries.OptionalText(remarks),
		ModifiedBy: queries.Text(actor),
		ModifiedOn: queries.Timestamptz(now),
	})
	if err != nil {
		return queries.Penalty{}, fmt.Errorf("failed to update penalty for loan %d: %w", loan.ID, err)
	}
	return penalty, nil
}
