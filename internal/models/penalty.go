package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PenaltyStatusUnpaid = "unpaid"
	PenaltyStatusPaid   = "paid"
)

// Accepted payment modes. Every mode except cash needs a transaction id.
const (
	PaymentModeCash         = "cash"
	PaymentModeCheque       = "cheque"
	PaymentModeBankTransfer = "bank_transfer"
)

// IsValidPaymentMode reports whether mode is one of the accepted modes.
func IsValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeCash, PaymentModeCheque, PaymentModeBankTransfer:
		return true
	}
	return false
}

// CreatePenaltyRequest records or corrects the fine for a late-returned loan
type CreatePenaltyRequest struct {
	IssueID int32           `json:"issue_id" binding:"required,min=1"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks *string         `json:"remarks" binding:"omitempty,max=500"`
}

// RecordPaymentRequest applies one payment against a penalty
type RecordPaymentRequest struct {
	IssueID       int32           `json:"issue_id" binding:"required,min=1"`
	StudentID     int32           `json:"student_id" binding:"required,min=1"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMode   string          `json:"payment_mode" binding:"required,payment_mode"`
	TransactionID *string         `json:"transaction_id" binding:"omitempty,max=100"`
}

// PenaltyListQuery holds the GET /penalty filters
type PenaltyListQuery struct {
	StudentID *int32 `form:"student_id" binding:"omitempty,min=1"`
	Status    string `form:"status" binding:"omitempty,oneof=unpaid paid"`
	Limit     int32  `form:"limit,default=50" binding:"min=1,max=200"`
	Offset    int32  `form:"offset" binding:"min=0"`
}

// PaymentListQuery holds the GET /library-payment filters
type PaymentListQuery struct {
	IssueID   *int32 `form:"issue_id" binding:"omitempty,min=1"`
	StudentID *int32 `form:"student_id" binding:"omitempty,min=1"`
	Limit     int32  `form:"limit,default=50" binding:"min=1,max=200"`
	Offset    int32  `form:"offset" binding:"min=0"`
}

type PenaltyResponse struct {
	ID         int32           `json:"id"`
	IssueID    int32           `json:"issue_id"`
	StudentID  int32           `json:"student_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidTotal  decimal.Decimal `json:"paid_total"`
	Remaining  decimal.Decimal `json:"remaining"`
	Status     string          `json:"status"`
	LateDays   int             `json:"late_days"`
	Remarks    *string         `json:"remarks"`
	CreatedBy  string          `json:"created_by"`
	CreatedOn  time.Time       `json:"created_on"`
	ModifiedBy *string         `json:"modified_by"`
	ModifiedOn *time.Time      `json:"modified_on"`
}

type PaymentResponse struct {
	ID            int32           `json:"id"`
	IssueID       int32           `json:"issue_id"`
	StudentID     int32           `json:"student_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMode   string          `json:"payment_mode"`
	TransactionID *string         `json:"transaction_id"`
	ReceivedBy    string          `json:"received_by"`
	CreatedBy     string          `json:"created_by"`
	CreatedOn     time.Time       `json:"created_on"`
}

// PaymentReceipt is returned after a payment: the row plus the balance it left.
type PaymentReceipt struct {
	Payment       PaymentResponse `json:"payment"`
	PenaltyStatus string          `json:"penalty_status"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// BalanceResponse answers GET /penalty/remaining
type BalanceResponse struct {
	IssueID   int32           `json:"issue_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidTotal decimal.Decimal `json:"paid_total"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
}

// Validate normalizes and validates the CreatePenaltyRequest
func (r *CreatePenaltyRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	r.Remarks = trimOptional(r.Remarks)
	return nil
}

// Validate normalizes and validates the RecordPaymentRequest
func (r *RecordPaymentRequest) Validate() error {
	if !r.AmountPaid.IsPositive() {
		return errors.New("amount_paid must be greater than zero")
	}

	r.PaymentMode = strings.ToLower(strings.TrimSpace(r.PaymentMode))
	if !IsValidPaymentMode(r.PaymentMode) {
		return errors.New("payment_mode must be one of cash, cheque, bank_transfer")
	}

	r.TransactionID = trimOptional(r.TransactionID)
	if r.PaymentMode != PaymentModeCash && r.TransactionID == nil {
		return errors.New("transaction_id is required for non-cash payments")
	}

	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
