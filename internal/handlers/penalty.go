package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/lms-circulation/internal/middleware"
	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// PenaltyServiceInterface defines the fine and payment operations
type PenaltyServiceInterface interface {
	CreatePenalty(ctx context.Context, req models.CreatePenaltyRequest, actor string) (*models.PenaltyResponse, error)
	RecordPayment(ctx context.Context, req models.RecordPaymentRequest, actor string) (*models.PaymentReceipt, error)
	Remaining(ctx context.Context, issueID int32) (*models.BalanceResponse, error)
	ListPenalties(ctx context.Context, query models.PenaltyListQuery) ([]models.PenaltyResponse, error)
	ListPayments(ctx context.Context, query models.PaymentListQuery) ([]models.PaymentResponse, error)
}

// PenaltyHandler serves /penalty and /library-payment
type PenaltyHandler struct {
	penaltyService PenaltyServiceInterface
}

func NewPenaltyHandler(penaltyService PenaltyServiceInterface) *PenaltyHandler {
	return &PenaltyHandler{
		penaltyService: penaltyService,
	}
}

// ListPenalties lists fines
// @Summary List penalties
// @Tags penalties
// @Produce json
// @Param student_id query int false "Student ID"
// @Param status query string false "unpaid or paid"
// @Success 200 {object} ListResponse{data=[]models.PenaltyResponse}
// @Router /api/v1/penalty [get]
func (h *PenaltyHandler) ListPenalties(c *gin.Context) {
	var query models.PenaltyListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	penalties, err := h.penaltyService.ListPenalties(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to list penalties")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    penalties,
		Meta:    PageMeta{Limit: query.Limit, Offset: query.Offset, Count: len(penalties)},
	})
}

// CreatePenalty records or corrects the fine of a late return
// @Summary Create a penalty
// @Tags penalties
// @Accept json
// @Produce json
// @Param request body models.CreatePenaltyRequest true "Penalty"
// @Success 200 {object} SuccessResponse{data=models.PenaltyResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/penalty [post]
func (h *PenaltyHandler) CreatePenalty(c *gin.Context) {
	var req models.CreatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err.Error())
		return
	}

	penalty, err := h.penaltyService.CreatePenalty(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Failed to record penalty")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    penalty,
		Message: "Penalty recorded successfully",
	})
}

// Remaining reports the unpaid balance of a loan's penalty
// @Summary Remaining penalty balance
// @Tags penalties
// @Produce json
// @Param issue_id query int true "Loan ID"
// @Success 200 {object} SuccessResponse{data=models.BalanceResponse}
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/penalty/remaining [get]
func (h *PenaltyHandler) Remaining(c *gin.Context) {
	issueID, ok := queryID(c, "issue_id")
	if !ok {
		return
	}

	balance, err := h.penaltyService.Remaining(c.Request.Context(), issueID)
	if err != nil {
		respondError(c, err, "Failed to compute remaining balance")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    balance,
	})
}

// RecordPayment applies a payment against a penalty
// @Summary Record a payment
// @Tags payments
// @Accept json
// @Produce json
// @Param request body models.RecordPaymentRequest true "Payment"
// @Success 200 {object} SuccessResponse{data=models.PaymentReceipt}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/library-payment [post]
func (h *PenaltyHandler) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err.Error())
		return
	}

	receipt, err := h.penaltyService.RecordPayment(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    receipt,
		Message: "Payment recorded successfully",
	})
}

// ListPayments lists recorded payments
// @Summary List payments
// @Tags payments
// @Produce json
// @Param issue_id query int false "Loan ID"
// @Param student_id query int false "Student ID"
// @Success 200 {object} ListResponse{data=[]models.PaymentResponse}
// @Router /api/v1/library-payment [get]
func (h *PenaltyHandler) ListPayments(c *gin.Context) {
	var query models.PaymentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	payments, err := h.penaltyService.ListPayments(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    payments,
		Meta:    PageMeta{Limit: query.Limit, Offset: query.Offset, Count: len(payments)},
	})
}

// MyPenalties lists the fines of the student behind the token
// @Summary List my penalties
// @Tags self-service
// @Produce json
// @Success 200 {object} ListResponse{data=[]models.PenaltyResponse}
// @Router /api/v1/me/penalties [get]
func (h *PenaltyHandler) MyPenalties(c *gin.Context) {
	var query models.PenaltyListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	studentID := int32(middleware.GetUserID(c))
	query.StudentID = &studentID

	penalties, err := h.penaltyService.ListPenalties(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to list penalties")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    penalties,
		Meta:    PageMeta{Limit: query.Limit, Offset: query.Offset, Count: len(penalties)},
	})
}
