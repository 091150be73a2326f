package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ngenohkevin/lms-circulation/internal/middleware"
	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// LoanServiceInterface defines the loan lifecycle operations the handler needs
type LoanServiceInterface interface {
	IssueBook(ctx context.Context, req models.IssueLoanRequest, actor string) (*models.LoanResponse, error)
	RenewLoan(ctx context.Context, id int32, days int, actor string) (*models.LoanResponse, error)
	ReturnBook(ctx context.Context, id int32, remarks *string, fine *decimal.Decimal, actor string) (*models.ReturnLoanResponse, error)
	EditLoan(ctx context.Context, id int32, req models.EditLoanRequest, actor string) (*models.LoanResponse, error)
	DeleteLoan(ctx context.Context, id int32, actor string) error
	GetLoan(ctx context.Context, id int32) (*models.LoanResponse, error)
	ListLoans(ctx context.Context, query models.LoanListQuery) ([]models.LoanResponse, error)
}

// LoanHandler serves /book-issue
type LoanHandler struct {
	loanService LoanServiceInterface
}

func NewLoanHandler(loanService LoanServiceInterface) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// ListLoans lists loans, or returns a single loan when ?id= is given
// @Summary List loans
// @Tags loans
// @Produce json
// @Param id query int false "Loan ID"
// @Param student_id query int false "Student ID"
// @Param book_id query int false "Book ID"
// @Param status query string false "issued, renewed or returned"
// @Param overdue query bool false "Only open loans past their due date"
// @Success 200 {object} ListResponse{data=[]models.LoanResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/book-issue [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	if c.Query("id") != "" {
		h.getLoan(c)
		return
	}

	var query models.LoanListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	loans, err := h.loanService.ListLoans(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to list loans")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    loans,
		Meta:    PageMeta{Limit: query.Limit, Offset: query.Offset, Count: len(loans)},
	})
}

func (h *LoanHandler) getLoan(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	loan, err := h.loanService.GetLoan(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve loan")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    loan,
	})
}

// IssueBook lends a copy of a book to a student
// @Summary Issue a book
// @Tags loans
// @Accept json
// @Produce json
// @Param request body models.IssueLoanRequest true "Loan terms"
// @Success 200 {object} SuccessResponse{data=models.LoanResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/book-issue [post]
func (h *LoanHandler) IssueBook(c *gin.Context) {
	var req models.IssueLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	loan, err := h.loanService.IssueBook(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Failed to issue book")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    loan,
		Message: "Book issued successfully",
	})
}

// UpdateLoan renews a loan or, with status=returned, closes it
// @Summary Renew or return a loan
// @Tags loans
// @Accept json
// @Produce json
// @Param id query int true "Loan ID"
// @Param request body models.UpdateLoanRequest true "Renewal or return"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/book-issue [put]
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err.Error())
		return
	}

	actor := middleware.Actor(c)
	if req.IsReturn() {
		result, err := h.loanService.ReturnBook(c.Request.Context(), id, req.Remarks, req.FineAmount, actor)
		if err != nil {
			respondError(c, err, "Failed to return book")
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{
			Success: true,
			Data:    result,
			Message: "Book returned successfully",
		})
		return
	}

	loan, err := h.loanService.RenewLoan(c.Request.Context(), id, *req.RenewDays, actor)
	if err != nil {
		respondError(c, err, "Failed to renew loan")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    loan,
		Message: "Loan renewed successfully",
	})
}

// EditLoan reissues an open loan with new terms
// @Summary Edit a loan
// @Tags loans
// @Accept json
// @Produce json
// @Param id query int true "Loan ID"
// @Param request body models.EditLoanRequest true "New terms"
// @Success 200 {object} SuccessResponse{data=models.LoanResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/book-issue [patch]
func (h *LoanHandler) EditLoan(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	var req models.EditLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	loan, err := h.loanService.EditLoan(c.Request.Context(), id, req, middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Failed to update loan")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    loan,
		Message: "Loan updated successfully",
	})
}

// DeleteLoan removes an open loan and puts its copy back
// @Summary Delete a loan
// @Tags loans
// @Produce json
// @Param id query int true "Loan ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/book-issue [delete]
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	if err := h.loanService.DeleteLoan(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		respondError(c, err, "Failed to delete loan")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Loan deleted successfully",
	})
}

// MyLoans lists the loans of the student behind the token
// @Summary List my loans
// @Tags self-service
// @Produce json
// @Success 200 {object} ListResponse{data=[]models.LoanResponse}
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/me/loans [get]
func (h *LoanHandler) MyLoans(c *gin.Context) {
	var query models.LoanListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	studentID := int32(middleware.GetUserID(c))
	query.StudentID = &studentID
	query.BookID = nil

	loans, err := h.loanService.ListLoans(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to list loans")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    loans,
		Meta:    PageMeta{Limit: query.Limit, Offset: query.Offset, Count: len(loans)},
	})
}
