package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/lms-circulation/internal/middleware"
	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// StockServiceInterface defines the manual stock ledger operations
type StockServiceInterface interface {
	AdjustStock(ctx context.Context, req models.AdjustStockRequest, actor string) (*models.StockAdjustmentResponse, error)
	UpdateRemarks(ctx context.Context, id int32, remarks string, actor string) (*models.StockHistoryResponse, error)
	ListHistory(ctx context.Context, query models.StockHistoryQuery) ([]models.StockHistoryResponse, error)
}

// StockHandler serves /book-stock-history
type StockHandler struct {
	stockService StockServiceInterface
}

func NewStockHandler(stockService StockServiceInterface) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// ListHistory lists stock adjustments, oldest first
// @Summary Stock history
// @Tags stock
// @Produce json
// @Param book_id query int false "Book ID"
// @Success 200 {object} ListResponse{data=[]models.StockHistoryResponse}
// @Router /api/v1/book-stock-history [get]
func (h *StockHandler) ListHistory(c *gin.Context) {
	var query models.StockHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	entries, err := h.stockService.ListHistory(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to list stock history")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    entries,
		Meta:    PageMeta{Limit: query.Limit, Offset: query.Offset, Count: len(entries)},
	})
}

// AdjustStock records a manual stock in or out
// @Summary Adjust stock
// @Tags stock
// @Accept json
// @Produce json
// @Param request body models.AdjustStockRequest true "Signed copy delta"
// @Success 200 {object} SuccessResponse{data=models.StockAdjustmentResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/book-stock-history [post]
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req models.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err.Error())
		return
	}

	result, err := h.stockService.AdjustStock(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Failed to adjust stock")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    result,
		Message: "Stock adjusted successfully",
	})
}

// UpdateRemarks corrects the remarks of a history entry
// @Summary Correct stock remarks
// @Tags stock
// @Accept json
// @Produce json
// @Param id query int true "History entry ID"
// @Param request body models.UpdateStockRemarksRequest true "Remarks"
// @Success 200 {object} SuccessResponse{data=models.StockHistoryResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/book-stock-history [patch]
func (h *StockHandler) UpdateRemarks(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateStockRemarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err.Error())
		return
	}

	entry, err := h.stockService.UpdateRemarks(c.Request.Context(), id, req.Remarks, middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Failed to update stock remarks")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    entry,
		Message: "Remarks updated successfully",
	})
}
