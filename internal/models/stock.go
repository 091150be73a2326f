package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxStockAdjustment bounds a single stock in or out.
const MaxStockAdjustment = 100000

// AdjustStockRequest records a manual stock in (positive) or out (negative)
type AdjustStockRequest struct {
	BookID      int32  `json:"book_id" binding:"required,min=1"`
	CopiesAdded int32  `json:"copies_added" binding:"required,min=-100000,max=100000"`
	Remarks     string `json:"remarks" binding:"required,max=500"`
}

// UpdateStockRemarksRequest corrects the annotation on a history entry
type UpdateStockRemarksRequest struct {
	Remarks string `json:"remarks" binding:"required,max=500"`
}

// StockHistoryQuery holds the GET /book-stock-history filters
type StockHistoryQuery struct {
	BookID *int32 `form:"book_id" binding:"omitempty,min=1"`
	Limit  int32  `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int32  `form:"offset" binding:"min=0"`
}

type StockHistoryResponse struct {
	ID          int32      `json:"id"`
	BookID      int32      `json:"book_id"`
	CopiesAdded int32      `json:"copies_added"`
	Remarks     *string    `json:"remarks"`
	CreatedBy   string     `json:"created_by"`
	CreatedOn   time.Time  `json:"created_on"`
	ModifiedBy  *string    `json:"modified_by"`
	ModifiedOn  *time.Time `json:"modified_on"`
}

// StockAdjustmentResponse pairs the new history entry with the book counters.
type StockAdjustmentResponse struct {
	Entry StockHistoryResponse `json:"entry"`
	Book  BookResponse         `json:"book"`
}

// Validate normalizes and validates the AdjustStockRequest
func (r *AdjustStockRequest) Validate() error {
	if r.CopiesAdded == 0 {
		return errors.New("copies_added must be non-zero")
	}
	if r.CopiesAdded > MaxStockAdjustment || r.CopiesAdded < -MaxStockAdjustment {
		return fmt.Errorf("copies_added must be between -%d and %d", MaxStockAdjustment, MaxStockAdjustment)
	}
	r.Remarks = strings.TrimSpace(r.Remarks)
	if r.Remarks == "" {
		return errors.New("remarks is required")
	}
	return nil
}

// Validate normalizes and validates the UpdateStockRemarksRequest
func (r *UpdateStockRemarksRequest) Validate() error {
	r.Remarks = strings.TrimSpace(r.Remarks)
	if r.Remarks == "" {
		return errors.New("remarks is required")
	}
	return nil
}
