package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ngenohkevin/lms-circulation/internal/database"
	"github.com/ngenohkevin/lms-circulation/internal/database/queries"
	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// StockService keeps the append-only history of manual stock in and out.
// A wrong delta is corrected with a new offsetting entry, never by editing.
type StockService struct {
	store  database.Store
	ledger InventoryLedger
	now    func() time.Time
	logger *slog.Logger
}

func NewStockService(store database.Store, opts ...Option) *StockService {
	o := applyOptions(opts)
	return &StockService{
		store:  store,
		now:    o.now,
		logger: o.logger,
	}
}

// AdjustStock applies a signed delta to a book and appends the history entry
// in the same transaction.
func (s *StockService) AdjustStock(ctx context.Context, req models.AdjustStockRequest, actor string) (*models.StockAdjustmentResponse, error) {
	remarks := strings.TrimSpace(req.Remarks)
	if req.BookID <= 0 {
		err := validationError("book_id is required")
		logFailure(s.logger, "adjust_stock", err)
		return nil, err
	}

	var (
		book  queries.Book
		entry queries.BookStockHistory
	)
	err := s.store.ExecTx(ctx, func(q queries.Querier) error {
		var err error
		book, err = s.ledger.AdjustStock(ctx, q, req.BookID, req.CopiesAdded)
		if err != nil {
			return err
		}

		entry, err = q.CreateBookStockHistory(ctx, queries.CreateBookStockHistoryParams{
			BookID:      req.BookID,
			CopiesAdded: req.CopiesAdded,
			Remarks:     queries.OptionalText(&remarks),
			CreatedBy:   actor,
		})
		if err != nil {
			return fmt.Errorf("failed to record stock history: %w", err)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "adjust_stock", err, "book_id", req.BookID, "delta", req.CopiesAdded)
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		"book_id", req.BookID,
		"delta", req.CopiesAdded,
		"total_copies", book.TotalCopies,
		"available_copies", book.AvailableCopies,
		"actor", actor,
	)
	return &models.StockAdjustmentResponse{
		Entry: entry.ToResponse(),
		Book:  book.ToResponse(),
	}, nil
}

// UpdateRemarks corrects the annotation of a history entry.
func (s *StockService) UpdateRemarks(ctx context.Context, id int32, remarks string, actor string) (*models.StockHistoryResponse, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		err := validationError("remarks is required")
		logFailure(s.logger, "update_stock_remarks", err, "entry_id", id)
		return nil, err
	}

	entry, err := s.store.UpdateBookStockHistoryRemarks(ctx, queries.UpdateBookStockHistoryRemarksParams{
		ID:         id,
		Remarks:    queries.Text(remarks),
		ModifiedBy: queries.Text(actor),
		ModifiedOn: queries.Timestamptz(s.now()),
	})
	if err != nil {
		err = notFoundOr(err, "stock history entry %d", id)
		logFailure(s.logger, "update_stock_remarks", err, "entry_id", id)
		return nil, err
	}

	resp := entry.ToResponse()
	return &resp, nil
}

func (s *StockService) ListHistory(ctx context.Context, query models.StockHistoryQuery) ([]models.StockHistoryResponse, error) {
	entries, err := s.store.ListBookStockHistory(ctx, queries.ListBookStockHistoryParams{
		BookID: queries.OptionalInt4(query.BookID),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list stock history: %w", err)
	}

	resp := make([]models.StockHistoryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, entries[i].ToResponse())
	}
	return resp, nil
}
