package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/ngenohkevin/lms-circulation/internal/database/queries"
)

// InventoryLedger owns the copy counters on books. Every method expects to
// run inside the caller's transaction and locks the book row first, so a
// check and the update that follows it cannot interleave with another
// transaction touching the same book.
type InventoryLedger struct{}

// ReserveCopy takes one copy off the shelf for a new loan.
func (InventoryLedger) ReserveCopy(ctx context.Context, q queries.Querier, bookID int32) (queries.Book, error) {
	book, err := q.GetBookByIDForUpdate(ctx, bookID)
	if err != nil {
		return queries.Book{}, notFoundOr(err, "book %d", bookID)
	}
	if !book.IsActive {
		return queries.Book{}, fmt.Errorf("%w: book %d is inactive", ErrUnavailable, bookID)
	}
	if book.AvailableCopies <= 0 {
		return queries.Book{}, fmt.Errorf("%w: book %d has no available copies", ErrUnavailable, bookID)
	}

	updated, err := q.ReserveBookCopy(ctx, bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return queries.Book{}, fmt.Errorf("%w: book %d has no available copies", ErrUnavailable, bookID)
		}
		return queries.Book{}, fmt.Errorf("failed to reserve copy of book %d: %w", bookID, err)
	}
	return updated, nil
}

// ReleaseCopy puts a copy back on the shelf after a return or a deleted loan.
func (InventoryLedger) ReleaseCopy(ctx context.Context, q queries.Querier, bookID int32) (queries.Book, error) {
	book, err := q.GetBookByIDForUpdate(ctx, bookID)
	if err != nil {
		return queries.Book{}, notFoundOr(err, "book %d", bookID)
	}
	if book.AvailableCopies >= book.TotalCopies {
		return queries.Book{}, fmt.Errorf("inventory inconsistent: book %d has no copies on loan", bookID)
	}

	updated, err := q.ReleaseBookCopy(ctx, bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return queries.Book{}, fmt.Errorf("inventory inconsistent: book %d has no copies on loan", bookID)
		}
		return queries.Book{}, fmt.Errorf("failed to release copy of book %d: %w", bookID, err)
	}
	return updated, nil
}

// AdjustStock applies a signed delta to both counters.
func (InventoryLedger) AdjustStock(ctx context.Context, q queries.Querier, bookID, delta int32) (queries.Book, error) {
	if delta == 0 {
		return queries.Book{}, validationError("copies delta must be non-zero")
	}

	book, err := q.GetBookByIDForUpdate(ctx, bookID)
	if err != nil {
		return queries.Book{}, notFoundOr(err, "book %d", bookID)
	}
	available, total := int64(book.AvailableCopies)+int64(delta), int64(book.TotalCopies)+int64(delta)
	if total > math.MaxInt32 {
		return queries.Book{}, validationError("book %d cannot hold more than %d copies", bookID, int32(math.MaxInt32))
	}
	if available < 0 || total < 0 {
		return queries.Book{}, fmt.Errorf("%w: book %d has %d available of %d, cannot remove %d",
			ErrInsufficientStock, bookID, book.AvailableCopies, book.TotalCopies, -delta)
	}

	updated, err := q.AdjustBookStock(ctx, queries.AdjustBookStockParams{ID: bookID, Delta: delta})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return queries.Book{}, fmt.Errorf("%w: book %d", ErrInsufficientStock, bookID)
		}
		return queries.Book{}, fmt.Errorf("failed to adjust stock of book %d: %w", bookID, err)
	}
	return updated, nil
}
