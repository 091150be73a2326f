package services

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngenohkevin/lms-circulation/internal/config"
)

const day = 24 * time.Hour

var day0 = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type circulation struct {
	store   *memStore
	clock   *testClock
	loans   *LoanService
	penalty *PenaltyService
	stock   *StockService
}

func newCirculation(t *testing.T) *circulation {
	t.Helper()
	store := newMemStore()
	clock := newTestClock(day0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := []Option{WithClock(clock.Now), WithLogger(logger)}
	policy := config.CirculationConfig{
		MaxLoanDays:     90,
		MinimumLateFine: "1",
	}

	return &circulation{
		store:   store,
		clock:   clock,
		loans:   NewLoanService(store, policy, opts...),
		penalty: NewPenaltyService(store, opts...),
		stock:   NewStockService(store, opts...),
	}
}

// assertInventory checks both copy-count invariants for a book.
func assertInventory(t *testing.T, store *memStore, bookID int32) {
	t.Helper()
	book := store.book(bookID)
	require.NotZero(t, book.ID, "book %d missing", bookID)
	assert.GreaterOrEqual(t, book.AvailableCopies, int32(0), "available below zero")
	assert.LessOrEqual(t, book.AvailableCopies, book.TotalCopies, "available above total")
	assert.Equal(t, int(book.TotalCopies-book.AvailableCopies), store.openLoans(bookID),
		"copies on loan disagree with open loans")
}

func strPtr(s string) *string {
	return &s
}

func int32Ptr(i int32) *int32 {
	return &i
}
