package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ngenohkevin/lms-circulation/internal/database/queries"
)

// Store is the query surface the services depend on, plus a way to run a
// group of queries atomically.
type Store interface {
	queries.Querier
	ExecTx(ctx context.Context, fn func(q queries.Querier) error) error
}

type SQLStore struct {
	*queries.Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{
		Queries: queries.New(pool),
		pool:    pool,
	}
}

// ExecTx runs fn inside a READ COMMITTED transaction. Callers take the row
// locks they need with the *ForUpdate queries. Any error from fn rolls back.
func (s *SQLStore) ExecTx(ctx context.Context, fn func(q queries.Querier) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(s.Queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
