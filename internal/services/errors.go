package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Circulation error kinds. Services wrap them with a message, handlers map
// them to status codes with errors.Is.
var (
	ErrValidation           = errors.New("validation error")
	ErrUnavailable          = errors.New("book unavailable")
	ErrInvalidState         = errors.New("invalid state")
	ErrNotFound             = errors.New("not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
)

const pgUniqueViolation = "23505"

// IsDomainError reports whether err is one of the circulation error kinds,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	for _, kind := range []error{
		ErrValidation,
		ErrUnavailable,
		ErrInvalidState,
		ErrNotFound,
		ErrInsufficientStock,
		ErrDuplicateTransaction,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// notFoundOr maps pgx.ErrNoRows to ErrNotFound and wraps anything else.
func notFoundOr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return fmt.Errorf("failed to load %s: %w", msg, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// logFailure records a failed operation. Domain rejections are warnings,
// everything else is an error.
func logFailure(logger *slog.Logger, op string, err error, attrs ...any) {
	args := append([]any{"op", op, "error", err}, attrs...)
	if IsDomainError(err) {
		logger.Warn("Circulation operation rejected", args...)
		return
	}
	logger.Error("Circulation operation failed", args...)
}
