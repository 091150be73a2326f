package queries

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"
)

const libraryPaymentColumns = `id, issue_id, student_id, amount_paid, payment_mode, transaction_id,
	received_by, created_by, created_on`

func scanLibraryPayment(row rowScanner) (LibraryPayment, error) {
	var i LibraryPayment
	err := row.Scan(
		&i.ID,
		&i.IssueID,
		&i.StudentID,
		&i.AmountPaid,
		&i.PaymentMode,
		&i.TransactionID,
		&i.ReceivedBy,
		&i.CreatedBy,
		&i.CreatedOn,
	)
	return i, err
}

const createLibraryPayment = `-- name: CreateLibraryPayment :one
INSERT INTO library_payments (issue_id, student_id, amount_paid, payment_mode, transaction_id, received_by, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + libraryPaymentColumns

type CreateLibraryPaymentParams struct {
	IssueID       int32          `json:"issue_id"`
	StudentID     int32          `json:"student_id"`
	AmountPaid    pgtype.Numeric `json:"amount_paid"`
	PaymentMode   string         `json:"payment_mode"`
	TransactionID pgtype.Text    `json:"transaction_id"`
	ReceivedBy    string         `json:"received_by"`
	CreatedBy     string         `json:"created_by"`
}

func (q *Queries) CreateLibraryPayment(ctx context.Context, arg CreateLibraryPaymentParams) (LibraryPayment, error) {
	row := q.db.QueryRow(ctx, createLibraryPayment,
		arg.IssueID,
		arg.StudentID,
		arg.AmountPaid,
		arg.PaymentMode,
		arg.TransactionID,
		arg.ReceivedBy,
		arg.CreatedBy,
	)
	return scanLibraryPayment(row)
}

const sumPaymentsByIssueID = `-- name: SumPaymentsByIssueID :one
SELECT COALESCE(SUM(amount_paid), 0)::NUMERIC(12,2) FROM library_payments WHERE issue_id = $1`

func (q *Queries) SumPaymentsByIssueID(ctx context.Context, issueID int32) (pgtype.Numeric, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, sumPaymentsByIssueID, issueID).Scan(&total)
	return total, err
}

const countPaymentsByIssueID = `-- name: CountPaymentsByIssueID :one
SELECT COUNT(*) FROM library_payments WHERE issue_id = $1`

func (q *Queries) CountPaymentsByIssueID(ctx context.Context, issueID int32) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPaymentsByIssueID, issueID).Scan(&count)
	return count, err
}

const transactionIDExists = `-- name: TransactionIDExists :one
SELECT EXISTS(SELECT 1 FROM library_payments WHERE transaction_id = $1)`

func (q *Queries) TransactionIDExists(ctx context.Context, transactionID string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, transactionIDExists, transactionID).Scan(&exists)
	return exists, err
}

type ListLibraryPaymentsParams struct {
	IssueID   pgtype.Int4 `json:"issue_id"`
	StudentID pgtype.Int4 `json:"student_id"`
	Limit     int32       `json:"limit"`
	Offset    int32       `json:"offset"`
}

func (q *Queries) ListLibraryPayments(ctx context.Context, arg ListLibraryPaymentsParams) ([]LibraryPayment, error) {
	ds := selectFrom("library_payments", libraryPaymentColumns).Order(goqu.I("id").Desc())
	ds = page(ds, arg.Limit, arg.Offset)
	if arg.IssueID.Valid {
		ds = ds.Where(goqu.C("issue_id").Eq(arg.IssueID.Int32))
	}
	if arg.StudentID.Valid {
		ds = ds.Where(goqu.C("student_id").Eq(arg.StudentID.Int32))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []LibraryPayment{}
	for rows.Next() {
		i, err := scanLibraryPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
