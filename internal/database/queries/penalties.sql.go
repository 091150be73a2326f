package queries

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"
)

const penaltyColumns = `id, issue_id, student_id, amount, status, remarks,
	created_by, created_on, modified_by, modified_on`

func scanPenalty(row rowScanner) (Penalty, error) {
	var i Penalty
	err := row.Scan(
		&i.ID,
		&i.IssueID,
		&i.StudentID,
		&i.Amount,
		&i.Status,
		&i.Remarks,
		&i.CreatedBy,
		&i.CreatedOn,
		&i.ModifiedBy,
		&i.ModifiedOn,
	)
	return i, err
}

const createPenalty = `-- name: CreatePenalty :one
INSERT INTO penalties (issue_id, student_id, amount, status, remarks, created_by)
VALUES ($1, $2, $3, 'unpaid', $4, $5)
RETURNING ` + penaltyColumns

type CreatePenaltyParams struct {
	IssueID   int32          `json:"issue_id"`
	StudentID int32          `json:"student_id"`
	Amount    pgtype.Numeric `json:"amount"`
	Remarks   pgtype.Text    `json:"remarks"`
	CreatedBy string         `json:"created_by"`
}

func (q *Queries) CreatePenalty(ctx context.Context, arg CreatePenaltyParams) (Penalty, error) {
	row := q.db.QueryRow(ctx, createPenalty,
		arg.IssueID,
		arg.StudentID,
		arg.Amount,
		arg.Remarks,
		arg.CreatedBy,
	)
	return scanPenalty(row)
}

const getPenaltyByIssueID = `-- name: GetPenaltyByIssueID :one
SELECT ` + penaltyColumns + ` FROM penalties WHERE issue_id = $1`

func (q *Queries) GetPenaltyByIssueID(ctx context.Context, issueID int32) (Penalty, error) {
	return scanPenalty(q.db.QueryRow(ctx, getPenaltyByIssueID, issueID))
}

const getPenaltyByIssueIDForUpdate = `-- name: GetPenaltyByIssueIDForUpdate :one
SELECT ` + penaltyColumns + ` FROM penalties WHERE issue_id = $1 FOR UPDATE`

func (q *Queries) GetPenaltyByIssueIDForUpdate(ctx context.Context, issueID int32) (Penalty, error) {
	return scanPenalty(q.db.QueryRow(ctx, getPenaltyByIssueIDForUpdate, issueID))
}

const updatePenaltyAmount = `-- name: UpdatePenaltyAmount :one
UPDATE penalties
SET amount = $2,
    remarks = COALESCE($3, remarks),
    modified_by = $4,
    modified_on = $5
WHERE id = $1
RETURNING ` + penaltyColumns

type UpdatePenaltyAmountParams struct {
	ID         int32              `json:"id"`
	Amount     pgtype.Numeric     `json:"amount"`
	Remarks    pgtype.Text        `json:"remarks"`
	ModifiedBy pgtype.Text        `json:"modified_by"`
	ModifiedOn pgtype.Timestamptz `json:"modified_on"`
}

func (q *Queries) UpdatePenaltyAmount(ctx context.Context, arg UpdatePenaltyAmountParams) (Penalty, error) {
	row := q.db.QueryRow(ctx, updatePenaltyAmount,
		arg.ID,
		arg.Amount,
		arg.Remarks,
		arg.ModifiedBy,
		arg.ModifiedOn,
	)
	return scanPenalty(row)
}

const markPenaltyPaid = `-- name: MarkPenaltyPaid :one
UPDATE penalties
SET status = 'paid',
    modified_by = $2,
    modified_on = $3
WHERE id = $1
RETURNING ` + penaltyColumns

type MarkPenaltyPaidParams struct {
	ID         int32              `json:"id"`
	ModifiedBy pgtype.Text        `json:"modified_by"`
	ModifiedOn pgtype.Timestamptz `json:"modified_on"`
}

func (q *Queries) MarkPenaltyPaid(ctx context.Context, arg MarkPenaltyPaidParams) (Penalty, error) {
	return scanPenalty(q.db.QueryRow(ctx, markPenaltyPaid, arg.ID, arg.ModifiedBy, arg.ModifiedOn))
}

type ListPenaltiesParams struct {
	StudentID pgtype.Int4 `json:"student_id"`
	Status    pgtype.Text `json:"status"`
	Limit     int32       `json:"limit"`
	Offset    int32       `json:"offset"`
}

func (q *Queries) ListPenalties(ctx context.Context, arg ListPenaltiesParams) ([]Penalty, error) {
	ds := selectFrom("penalties", penaltyColumns).Order(goqu.I("id").Desc())
	ds = page(ds, arg.Limit, arg.Offset)
	if arg.StudentID.Valid {
		ds = ds.Where(goqu.C("student_id").Eq(arg.StudentID.Int32))
	}
	if arg.Status.Valid {
		ds = ds.Where(goqu.C("status").Eq(arg.Status.String))
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

	items := []Penalty{}
	for rows.Next() {
		i, err := scanPenalty(rows)
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
