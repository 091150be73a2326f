package queries

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookIssueColumns = `id, book_id, student_id, issue_date, due_date, return_date, status,
	remarks, is_renewed, renewal_count, created_by, created_on, modified_by, modified_on`

func scanBookIssue(row rowScanner) (BookIssue, error) {
	var i BookIssue
	err := row.Scan(
		&i.ID,
		&i.BookID,
		&i.StudentID,
		&i.IssueDate,
		&i.DueDate,
		&i.ReturnDate,
		&i.Status,
		&i.Remarks,
		&i.IsRenewed,
		&i.RenewalCount,
		&i.CreatedBy,
		&i.CreatedOn,
		&i.ModifiedBy,
		&i.ModifiedOn,
	)
	return i, err
}

const createBookIssue = `-- name: CreateBookIssue :one
INSERT INTO book_issues (book_id, student_id, issue_date, due_date, status, remarks, created_by)
VALUES ($1, $2, $3, $4, 'issued', $5, $6)
RETURNING ` + bookIssueColumns

type CreateBookIssueParams struct {
	BookID    int32              `json:"book_id"`
	StudentID int32              `json:"student_id"`
	IssueDate pgtype.Timestamptz `json:"issue_date"`
	DueDate   pgtype.Timestamptz `json:"due_date"`
	Remarks   pgtype.Text        `json:"remarks"`
	CreatedBy string             `json:"created_by"`
}

func (q *Queries) CreateBookIssue(ctx context.Context, arg CreateBookIssueParams) (BookIssue, error) {
	row := q.db.QueryRow(ctx, createBookIssue,
		arg.BookID,
		arg.StudentID,
		arg.IssueDate,
		arg.DueDate,
		arg.Remarks,
		arg.CreatedBy,
	)
	return scanBookIssue(row)
}

const getBookIssueByID = `-- name: GetBookIssueByID :one
SELECT ` + bookIssueColumns + ` FROM book_issues WHERE id = $1`

func (q *Queries) GetBookIssueByID(ctx context.Context, id int32) (BookIssue, error) {
	return scanBookIssue(q.db.QueryRow(ctx, getBookIssueByID, id))
}

const getBookIssueByIDForUpdate = `-- name: GetBookIssueByIDForUpdate :one
SELECT ` + bookIssueColumns + ` FROM book_issues WHERE id = $1 FOR UPDATE`

func (q *Queries) GetBookIssueByIDForUpdate(ctx context.Context, id int32) (BookIssue, error) {
	return scanBookIssue(q.db.QueryRow(ctx, getBookIssueByIDForUpdate, id))
}

const renewBookIssue = `-- name: RenewBookIssue :one
UPDATE book_issues
SET due_date = $2,
    status = 'renewed',
    is_renewed = TRUE,
    renewal_count = renewal_count + 1,
    modified_by = $3,
    modified_on = $4
WHERE id = $1 AND status <> 'returned'
RETURNING ` + bookIssueColumns

type RenewBookIssueParams struct {
	ID         int32              `json:"id"`
	DueDate    pgtype.Timestamptz `json:"due_date"`
	ModifiedBy pgtype.Text        `json:"modified_by"`
	ModifiedOn pgtype.Timestamptz `json:"modified_on"`
}

func (q *Queries) RenewBookIssue(ctx context.Context, arg RenewBookIssueParams) (BookIssue, error) {
	row := q.db.QueryRow(ctx, renewBookIssue, arg.ID, arg.DueDate, arg.ModifiedBy, arg.ModifiedOn)
	return scanBookIssue(row)
}

const returnBookIssue = `-- name: ReturnBookIssue :one
UPDATE book_issues
SET return_date = $2,
    status = 'returned',
    remarks = COALESCE($3, remarks),
    modified_by = $4,
    modified_on = $5
WHERE id = $1 AND status <> 'returned'
RETURNING ` + bookIssueColumns

type ReturnBookIssueParams struct {
	ID         int32              `json:"id"`
	ReturnDate pgtype.Timestamptz `json:"return_date"`
	Remarks    pgtype.Text        `json:"remarks"`
	ModifiedBy pgtype.Text        `json:"modified_by"`
	ModifiedOn pgtype.Timestamptz `json:"modified_on"`
}

func (q *Queries) ReturnBookIssue(ctx context.Context, arg ReturnBookIssueParams) (BookIssue, error) {
	row := q.db.QueryRow(ctx, returnBookIssue,
		arg.ID,
		arg.ReturnDate,
		arg.Remarks,
		arg.ModifiedBy,
		arg.ModifiedOn,
	)
	return scanBookIssue(row)
}

const reissueBookIssue = `-- name: ReissueBookIssue :one
UPDATE book_issues
SET book_id = $2,
    student_id = $3,
    issue_date = $4,
    due_date = $5,
    remarks = $6,
    status = 'issued',
    is_renewed = FALSE,
    renewal_count = 0,
    modified_by = $7,
    modified_on = $8
WHERE id = $1 AND status <> 'returned'
RETURNING ` + bookIssueColumns

type ReissueBookIssueParams struct {
	ID         int32              `json:"id"`
	BookID     int32              `json:"book_id"`
	StudentID  int32              `json:"student_id"`
	IssueDate  pgtype.Timestamptz `json:"issue_date"`
	DueDate    pgtype.Timestamptz `json:"due_date"`
	Remarks    pgtype.Text        `json:"remarks"`
	ModifiedBy pgtype.Text        `json:"modified_by"`
	ModifiedOn pgtype.Timestamptz `json:"modified_on"`
}

func (q *Queries) ReissueBookIssue(ctx context.Context, arg ReissueBookIssueParams) (BookIssue, error) {
	row := q.db.QueryRow(ctx, reissueBookIssue,
		arg.ID,
		arg.BookID,
		arg.StudentID,
		arg.IssueDate,
		arg.DueDate,
		arg.Remarks,
		arg.ModifiedBy,
		arg.ModifiedOn,
	)
	return scanBookIssue(row)
}

const deleteBookIssue = `-- name: DeleteBookIssue :exec
DELETE FROM book_issues WHERE id = $1`

func (q *Queries) DeleteBookIssue(ctx context.Context, id int32) error {
	_, err := q.db.Exec(ctx, deleteBookIssue, id)
	return err
}

type ListBookIssuesParams struct {
	StudentID pgtype.Int4 `json:"student_id"`
	BookID    pgtype.Int4 `json:"book_id"`
	Status    pgtype.Text `json:"status"`
	// OverdueAt, when set, keeps only open loans whose due date is before it.
	OverdueAt pgtype.Timestamptz `json:"overdue_at"`
	Limit     int32              `json:"limit"`
	Offset    int32              `json:"offset"`
}

func (q *Queries) ListBookIssues(ctx context.Context, arg ListBookIssuesParams) ([]BookIssue, error) {
	ds := selectFrom("book_issues", bookIssueColumns).Order(goqu.I("id").Desc())
	ds = page(ds, arg.Limit, arg.Offset)
	if arg.StudentID.Valid {
		ds = ds.Where(goqu.C("student_id").Eq(arg.StudentID.Int32))
	}
	if arg.BookID.Valid {
		ds = ds.Where(goqu.C("book_id").Eq(arg.BookID.Int32))
	}
	if arg.Status.Valid {
		ds = ds.Where(goqu.C("status").Eq(arg.Status.String))
	}
	if arg.OverdueAt.Valid {
		ds = ds.Where(
			goqu.C("status").Neq("returned"),
			goqu.C("due_date").Lt(arg.OverdueAt.Time),
		)
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

	items := []BookIssue{}
	for rows.Next() {
		i, err := scanBookIssue(rows)
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
