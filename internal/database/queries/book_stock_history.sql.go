package queries

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookStockHistoryColumns = `id, book_id, copies_added, remarks, created_by, created_on, modified_by, modified_on`

func scanBookStockHistory(row rowScanner) (BookStockHistory, error) {
	var i BookStockHistory
	err := row.Scan(
		&i.ID,
		&i.BookID,
		&i.CopiesAdded,
		&i.Remarks,
		&i.CreatedBy,
		&i.CreatedOn,
		&i.ModifiedBy,
		&i.ModifiedOn,
	)
	return i, err
}

const createBookStockHistory = `-- name: CreateBookStockHistory :one
INSERT INTO book_stock_history (book_id, copies_added, remarks, created_by)
VALUES ($1, $2, $3, $4)
RETURNING ` + bookStockHistoryColumns

type CreateBookStockHistoryParams struct {
	BookID      int32       `json:"book_id"`
	CopiesAdded int32       `json:"copies_added"`
	Remarks     pgtype.Text `json:"remarks"`
	CreatedBy   string      `json:"created_by"`
}

func (q *Queries) CreateBookStockHistory(ctx context.Context, arg CreateBookStockHistoryParams) (BookStockHistory, error) {
	row := q.db.QueryRow(ctx, createBookStockHistory,
		arg.BookID,
		arg.CopiesAdded,
		arg.Remarks,
		arg.CreatedBy,
	)
	return scanBookStockHistory(row)
}

const getBookStockHistoryByID = `-- name: GetBookStockHistoryByID :one
SELECT ` + bookStockHistoryColumns + ` FROM book_stock_history WHERE id = $1`

func (q *Queries) GetBookStockHistoryByID(ctx context.Context, id int32) (BookStockHistory, error) {
	return scanBookStockHistory(q.db.QueryRow(ctx, getBookStockHistoryByID, id))
}

// Only the annotation is editable; copies_added is immutable once recorded.
const updateBookStockHistoryRemarks = `-- name: UpdateBookStockHistoryRemarks :one
UPDATE book_stock_history
SET remarks = $2,
    modified_by = $3,
    modified_on = $4
WHERE id = $1
RETURNING ` + bookStockHistoryColumns

type UpdateBookStockHistoryRemarksParams struct {
	ID         int32              `json:"id"`
	Remarks    pgtype.Text        `json:"remarks"`
	ModifiedBy pgtype.Text        `json:"modified_by"`
	ModifiedOn pgtype.Timestamptz `json:"modified_on"`
}

func (q *Queries) UpdateBookStockHistoryRemarks(ctx context.Context, arg UpdateBookStockHistoryRemarksParams) (BookStockHistory, error) {
	row := q.db.QueryRow(ctx, updateBookStockHistoryRemarks,
		arg.ID,
		arg.Remarks,
		arg.ModifiedBy,
		arg.ModifiedOn,
	)
	return scanBookStockHistory(row)
}

type ListBookStockHistoryParams struct {
	BookID pgtype.Int4 `json:"book_id"`
	Limit  int32       `json:"limit"`
	Offset int32       `json:"offset"`
}

func (q *Queries) ListBookStockHistory(ctx context.Context, arg ListBookStockHistoryParams) ([]BookStockHistory, error) {
	ds := selectFrom("book_stock_history", bookStockHistoryColumns).Order(goqu.I("id").Asc())
	ds = page(ds, arg.Limit, arg.Offset)
	if arg.BookID.Valid {
		ds = ds.Where(goqu.C("book_id").Eq(arg.BookID.Int32))
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

	items := []BookStockHistory{}
	for rows.Next() {
		i, err := scanBookStockHistory(rows)
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
