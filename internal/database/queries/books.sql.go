package queries

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookColumns = `id, isbn, title, author, course_id, subject_id, publication_id,
	total_copies, available_copies, is_active, created_at, updated_at`

func scanBook(row rowScanner) (Book, error) {
	var i Book
	err := row.Scan(
		&i.ID,
		&i.Isbn,
		&i.Title,
		&i.Author,
		&i.CourseID,
		&i.SubjectID,
		&i.PublicationID,
		&i.TotalCopies,
		&i.AvailableCopies,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBook = `-- name: CreateBook :one
INSERT INTO books (isbn, title, author, course_id, subject_id, publication_id, total_copies, available_copies)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING ` + bookColumns

type CreateBookParams struct {
	Isbn          pgtype.Text `json:"isbn"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	CourseID      pgtype.Int4 `json:"course_id"`
	SubjectID     pgtype.Int4 `json:"subject_id"`
	PublicationID pgtype.Int4 `json:"publication_id"`
	TotalCopies   int32       `json:"total_copies"`
}

func (q *Queries) CreateBook(ctx context.Context, arg CreateBookParams) (Book, error) {
	row := q.db.QueryRow(ctx, createBook,
		arg.Isbn,
		arg.Title,
		arg.Author,
		arg.CourseID,
		arg.SubjectID,
		arg.PublicationID,
		arg.TotalCopies,
	)
	return scanBook(row)
}

const getBookByID = `-- name: GetBookByID :one
SELECT ` + bookColumns + ` FROM books WHERE id = $1`

func (q *Queries) GetBookByID(ctx context.Context, id int32) (Book, error) {
	return scanBook(q.db.QueryRow(ctx, getBookByID, id))
}

const getBookByIDForUpdate = `-- name: GetBookByIDForUpdate :one
SELECT ` + bookColumns + ` FROM books WHERE id = $1 FOR UPDATE`

func (q *Queries) GetBookByIDForUpdate(ctx context.Context, id int32) (Book, error) {
	return scanBook(q.db.QueryRow(ctx, getBookByIDForUpdate, id))
}

const deactivateBook = `-- name: DeactivateBook :one
UPDATE books SET is_active = FALSE, updated_at = NOW()
WHERE id = $1
RETURNING ` + bookColumns

func (q *Queries) DeactivateBook(ctx context.Context, id int32) (Book, error) {
	return scanBook(q.db.QueryRow(ctx, deactivateBook, id))
}

// The guard in the WHERE clause makes the decrement a no-op (pgx.ErrNoRows)
// when the book is inactive or has nothing on the shelf.
const reserveBookCopy = `-- name: ReserveBookCopy :one
UPDATE books SET available_copies = available_copies - 1, updated_at = NOW()
WHERE id = $1 AND is_active AND available_copies > 0
RETURNING ` + bookColumns

func (q *Queries) ReserveBookCopy(ctx context.Context, id int32) (Book, error) {
	return scanBook(q.db.QueryRow(ctx, reserveBookCopy, id))
}

// No row comes back when every copy is already on the shelf.
const releaseBookCopy = `-- name: ReleaseBookCopy :one
UPDATE books SET available_copies = available_copies + 1, updated_at = NOW()
WHERE id = $1 AND available_copies < total_copies
RETURNING ` + bookColumns

func (q *Queries) ReleaseBookCopy(ctx context.Context, id int32) (Book, error) {
	return scanBook(q.db.QueryRow(ctx, releaseBookCopy, id))
}

const adjustBookStock = `-- name: AdjustBookStock :one
UPDATE books
SET total_copies = total_copies + $2,
    available_copies = available_copies + $2,
    updated_at = NOW()
WHERE id = $1 AND available_copies + $2 >= 0
RETURNING ` + bookColumns

type AdjustBookStockParams struct {
	ID    int32 `json:"id"`
	Delta int32 `json:"delta"`
}

func (q *Queries) AdjustBookStock(ctx context.Context, arg AdjustBookStockParams) (Book, error) {
	return scanBook(q.db.QueryRow(ctx, adjustBookStock, arg.ID, arg.Delta))
}

const countOpenBookIssuesByBook = `-- name: CountOpenBookIssuesByBook :one
SELECT COUNT(*) FROM book_issues WHERE book_id = $1 AND status <> 'returned'`

func (q *Queries) CountOpenBookIssuesByBook(ctx context.Context, bookID int32) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countOpenBookIssuesByBook, bookID).Scan(&count)
	return count, err
}

type ListBooksParams struct {
	ActiveOnly bool        `json:"active_only"`
	Search     pgtype.Text `json:"search"`
	Limit      int32       `json:"limit"`
	Offset     int32       `json:"offset"`
}

func (q *Queries) ListBooks(ctx context.Context, arg ListBooksParams) ([]Book, error) {
	ds := selectFrom("books", bookColumns).Order(goqu.I("id").Asc())
	ds = page(ds, arg.Limit, arg.Offset)
	if arg.ActiveOnly {
		ds = ds.Where(goqu.C("is_active").IsTrue())
	}
	if arg.Search.Valid && arg.Search.String != "" {
		pattern := "%" + arg.Search.String + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
			goqu.C("isbn").ILike(pattern),
		))
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

	items := []Book{}
	for rows.Next() {
		i, err := scanBook(rows)
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
