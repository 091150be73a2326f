package queries

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"
)

const studentColumns = `id, student_code, full_name, email, is_active, created_at`

func scanStudent(row rowScanner) (Student, error) {
	var i Student
	err := row.Scan(
		&i.ID,
		&i.StudentCode,
		&i.FullName,
		&i.Email,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const createStudent = `-- name: CreateStudent :one
INSERT INTO students (student_code, full_name, email)
VALUES ($1, $2, $3)
RETURNING ` + studentColumns

type CreateStudentParams struct {
	StudentCode string      `json:"student_code"`
	FullName    string      `json:"full_name"`
	Email       pgtype.Text `json:"email"`
}

func (q *Queries) CreateStudent(ctx context.Context, arg CreateStudentParams) (Student, error) {
	return scanStudent(q.db.QueryRow(ctx, createStudent, arg.StudentCode, arg.FullName, arg.Email))
}

const getStudentByID = `-- name: GetStudentByID :one
SELECT ` + studentColumns + ` FROM students WHERE id = $1`

func (q *Queries) GetStudentByID(ctx context.Context, id int32) (Student, error) {
	return scanStudent(q.db.QueryRow(ctx, getStudentByID, id))
}

type ListStudentsParams struct {
	Search pgtype.Text `json:"search"`
	Limit  int32       `json:"limit"`
	Offset int32       `json:"offset"`
}

func (q *Queries) ListStudents(ctx context.Context, arg ListStudentsParams) ([]Student, error) {
	ds := selectFrom("students", studentColumns).Order(goqu.I("id").Asc())
	ds = page(ds, arg.Limit, arg.Offset)
	if arg.Search.Valid && arg.Search.String != "" {
		pattern := "%" + arg.Search.String + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("full_name").ILike(pattern),
			goqu.C("student_code").ILike(pattern),
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

	items := []Student{}
	for rows.Next() {
		i, err := scanStudent(rows)
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
