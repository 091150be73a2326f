package services

import (
	"context"
	"fmt"

	"github.com/ngenohkevin/lms-circulation/internal/database/queries"
	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// StudentQuerier defines the interface for student database operations
type StudentQuerier interface {
	CreateStudent(ctx context.Context, arg queries.CreateStudentParams) (queries.Student, error)
	GetStudentByID(ctx context.Context, id int32) (queries.Student, error)
	ListStudents(ctx context.Context, arg queries.ListStudentsParams) ([]queries.Student, error)
}

// StudentService manages the borrower records
type StudentService struct {
	queries StudentQuerier
}

func NewStudentService(queries StudentQuerier) *StudentService {
	return &StudentService{
		queries: queries,
	}
}

// CreateStudent registers a borrower
func (s *StudentService) CreateStudent(ctx context.Context, req models.CreateStudentRequest) (*models.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	student, err := s.queries.CreateStudent(ctx, queries.CreateStudentParams{
		StudentCode: req.StudentCode,
		FullName:    req.FullName,
		Email:       queries.OptionalText(req.Email),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, validationError("student code %s already exists", req.StudentCode)
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	resp := student.ToResponse()
	return &resp, nil
}

func (s *StudentService) GetStudentByID(ctx context.Context, id int32) (*models.StudentResponse, error) {
	student, err := s.queries.GetStudentByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student %d", id)
	}
	resp := student.ToResponse()
	return &resp, nil
}

func (s *StudentService) ListStudents(ctx context.Context, query models.StudentListQuery) ([]models.StudentResponse, error) {
	params := queries.ListStudentsParams{
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.Search != "" {
		params.Search = queries.Text(query.Search)
	}

	students, err := s.queries.ListStudents(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	resp := make([]models.StudentResponse, 0, len(students))
	for i := range students {
		resp = append(resp, students[i].ToResponse())
	}
	return resp, nil
}
