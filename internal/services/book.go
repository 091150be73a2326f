package services

import (
	"context"
	"fmt"

	"github.com/ngenohkevin/lms-circulation/internal/database/queries"
	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// BookQuerier defines the interface for book database operations
type BookQuerier interface {
	CreateBook(ctx context.Context, arg queries.CreateBookParams) (queries.Book, error)
	GetBookByID(ctx context.Context, id int32) (queries.Book, error)
	DeactivateBook(ctx context.Context, id int32) (queries.Book, error)
	ListBooks(ctx context.Context, arg queries.ListBooksParams) ([]queries.Book, error)
	CountOpenBookIssuesByBook(ctx context.Context, bookID int32) (int64, error)
}

// BookService handles the catalog records the circulation desk lends from
type BookService struct {
	querier BookQuerier
}

// NewBookService creates a new book service
func NewBookService(querier BookQuerier) *BookService {
	return &BookService{
		querier: querier,
	}
}

// CreateBook adds a title with all of its copies on the shelf
func (s *BookService) CreateBook(ctx context.Context, req models.CreateBookRequest) (*models.BookResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	book, err := s.querier.CreateBook(ctx, queries.CreateBookParams{
		Isbn:          queries.OptionalText(req.ISBN),
		Title:         req.Title,
		Author:        req.Author,
		CourseID:      queries.OptionalInt4(req.CourseID),
		SubjectID:     queries.OptionalInt4(req.SubjectID),
		PublicationID: queries.OptionalInt4(req.PublicationID),
		TotalCopies:   req.TotalCopies,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, validationError("book with this ISBN already exists")
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	resp := book.ToResponse()
	return &resp, nil
}

// GetBookByID retrieves a book by its ID
func (s *BookService) GetBookByID(ctx context.Context, id int32) (*models.BookResponse, error) {
	book, err := s.querier.GetBookByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "book %d", id)
	}
	resp := book.ToResponse()
	return &resp, nil
}

// DeactivateBook stops new loans of a title. Open loans can still be returned.
func (s *BookService) DeactivateBook(ctx context.Context, id int32) (*models.BookResponse, error) {
	book, err := s.querier.DeactivateBook(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "book %d", id)
	}
	resp := book.ToResponse()
	return &resp, nil
}

// ListBooks lists the catalog
func (s *BookService) ListBooks(ctx context.Context, query models.BookListQuery) ([]models.BookResponse, error) {
	params := queries.ListBooksParams{
		ActiveOnly: query.ActiveOnly,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	if query.Search != "" {
		params.Search = queries.Text(query.Search)
	}

	books, err := s.querier.ListBooks(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	resp := make([]models.BookResponse, 0, len(books))
	for i := range books {
		resp = append(resp, books[i].ToResponse())
	}
	return resp, nil
}

// Inventory compares the copy counters of a book with its open loans.
func (s *BookService) Inventory(ctx context.Context, id int32) (*models.BookInventoryResponse, error) {
	book, err := s.querier.GetBookByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "book %d", id)
	}

	open, err := s.querier.CountOpenBookIssuesByBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count open loans for book %d: %w", id, err)
	}

	onLoan := book.TotalCopies - book.AvailableCopies
	return &models.BookInventoryResponse{
		BookID:          book.ID,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
		OnLoan:          onLoan,
		OpenLoans:       open,
		IsActive:        book.IsActive,
		Consistent: book.AvailableCopies >= 0 &&
			book.AvailableCopies <= book.TotalCopies &&
			int64(onLoan) == open,
	}, nil
}
