package models

import (
	"errors"
	"strings"
	"time"
)

// BookStatus is derived from the active flag and shelf count.
type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
	BookStatusInactive  BookStatus = "inactive"
)

// CreateBookRequest represents the request to add a title to the catalog
type CreateBookRequest struct {
	ISBN          *string `json:"isbn" binding:"omitempty,min=10,max=20"`
	Title         string  `json:"title" binding:"required,min=1,max=255"`
	Author        string  `json:"author" binding:"required,min=1,max=255"`
	CourseID      *int32  `json:"course_id" binding:"omitempty,min=1"`
	SubjectID     *int32  `json:"subject_id" binding:"omitempty,min=1"`
	PublicationID *int32  `json:"publication_id" binding:"omitempty,min=1"`
	TotalCopies   int32   `json:"total_copies" binding:"min=0"`
}

// BookListQuery holds the catalog list filters
type BookListQuery struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Limit      int32  `form:"limit,default=20" binding:"min=1,max=100"`
	Offset     int32  `form:"offset" binding:"min=0"`
}

// BookResponse represents the response for book operations
type BookResponse struct {
	ID              int32      `json:"id"`
	ISBN            *string    `json:"isbn"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	CourseID        *int32     `json:"course_id"`
	SubjectID       *int32     `json:"subject_id"`
	PublicationID   *int32     `json:"publication_id"`
	TotalCopies     int32      `json:"total_copies"`
	AvailableCopies int32      `json:"available_copies"`
	IsActive        bool       `json:"is_active"`
	Status          BookStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BookInventoryResponse reports the copy counters next to the open loan count.
// Consistent is false when total - available disagrees with the loans.
type BookInventoryResponse struct {
	BookID          int32 `json:"book_id"`
	TotalCopies     int32 `json:"total_copies"`
	AvailableCopies int32 `json:"available_copies"`
	OnLoan          int32 `json:"on_loan"`
	OpenLoans       int64 `json:"open_loans"`
	IsActive        bool  `json:"is_active"`
	Consistent      bool  `json:"consistent"`
}

// Validate normalizes and validates the CreateBookRequest
func (r *CreateBookRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required")
	}

	r.Author = strings.TrimSpace(r.Author)
	if r.Author == "" {
		return errors.New("author is required")
	}

	if r.ISBN != nil {
		isbn := strings.TrimSpace(*r.ISBN)
		if isbn == "" {
			r.ISBN = nil
		} else {
			if len(isbn) < 10 || len(isbn) > 20 {
				return errors.New("isbn must be between 10 and 20 characters")
			}
			r.ISBN = &isbn
		}
	}

	if r.TotalCopies < 0 {
		return errors.New("total_copies cannot be negative")
	}

	return nil
}

// StatusFor derives the catalog status shown to clients.
func StatusFor(isActive bool, availableCopies int32) BookStatus {
	switch {
	case !isActive:
		return BookStatusInactive
	case availableCopies > 0:
		return BookStatusAvailable
	default:
		return BookStatusBorrowed
	}
}
