package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// CreateStudentRequest represents the request to register a borrower
type CreateStudentRequest struct {
	StudentCode string  `json:"student_code" binding:"required,min=1,max=50"`
	FullName    string  `json:"full_name" binding:"required,min=1,max=255"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
}

// StudentListQuery holds the student list filters
type StudentListQuery struct {
	Search string `form:"search"`
	Limit  int32  `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int32  `form:"offset" binding:"min=0"`
}

type StudentResponse struct {
	ID          int32     `json:"id"`
	StudentCode string    `json:"student_code"`
	FullName    string    `json:"full_name"`
	Email       *string   `json:"email"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate normalizes and validates the CreateStudentRequest
func (r *CreateStudentRequest) Validate() error {
	r.StudentCode = strings.ToUpper(strings.TrimSpace(r.StudentCode))
	if r.StudentCode == "" {
		return errors.New("student_code is required")
	}

	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return errors.New("full_name is required")
	}

	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		if email == "" {
			r.Email = nil
		} else {
			if _, err := mail.ParseAddress(email); err != nil {
				return errors.New("invalid email format")
			}
			r.Email = &email
		}
	}

	return nil
}
