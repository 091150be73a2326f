package queries

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Book struct {
	ID              int32              `json:"id"`
	Isbn            pgtype.Text        `json:"isbn"`
	Title           string             `json:"title"`
	Author          string             `json:"author"`
	CourseID        pgtype.Int4        `json:"course_id"`
	SubjectID       pgtype.Int4        `json:"subject_id"`
	PublicationID   pgtype.Int4        `json:"publication_id"`
	TotalCopies     int32              `json:"total_copies"`
	AvailableCopies int32              `json:"available_copies"`
	IsActive        bool               `json:"is_active"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type Student struct {
	ID          int32              `json:"id"`
	StudentCode string             `json:"student_code"`
	FullName    string             `json:"full_name"`
	Email       pgtype.Text        `json:"email"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type BookIssue struct {
	ID           int32              `json:"id"`
	BookID       int32              `json:"book_id"`
	StudentID    int32              `json:"student_id"`
	IssueDate    pgtype.Timestamptz `json:"issue_date"`
	DueDate      pgtype.Timestamptz `json:"due_date"`
	ReturnDate   pgtype.Timestamptz `json:"return_date"`
	Status       string             `json:"status"`
	Remarks      pgtype.Text        `json:"remarks"`
	IsRenewed    bool               `json:"is_renewed"`
	RenewalCount int32              `json:"renewal_count"`
	CreatedBy    string             `json:"created_by"`
	CreatedOn    pgtype.Timestamptz `json:"created_on"`
	ModifiedBy   pgtype.Text        `json:"modified_by"`
	ModifiedOn   pgtype.Timestamptz `json:"modified_on"`
}

type Penalty struct {
	ID         int32              `json:"id"`
	IssueID    int32              `json:"issue_id"`
	StudentID  int32              `json:"student_id"`
	Amount     pgtype.Numeric     `json:"amount"`
	Status     string             `json:"status"`
	Remarks    pgtype.Text        `json:"remarks"`
	CreatedBy  string             `json:"created_by"`
	CreatedOn  pgtype.Timestamptz `json:"created_on"`
	ModifiedBy pgtype.Text        `json:"modified_by"`
	ModifiedOn pgtype.Timestamptz `json:"modified_on"`
}

type LibraryPayment struct {
	ID            int32              `json:"id"`
	IssueID       int32              `json:"issue_id"`
	StudentID     int32              `json:"student_id"`
	AmountPaid    pgtype.Numeric     `json:"amount_paid"`
	PaymentMode   string             `json:"payment_mode"`
	TransactionID pgtype.Text        `json:"transaction_id"`
	ReceivedBy    string             `json:"received_by"`
	CreatedBy     string             `json:"created_by"`
	CreatedOn     pgtype.Timestamptz `json:"created_on"`
}

type BookStockHistory struct {
	ID          int32              `json:"id"`
	BookID      int32              `json:"book_id"`
	CopiesAdded int32              `json:"copies_added"`
	Remarks     pgtype.Text        `json:"remarks"`
	CreatedBy   string             `json:"created_by"`
	CreatedOn   pgtype.Timestamptz `json:"created_on"`
	ModifiedBy  pgtype.Text        `json:"modified_by"`
	ModifiedOn  pgtype.Timestamptz `json:"modified_on"`
}
