package queries

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	AdjustBookStock(ctx context.Context, arg AdjustBookStockParams) (Book, error)
	CountOpenBookIssuesByBook(ctx context.Context, bookID int32) (int64, error)
	CountPaymentsByIssueID(ctx context.Context, issueID int32) (int64, error)
	CreateBook(ctx context.Context, arg CreateBookParams) (Book, error)
	CreateBookIssue(ctx context.Context, arg CreateBookIssueParams) (BookIssue, error)
	CreateBookStockHistory(ctx context.Context, arg CreateBookStockHistoryParams) (BookStockHistory, error)
	CreateLibraryPayment(ctx context.Context, arg CreateLibraryPaymentParams) (LibraryPayment, error)
	CreatePenalty(ctx context.Context, arg CreatePenaltyParams) (Penalty, error)
	CreateStudent(ctx context.Context, arg CreateStudentParams) (Student, error)
	DeactivateBook(ctx context.Context, id int32) (Book, error)
	DeleteBookIssue(ctx context.Context, id int32) error
	GetBookByID(ctx context.Context, id int32) (Book, error)
	GetBookByIDForUpdate(ctx context.Context, id int32) (Book, error)
	GetBookIssueByID(ctx context.Context, id int32) (BookIssue, error)
	GetBookIssueByIDForUpdate(ctx context.Context, id int32) (BookIssue, error)
	GetBookStockHistoryByID(ctx context.Context, id int32) (BookStockHistory, error)
	GetPenaltyByIssueID(ctx context.Context, issueID int32) (Penalty, error)
	GetPenaltyByIssueIDForUpdate(ctx context.Context, issueID int32) (Penalty, error)
	GetStudentByID(ctx context.Context, id int32) (Student, error)
	ListBookIssues(ctx context.Context, arg ListBookIssuesParams) ([]BookIssue, error)
	ListBookStockHistory(ctx context.Context, arg ListBookStockHistoryParams) ([]BookStockHistory, error)
	ListBooks(ctx context.Context, arg ListBooksParams) ([]Book, error)
	ListLibraryPayments(ctx context.Context, arg ListLibraryPaymentsParams) ([]LibraryPayment, error)
	ListPenalties(ctx context.Context, arg ListPenaltiesParams) ([]Penalty, error)
	ListStudents(ctx context.Context, arg ListStudentsParams) ([]Student, error)
	MarkPenaltyPaid(ctx context.Context, arg MarkPenaltyPaidParams) (Penalty, error)
	ReissueBookIssue(ctx context.Context, arg ReissueBookIssueParams) (BookIssue, error)
	ReleaseBookCopy(ctx context.Context, id int32) (Book, error)
	RenewBookIssue(ctx context.Context, arg RenewBookIssueParams) (BookIssue, error)
	ReserveBookCopy(ctx context.Context, id int32) (Book, error)
	ReturnBookIssue(ctx context.Context, arg ReturnBookIssueParams) (BookIssue, error)
	SumPaymentsByIssueID(ctx context.Context, issueID int32) (pgtype.Numeric, error)
	TransactionIDExists(ctx context.Context, transactionID string) (bool, error)
	UpdateBookStockHistoryRemarks(ctx context.Context, arg UpdateBookStockHistoryRemarksParams) (BookStockHistory, error)
	UpdatePenaltyAmount(ctx context.Context, arg UpdatePenaltyAmountParams) (Penalty, error)
}

var _ Querier = (*Queries)(nil)
