package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/ngenohkevin/lms-circulation/internal/database"
	"github.com/ngenohkevin/lms-circulation/internal/database/queries"
)

// memStore is an in-memory database.Store. ExecTx serializes transactions,
// standing in for the row locks, and restores a snapshot when fn fails. The
// guarded updates return pgx.ErrNoRows exactly where the SQL WHERE clauses
// would match nothing, and unique indexes surface as 23505.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data memData

	// failures makes the named query fail, to exercise rollbacks.
	failures map[string]error
}

type memData struct {
	nextID    int32
	books     map[int32]queries.Book
	students  map[int32]queries.Student
	issues    map[int32]queries.BookIssue
	penalties map[int32]queries.Penalty
	payments  map[int32]queries.LibraryPayment
	history   map[int32]queries.BookStockHistory
}

var _ database.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		data: memData{
			books:     map[int32]queries.Book{},
			students:  map[int32]queries.Student{},
			issues:    map[int32]queries.BookIssue{},
			penalties: map[int32]queries.Penalty{},
			payments:  map[int32]queries.LibraryPayment{},
			history:   map[int32]queries.BookStockHistory{},
		},
		failures: map[string]error{},
	}
}

func (d memData) clone() memData {
	c := memData{
		nextID:    d.nextID,
		books:     make(map[int32]queries.Book, len(d.books)),
		students:  make(map[int32]queries.Student, len(d.students)),
		issues:    make(map[int32]queries.BookIssue, len(d.issues)),
		penalties: make(map[int32]queries.Penalty, len(d.penalties)),
		payments:  make(map[int32]queries.LibraryPayment, len(d.payments)),
		history:   make(map[int32]queries.BookStockHistory, len(d.history)),
	}
	for k, v := range d.books {
		c.books[k] = v
	}
	for k, v := range d.students {
		c.students[k] = v
	}
	for k, v := range d.issues {
		c.issues[k] = v
	}
	for k, v := range d.penalties {
		c.penalties[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	for k, v := range d.history {
		c.history[k] = v
	}
	return c
}

func (s *memStore) ExecTx(ctx context.Context, fn func(q queries.Querier) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) id() int32 {
	s.data.nextID++
	return s.data.nextID
}

func (s *memStore) failure(name string) error {
	return s.failures[name]
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func nowTz() pgtype.Timestamptz {
	return queries.Timestamptz(time.Now())
}

// Seeding helpers.

func (s *memStore) seedBook(total, available int32, active bool) queries.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := queries.Book{
		ID:              s.id(),
		Title:           "Book",
		Author:          "Author",
		TotalCopies:     total,
		AvailableCopies: available,
		IsActive:        active,
		CreatedAt:       nowTz(),
		UpdatedAt:       nowTz(),
	}
	s.data.books[b.ID] = b
	return b
}

func (s *memStore) seedStudent(active bool) queries.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := queries.Student{
		ID:        s.id(),
		FullName:  "Student",
		IsActive:  active,
		CreatedAt: nowTz(),
	}
	st.StudentCode = "STU" + string(rune('A'+st.ID%26))
	s.data.students[st.ID] = st
	return st
}

func (s *memStore) book(id int32) queries.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.books[id]
}

func (s *memStore) issue(id int32) (queries.BookIssue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.data.issues[id]
	return i, ok
}

func (s *memStore) openLoans(bookID int32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, i := range s.data.issues {
		if i.BookID == bookID && i.Status != "returned" {
			n++
		}
	}
	return n
}

func (s *memStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.payments)
}

// Books

func (s *memStore) CreateBook(ctx context.Context, arg queries.CreateBookParams) (queries.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if arg.Isbn.Valid {
		for _, b := range s.data.books {
			if b.Isbn.Valid && b.Isbn.String == arg.Isbn.String {
				return queries.Book{}, uniqueViolation("books_isbn_key")
			}
		}
	}
	b := queries.Book{
		ID:              s.id(),
		Isbn:            arg.Isbn,
		Title:           arg.Title,
		Author:          arg.Author,
		CourseID:        arg.CourseID,
		SubjectID:       arg.SubjectID,
		PublicationID:   arg.PublicationID,
		TotalCopies:     arg.TotalCopies,
		AvailableCopies: arg.TotalCopies,
		IsActive:        true,
		CreatedAt:       nowTz(),
		UpdatedAt:       nowTz(),
	}
	s.data.books[b.ID] = b
	return b, nil
}

func (s *memStore) GetBookByID(ctx context.Context, id int32) (queries.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.books[id]
	if !ok {
		return queries.Book{}, pgx.ErrNoRows
	}
	return b, nil
}

func (s *memStore) GetBookByIDForUpdate(ctx context.Context, id int32) (queries.Book, error) {
	return s.GetBookByID(ctx, id)
}

func (s *memStore) DeactivateBook(ctx context.Context, id int32) (queries.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.books[id]
	if !ok {
		return queries.Book{}, pgx.ErrNoRows
	}
	b.IsActive = false
	s.data.books[id] = b
	return b, nil
}

func (s *memStore) ReserveBookCopy(ctx context.Context, id int32) (queries.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.books[id]
	if !ok || !b.IsActive || b.AvailableCopies <= 0 {
		return queries.Book{}, pgx.ErrNoRows
	}
	b.AvailableCopies--
	s.data.books[id] = b
	return b, nil
}

func (s *memStore) ReleaseBookCopy(ctx context.Context, id int32) (queries.Book, error) {
	if err := s.failure("ReleaseBookCopy"); err != nil {
		return queries.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.books[id]
	if !ok || b.AvailableCopies >= b.TotalCopies {
		return queries.Book{}, pgx.ErrNoRows
	}
	b.AvailableCopies++
	s.data.books[id] = b
	return b, nil
}

func (s *memStore) AdjustBookStock(ctx context.Context, arg queries.AdjustBookStockParams) (queries.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.books[arg.ID]
	if !ok || b.AvailableCopies+arg.Delta < 0 {
		return queries.Book{}, pgx.ErrNoRows
	}
	b.TotalCopies += arg.Delta
	b.AvailableCopies += arg.Delta
	s.data.books[arg.ID] = b
	return b, nil
}

func (s *memStore) CountOpenBookIssuesByBook(ctx context.Context, bookID int32) (int64, error) {
	return int64(s.openLoans(bookID)), nil
}

func (s *memStore) ListBooks(ctx context.Context, arg queries.ListBooksParams) ([]queries.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []queries.Book{}
	for _, b := range s.data.books {
		if arg.ActiveOnly && !b.IsActive {
			continue
		}
		if arg.Search.Valid && !strings.Contains(strings.ToLower(b.Title+" "+b.Author), strings.ToLower(arg.Search.String)) {
			continue
		}
		items = append(items, b)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return paginate(items, arg.Limit, arg.Offset), nil
}

// Students

func (s *memStore) CreateStudent(ctx context.Context, arg queries.CreateStudentParams) (queries.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.data.students {
		if st.StudentCode == arg.StudentCode {
			return queries.Student{}, uniqueViolation("students_student_code_key")
		}
	}
	st := queries.Student{
		ID:          s.id(),
		StudentCode: arg.StudentCode,
		FullName:    arg.FullName,
		Email:       arg.Email,
		IsActive:    true,
		CreatedAt:   nowTz(),
	}
	s.data.students[st.ID] = st
	return st, nil
}

func (s *memStore) GetStudentByID(ctx context.Context, id int32) (queries.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.data.students[id]
	if !ok {
		return queries.Student{}, pgx.ErrNoRows
	}
	return st, nil
}

func (s *memStore) ListStudents(ctx context.Context, arg queries.ListStudentsParams) ([]queries.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []queries.Student{}
	for _, st := range s.data.students {
		items = append(items, st)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return paginate(items, arg.Limit, arg.Offset), nil
}

// Loans

func (s *memStore) CreateBookIssue(ctx context.Context, arg queries.CreateBookIssueParams) (queries.BookIssue, error) {
	if err := s.failure("CreateBookIssue"); err != nil {
		return queries.BookIssue{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := queries.BookIssue{
		ID:        s.id(),
		BookID:    arg.BookID,
		StudentID: arg.StudentID,
		IssueDate: arg.IssueDate,
		DueDate:   arg.DueDate,
		Status:    "issued",
		Remarks:   arg.Remarks,
		CreatedBy: arg.CreatedBy,
		CreatedOn: arg.IssueDate,
	}
	s.data.issues[i.ID] = i
	return i, nil
}

func (s *memStore) GetBookIssueByID(ctx context.Context, id int32) (queries.BookIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.data.issues[id]
	if !ok {
		return queries.BookIssue{}, pgx.ErrNoRows
	}
	return i, nil
}

func (s *memStore) GetBookIssueByIDForUpdate(ctx context.Context, id int32) (queries.BookIssue, error) {
	return s.GetBookIssueByID(ctx, id)
}

func (s *memStore) RenewBookIssue(ctx context.Context, arg queries.RenewBookIssueParams) (queries.BookIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.data.issues[arg.ID]
	if !ok || i.Status == "returned" {
		return queries.BookIssue{}, pgx.ErrNoRows
	}
	i.DueDate = arg.DueDate
	i.Status = "renewed"
	i.IsRenewed = true
	i.RenewalCount++
	i.ModifiedBy = arg.ModifiedBy
	i.ModifiedOn = arg.ModifiedOn
	s.data.issues[arg.ID] = i
	return i, nil
}

func (s *memStore) ReturnBookIssue(ctx context.Context, arg queries.ReturnBookIssueParams) (queries.BookIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.data.issues[arg.ID]
	if !ok || i.Status == "returned" {
		return queries.BookIssue{}, pgx.ErrNoRows
	}
	i.ReturnDate = arg.ReturnDate
	i.Status = "returned"
	if arg.Remarks.Valid {
		i.Remarks = arg.Remarks
	}
	i.ModifiedBy = arg.ModifiedBy
	i.ModifiedOn = arg.ModifiedOn
	s.data.issues[arg.ID] = i
	return i, nil
}

func (s *memStore) ReissueBookIssue(ctx context.Context, arg queries.ReissueBookIssueParams) (queries.BookIssue, error) {
	if err := s.failure("ReissueBookIssue"); err != nil {
		return queries.BookIssue{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.data.issues[arg.ID]
	if !ok || i.Status == "returned" {
		return queries.BookIssue{}, pgx.ErrNoRows
	}
	i.BookID = arg.BookID
	i.StudentID = arg.StudentID
	i.IssueDate = arg.IssueDate
	i.DueDate = arg.DueDate
	i.Remarks = arg.Remarks
	i.Status = "issued"
	i.IsRenewed = false
	i.RenewalCount = 0
	i.ModifiedBy = arg.ModifiedBy
	i.ModifiedOn = arg.ModifiedOn
	s.data.issues[arg.ID] = i
	return i, nil
}

func (s *memStore) DeleteBookIssue(ctx context.Context, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.issues, id)
	return nil
}

func (s *memStore) ListBookIssues(ctx context.Context, arg queries.ListBookIssuesParams) ([]queries.BookIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []queries.BookIssue{}
	for _, i := range s.data.issues {
		if arg.StudentID.Valid && i.StudentID != arg.StudentID.Int32 {
			continue
		}
		if arg.BookID.Valid && i.BookID != arg.BookID.Int32 {
			continue
		}
		if arg.Status.Valid && i.Status != arg.Status.String {
			continue
		}
		if arg.OverdueAt.Valid && (i.Status == "returned" || !i.DueDate.Time.Before(arg.OverdueAt.Time)) {
			continue
		}
		items = append(items, i)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID > items[b].ID })
	return paginate(items, arg.Limit, arg.Offset), nil
}

// Penalties

func (s *memStore) CreatePenalty(ctx context.Context, arg queries.CreatePenaltyParams) (queries.Penalty, error) {
	if err := s.failure("CreatePenalty"); err != nil {
		return queries.Penalty{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.data.penalties {
		if p.IssueID == arg.IssueID {
			return queries.Penalty{}, uniqueViolation("penalties_issue_id_key")
		}
	}
	p := queries.Penalty{
		ID:        s.id(),
		IssueID:   arg.IssueID,
		StudentID: arg.StudentID,
		Amount:    arg.Amount,
		Status:    "unpaid",
		Remarks:   arg.Remarks,
		CreatedBy: arg.CreatedBy,
		CreatedOn: nowTz(),
	}
	s.data.penalties[p.ID] = p
	return p, nil
}

func (s *memStore) GetPenaltyByIssueID(ctx context.Context, issueID int32) (queries.Penalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.data.penalties {
		if p.IssueID == issueID {
			return p, nil
		}
	}
	return queries.Penalty{}, pgx.ErrNoRows
}

func (s *memStore) GetPenaltyByIssueIDForUpdate(ctx context.Context, issueID int32) (queries.Penalty, error) {
	return s.GetPenaltyByIssueID(ctx, issueID)
}

func (s *memStore) UpdatePenaltyAmount(ctx context.Context, arg queries.UpdatePenaltyAmountParams) (queries.Penalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.penalties[arg.ID]
	if !ok {
		return queries.Penalty{}, pgx.ErrNoRows
	}
	p.Amount = arg.Amount
	if arg.Remarks.Valid {
		p.Remarks = arg.Remarks
	}
	p.ModifiedBy = arg.ModifiedBy
	p.ModifiedOn = arg.ModifiedOn
	s.data.penalties[arg.ID] = p
	return p, nil
}

func (s *memStore) MarkPenaltyPaid(ctx context.Context, arg queries.MarkPenaltyPaidParams) (queries.Penalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.penalties[arg.ID]
	if !ok {
		return queries.Penalty{}, pgx.ErrNoRows
	}
	p.Status = "paid"
	p.ModifiedBy = arg.ModifiedBy
	p.ModifiedOn = arg.ModifiedOn
	s.data.penalties[arg.ID] = p
	return p, nil
}

func (s *memStore) ListPenalties(ctx context.Context, arg queries.ListPenaltiesParams) ([]queries.Penalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []queries.Penalty{}
	for _, p := range s.data.penalties {
		if arg.StudentID.Valid && p.StudentID != arg.StudentID.Int32 {
			continue
		}
		if arg.Status.Valid && p.Status != arg.Status.String {
			continue
		}
		items = append(items, p)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID > items[b].ID })
	return paginate(items, arg.Limit, arg.Offset), nil
}

// Payments

func (s *memStore) CreateLibraryPayment(ctx context.Context, arg queries.CreateLibraryPaymentParams) (queries.LibraryPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if arg.TransactionID.Valid {
		for _, p := range s.data.payments {
			if p.TransactionID.Valid && p.TransactionID.String == arg.TransactionID.String {
				return queries.LibraryPayment{}, uniqueViolation("library_payments_transaction_id_key")
			}
		}
	}
	p := queries.LibraryPayment{
		ID:            s.id(),
		IssueID:       arg.IssueID,
		StudentID:     arg.StudentID,
		AmountPaid:    arg.AmountPaid,
		PaymentMode:   arg.PaymentMode,
		TransactionID: arg.TransactionID,
		ReceivedBy:    arg.ReceivedBy,
		CreatedBy:     arg.CreatedBy,
		CreatedOn:     nowTz(),
	}
	s.data.payments[p.ID] = p
	return p, nil
}

func (s *memStore) SumPaymentsByIssueID(ctx context.Context, issueID int32) (pgtype.Numeric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, p := range s.data.payments {
		if p.IssueID == issueID {
			total = total.Add(queries.DecimalFromNumeric(p.AmountPaid))
		}
	}
	return queries.NumericFromDecimal(total), nil
}

func (s *memStore) CountPaymentsByIssueID(ctx context.Context, issueID int32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.data.payments {
		if p.IssueID == issueID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) TransactionIDExists(ctx context.Context, transactionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.data.payments {
		if p.TransactionID.Valid && p.TransactionID.String == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ListLibraryPayments(ctx context.Context, arg queries.ListLibraryPaymentsParams) ([]queries.LibraryPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []queries.LibraryPayment{}
	for _, p := range s.data.payments {
		if arg.IssueID.Valid && p.IssueID != arg.IssueID.Int32 {
			continue
		}
		if arg.StudentID.Valid && p.StudentID != arg.StudentID.Int32 {
			continue
		}
		items = append(items, p)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID > items[b].ID })
	return paginate(items, arg.Limit, arg.Offset), nil
}

// Stock history

func (s *memStore) CreateBookStockHistory(ctx context.Context, arg queries.CreateBookStockHistoryParams) (queries.BookStockHistory, error) {
	if err := s.failure("CreateBookStockHistory"); err != nil {
		return queries.BookStockHistory{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h := queries.BookStockHistory{
		ID:          s.id(),
		BookID:      arg.BookID,
		CopiesAdded: arg.CopiesAdded,
		Remarks:     arg.Remarks,
		CreatedBy:   arg.CreatedBy,
		CreatedOn:   nowTz(),
	}
	s.data.history[h.ID] = h
	return h, nil
}

func (s *memStore) GetBookStockHistoryByID(ctx context.Context, id int32) (queries.BookStockHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.data.history[id]
	if !ok {
		return queries.BookStockHistory{}, pgx.ErrNoRows
	}
	return h, nil
}

func (s *memStore) UpdateBookStockHistoryRemarks(ctx context.Context, arg queries.UpdateBookStockHistoryRemarksParams) (queries.BookStockHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.data.history[arg.ID]
	if !ok {
		return queries.BookStockHistory{}, pgx.ErrNoRows
	}
	h.Remarks = arg.Remarks
	h.ModifiedBy = arg.ModifiedBy
	h.ModifiedOn = arg.ModifiedOn
	s.data.history[arg.ID] = h
	return h, nil
}

func (s *memStore) ListBookStockHistory(ctx context.Context, arg queries.ListBookStockHistoryParams) ([]queries.BookStockHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []queries.BookStockHistory{}
	for _, h := range s.data.history {
		if arg.BookID.Valid && h.BookID != arg.BookID.Int32 {
			continue
		}
		items = append(items, h)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID < items[b].ID })
	return paginate(items, arg.Limit, arg.Offset), nil
}

func paginate[T any](items []T, limit, offset int32) []T {
	if offset > 0 {
		if int(offset) >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items
}
