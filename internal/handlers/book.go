package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/lms-circulation/internal/models"
)

// BookServiceInterface defines the catalog operations the handler needs
type BookServiceInterface interface {
	CreateBook(ctx context.Context, req models.CreateBookRequest) (*models.BookResponse, error)
	GetBookByID(ctx context.Context, id int32) (*models.BookResponse, error)
	DeactivateBook(ctx context.Context, id int32) (*models.BookResponse, error)
	ListBooks(ctx context.Context, query models.BookListQuery) ([]models.BookResponse, error)
	Inventory(ctx context.Context, id int32) (*models.BookInventoryResponse, error)
}

// BookHandler handles book-related HTTP requests
type BookHandler struct {
	bookService BookServiceInterface
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService BookServiceInterface) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// CreateBook creates a new book
// @Summary Create a new book
// @Description Add a title with all of its copies on the shelf
// @Tags books
// @Accept json
// @Produce json
// @Param book body models.CreateBookRequest true "Book data"
// @Success 201 {object} SuccessResponse{data=models.BookResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req models.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create book")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Data:    book,
		Message: "Book created successfully",
	})
}

// GetBook retrieves a book by ID
// @Summary Get a book by ID
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} SuccessResponse{data=models.BookResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.GetBookByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve book")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    book,
	})
}

// DeactivateBook stops new loans of a book
// @Summary Deactivate a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} SuccessResponse{data=models.BookResponse}
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/books/{id} [delete]
func (h *BookHandler) DeactivateBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.DeactivateBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to deactivate book")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    book,
		Message: "Book deactivated successfully",
	})
}

// ListBooks lists books with optional search
// @Summary List books
// @Tags books
// @Produce json
// @Param search query string false "Title, author or ISBN"
// @Param active_only query bool false "Hide deactivated books"
// @Param limit query int false "Items per page" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse{data=[]models.BookResponse}
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var query models.BookListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	books, err := h.bookService.ListBooks(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to retrieve books")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    books,
		Meta:    PageMeta{Limit: query.Limit, Offset: query.Offset, Count: len(books)},
	})
}

// Inventory reports the copy counters of a book against its open loans
// @Summary Book inventory
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} SuccessResponse{data=models.BookInventoryResponse}
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/books/{id}/inventory [get]
func (h *BookHandler) Inventory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	report, err := h.bookService.Inventory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to compute inventory")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    report,
	})
}
