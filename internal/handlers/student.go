package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/lms-circulation/internal/models"
)

type StudentServiceInterface interface {
	CreateStudent(ctx context.Context, req models.CreateStudentRequest) (*models.StudentResponse, error)
	GetStudentByID(ctx context.Context, id int32) (*models.StudentResponse, error)
	ListStudents(ctx context.Context, query models.StudentListQuery) ([]models.StudentResponse, error)
}

type StudentHandler struct {
	studentService StudentServiceInterface
}

func NewStudentHandler(studentService StudentServiceInterface) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// CreateStudent registers a borrower
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Param student body models.CreateStudentRequest true "Student data"
// @Success 201 {object} SuccessResponse{data=models.StudentResponse}
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create student")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Data:    student,
		Message: "Student created successfully",
	})
}

// GetStudent retrieves a student by ID
// @Summary Get a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} SuccessResponse{data=models.StudentResponse}
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	student, err := h.studentService.GetStudentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve student")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    student,
	})
}

// ListStudents lists borrowers
// @Summary List students
// @Tags students
// @Produce json
// @Param search query string false "Code or name"
// @Success 200 {object} ListResponse{data=[]models.StudentResponse}
// @Router /api/v1/students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var query models.StudentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	students, err := h.studentService.ListStudents(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to retrieve students")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    students,
		Meta:    PageMeta{Limit: query.Limit, Offset: query.Offset, Count: len(students)},
	})
}
