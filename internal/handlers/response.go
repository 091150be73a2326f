package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ngenohkevin/lms-circulation/internal/models"
	"github.com/ngenohkevin/lms-circulation/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ListResponse represents a paginated list response
type ListResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    interface{} `json:"meta,omitempty"`
}

// PageMeta echoes the paging window of a list
type PageMeta struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
	Count  int   `json:"count"`
}

// ConfigureBinding makes gin reject unknown JSON fields and registers the
// circulation validation tags. Call it once before building the router.
func ConfigureBinding() error {
	binding.EnableDecoderDisallowUnknownFields = true
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return models.RegisterValidators(v)
}

// errorStatus maps a service error onto its HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, services.ErrUnavailable):
		return http.StatusBadRequest, "UNAVAILABLE"
	case errors.Is(err, services.ErrInvalidState):
		return http.StatusBadRequest, "INVALID_STATE"
	case errors.Is(err, services.ErrInsufficientStock):
		return http.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, services.ErrDuplicateTransaction):
		return http.StatusBadRequest, "DUPLICATE_TRANSACTION"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// respondError writes the error envelope for a service failure. Internal
// errors are reported with fallback so driver details do not leak.
func respondError(c *gin.Context, err error, fallback string) {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = fallback
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request data",
			Details: err.Error(),
		},
	})
}

func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: message,
		},
	})
}

// queryID reads a positive int32 query parameter such as ?id=.
func queryID(c *gin.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 32)
	if err != nil || id <= 0 {
		respondValidation(c, "Invalid or missing "+name)
		return 0, false
	}
	return int32(id), true
}

// paramID reads a positive int32 path parameter.
func paramID(c *gin.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		respondValidation(c, "Invalid "+name)
		return 0, false
	}
	return int32(id), true
}
