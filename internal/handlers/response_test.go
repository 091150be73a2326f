package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ngenohkevin/lms-circulation/internal/services"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{err: fmt.Errorf("%w: book", services.ErrNotFound), status: http.StatusNotFound, code: "NOT_FOUND"},
		{err: fmt.Errorf("%w: days", services.ErrValidation), status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{err: services.ErrUnavailable, status: http.StatusBadRequest, code: "UNAVAILABLE"},
		{err: services.ErrInvalidState, status: http.StatusBadRequest, code: "INVALID_STATE"},
		{err: services.ErrInsufficientStock, status: http.StatusBadRequest, code: "INSUFFICIENT_STOCK"},
		{err: services.ErrDuplicateTransaction, status: http.StatusBadRequest, code: "DUPLICATE_TRANSACTION"},
		{err: errors.New("connection reset"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestRespondError_HidesInternalMessage(t *testing.T) {
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		respondError(c, errors.New("pq: relation does not exist"), "Failed to load")
	})

	w := performRequest(router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, "Failed to load", detail.Message)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestConfigureBinding_RejectsUnknownFields(t *testing.T) {
	mockService := new(MockStockService)
	router := gin.New()
	router.POST("/stock", NewStockHandler(mockService).AdjustStock)

	w := performRequest(router, http.MethodPost, "/stock", map[string]interface{}{
		"book_id":      1,
		"copies_added": 2,
		"remarks":      "donation",
		"created_by":   "someone-else",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Code)
	mockService.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestQueryID(t *testing.T) {
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		id, ok := queryID(c, "id")
		if ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})

	for _, raw := range []string{"", "abc", "0", "-4", "99999999999"} {
		w := performRequest(router, http.MethodGet, "/?id="+raw, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id=%q", raw)
	}

	w := performRequest(router, http.MethodGet, "/?id=12", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":12}`, w.Body.String())
}
