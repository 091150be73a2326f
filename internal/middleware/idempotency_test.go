package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	redisClient := setupRedisClient(t)

	status := http.StatusOK
	router := gin.New()
	router.Use(RequestID(), Idempotency(redisClient, time.Minute))
	router.POST("/book-issue", func(c *gin.Context) {
		c.Status(status)
	})

	send := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/book-issue", nil)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("replay is refused", func(t *testing.T) {
		key := uuid.New().String()
		assert.Equal(t, http.StatusOK, send(key))
		assert.Equal(t, http.StatusConflict, send(key))
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		key := uuid.New().String()
		status = http.StatusBadRequest
		assert.Equal(t, http.StatusBadRequest, send(key))
		status = http.StatusOK
		assert.Equal(t, http.StatusOK, send(key))
	})

	t.Run("requests without a key pass", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send(""))
		assert.Equal(t, http.StatusOK, send(""))
	})
}

func TestIdempotency_WithoutRedisPasses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Idempotency(nil, time.Minute))
	router.POST("/x", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set(IdempotencyKeyHeader, "same")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
