package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		keys map[string]any
		want string
	}{
		{name: "username wins", keys: map[string]any{"username": "jdoe", "user_id": 4}, want: "jdoe"},
		{name: "falls back to type and id", keys: map[string]any{"user_id": 4, "user_type": "student"}, want: "student:4"},
		{name: "unauthenticated", keys: map[string]any{}, want: "system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			for k, v := range tt.keys {
				c.Set(k, v)
			}
			assert.Equal(t, tt.want, Actor(c))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(c))

	c.Request.Header.Del("X-Forwarded-For")
	c.Request.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getClientIP(c))
}
