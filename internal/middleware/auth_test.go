package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngenohkevin/lms-circulation/internal/models"
	"github.com/ngenohkevin/lms-circulation/internal/services"
)

// generateTestRSAKey generates a test RSA private key
func generateTestRSAKey(t *testing.T) string {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privateKeyPEM := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}

	return string(pem.EncodeToMemory(privateKeyPEM))
}

func createTestAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authService, err := services.NewAuthService(
		generateTestRSAKey(t),
		time.Hour,
		logger,
		nil, // Redis client not needed for middleware tests
	)
	require.NoError(t, err)
	return authService
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authService := createTestAuthService(t)
	middleware := NewAuthMiddleware(authService)

	validToken, err := authService.GenerateToken(1, "jdoe", models.RoleLibrarian, models.UserTypeStaff)
	require.NoError(t, err)
	foreignToken, err := createTestAuthService(t).GenerateToken(1, "jdoe", models.RoleLibrarian, models.UserTypeStaff)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing authorization header",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "MISSING_AUTH_HEADER",
		},
		{
			name:           "invalid authorization format",
			authHeader:     "Token " + validToken,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_AUTH_FORMAT",
		},
		{
			name:           "token signed by another key",
			authHeader:     "Bearer " + foreignToken,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_TOKEN",
		},
		{
			name:           "valid token",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(middleware.RequireAuth())
			router.GET("/protected", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"user_id":  GetUserID(c),
					"username": GetUsername(c),
					"role":     GetUserRole(c),
					"actor":    Actor(c),
				})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				return
			}

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, float64(1), body["user_id"])
			assert.Equal(t, "jdoe", body["actor"])
			assert.Equal(t, string(models.RoleLibrarian), body["role"])
		})
	}
}

func TestAuthMiddleware_Roles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authService := createTestAuthService(t)
	middleware := NewAuthMiddleware(authService)

	token := func(role models.UserRole, userType string) string {
		tok, err := authService.GenerateToken(9, "caller", role, userType)
		require.NoError(t, err)
		return tok
	}
	studentToken := func(id int) string {
		tok, err := authService.GenerateToken(id, "student", "", models.UserTypeStudent)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name           string
		guard          gin.HandlerFunc
		token          string
		expectedStatus int
	}{
		{name: "librarian passes librarian guard", guard: middleware.RequireLibrarian(), token: token(models.RoleLibrarian, models.UserTypeStaff), expectedStatus: http.StatusOK},
		{name: "staff passes librarian guard", guard: middleware.RequireLibrarian(), token: token(models.RoleStaff, models.UserTypeStaff), expectedStatus: http.StatusOK},
		{name: "student blocked by librarian guard", guard: middleware.RequireLibrarian(), token: token("", models.UserTypeStudent), expectedStatus: http.StatusForbidden},
		{name: "student token claiming a staff role blocked", guard: middleware.RequireLibrarian(), token: token(models.RoleAdmin, models.UserTypeStudent), expectedStatus: http.StatusForbidden},
		{name: "librarian blocked by admin guard", guard: middleware.RequireAdmin(), token: token(models.RoleLibrarian, models.UserTypeStaff), expectedStatus: http.StatusForbidden},
		{name: "student passes student guard", guard: middleware.RequireStudent(), token: token("", models.UserTypeStudent), expectedStatus: http.StatusOK},
		{name: "librarian blocked by student guard", guard: middleware.RequireStudent(), token: token(models.RoleLibrarian, models.UserTypeStaff), expectedStatus: http.StatusForbidden},
		{name: "largest student id passes student guard", guard: middleware.RequireStudent(), token: studentToken(math.MaxInt32), expectedStatus: http.StatusOK},
		{name: "student id beyond int32 blocked", guard: middleware.RequireStudent(), token: studentToken(math.MaxInt32 + 1), expectedStatus: http.StatusForbidden},
		{name: "zero student id blocked", guard: middleware.RequireStudent(), token: studentToken(0), expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/guarded", middleware.RequireAuth(), tt.guard, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
