package middleware

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/lms-circulation/internal/models"
	"github.com/ngenohkevin/lms-circulation/internal/services"
)

type AuthMiddleware struct {
	authService *services.AuthService
}

func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "MISSING_AUTH_HEADER", "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be in format 'Bearer <token>'")
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		// Set user information in context
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)
		c.Set("user_type", claims.UserType)
		c.Set("claims", claims)

		c.Next()
	}
}

func (m *AuthMiddleware) RequireRole(allowedRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			abort(c, http.StatusUnauthorized, "MISSING_USER_ROLE", "User role not found in context")
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			abort(c, http.StatusInternalServerError, "INVALID_ROLE_TYPE", "Invalid role type in context")
			return
		}

		if GetUserType(c) == models.UserTypeStudent {
			abort(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "Insufficient permissions to access this resource")
			return
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "Insufficient permissions to access this resource")
	}
}

// RequireLibrarian admits desk staff: every circulation write goes through it.
func (m *AuthMiddleware) RequireLibrarian() gin.HandlerFunc {
	return m.RequireRole(models.RoleAdmin, models.RoleLibrarian, models.RoleStaff)
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(models.RoleAdmin)
}

// RequireStudent admits student tokens only, for the self-service routes.
// The user id must fit a student id column.
func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetUserID(c)
		if GetUserType(c) != models.UserTypeStudent || id <= 0 || id > math.MaxInt32 {
			abort(c, http.StatusForbidden, "STUDENT_ONLY", "This resource is only available to students")
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func GetUserID(c *gin.Context) int {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0
	}

	if id, ok := userID.(int); ok {
		return id
	}

	return 0
}

func GetUsername(c *gin.Context) string {
	username, exists := c.Get("username")
	if !exists {
		return ""
	}

	if name, ok := username.(string); ok {
		return name
	}

	return ""
}

func GetUserRole(c *gin.Context) models.UserRole {
	userRole, exists := c.Get("user_role")
	if !exists {
		return ""
	}

	if role, ok := userRole.(models.UserRole); ok {
		return role
	}

	return ""
}

func GetUserType(c *gin.Context) string {
	userType, exists := c.Get("user_type")
	if !exists {
		return ""
	}

	if uType, ok := userType.(string); ok {
		return uType
	}

	return ""
}
