package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// Actor returns the name written to created_by, modified_by and received_by
// for the authenticated caller.
func Actor(c *gin.Context) string {
	if name := GetUsername(c); name != "" {
		return name
	}
	if id := GetUserID(c); id > 0 {
		return fmt.Sprintf("%s:%d", userTypeOrSystem(c), id)
	}
	return "system"
}

func userTypeOrSystem(c *gin.Context) string {
	if typ := GetUserType(c); typ != "" {
		return typ
	}
	return "system"
}

// getClientIP prefers the first hop of X-Forwarded-For, then X-Real-IP.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
