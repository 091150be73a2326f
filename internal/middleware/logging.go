package middleware

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func Logger() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: io.Discard,
		Formatter: func(param gin.LogFormatterParams) string {
			attrs := []any{
				slog.String("method", param.Method),
				slog.String("path", param.Path),
				slog.Int("status", param.StatusCode),
				slog.Duration("latency", param.Latency),
				slog.String("client_ip", param.ClientIP),
				slog.String("user_agent", param.Request.UserAgent()),
				slog.Int("body_size", param.BodySize),
			}
			if id, ok := param.Keys["request_id"].(string); ok {
				attrs = append(attrs, slog.String("request_id", id))
			}
			if user, ok := param.Keys["username"].(string); ok {
				attrs = append(attrs, slog.String("actor", user))
			}

			switch {
			case param.StatusCode >= 500:
				slog.Default().Error("HTTP Request", attrs...)
			default:
				slog.Default().Info("HTTP Request", attrs...)
			}
			return ""
		},
	})
}

func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Default().Error("Panic recovered",
			slog.Any("error", recovered),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", getClientIP(c)),
			slog.String("request_id", GetRequestID(c)),
		)

		c.AbortWithStatusJSON(500, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Internal server error",
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
