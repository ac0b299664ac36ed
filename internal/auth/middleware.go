package auth

import (
	"net/http"
	"strings"

	"github.com/abduss/docstore/internal/logger"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates bearer tokens and records the authenticated client id for request logs.
func AuthMiddleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Отсутствует заголовок авторизации")
			return
		}

		token := extractBearerToken(authHeader)
		if token == "" {
			abortUnauthorized(c, "Неверный заголовок авторизации")
			return
		}

		claims, err := service.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "Токен недействителен или истек")
			return
		}

		c.Set(logger.ClientIDKey, claims.ClientID.String())
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, text string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":  "UNAUTHORIZED",
			"title": "Требуется авторизация",
			"text":  text,
		},
	})
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
