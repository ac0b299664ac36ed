package auth

import (
	"errors"
	"net/http"

	"github.com/abduss/docstore/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterRoutes mounts authentication endpoints under /auth.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/token", handler.token)
	}
}

type httpHandler struct {
	service *Service
}

type tokenRequest struct {
	ClientID     string `json:"client_id" form:"client_id" binding:"required,uuid"`
	ClientSecret string `json:"client_secret" form:"client_secret" binding:"required,max=72"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *httpHandler) token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": "CLIENT_ERROR", "title": "Ошибка в запросе", "text": err.Error()}})
		return
	}

	token, err := h.service.IssueToken(c.Request.Context(), uuid.MustParse(req.ClientID), req.ClientSecret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			abortUnauthorized(c, "Неверный идентификатор клиента или секрет")
			return
		}
		logger.FromContext(c).Error("issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"code": "DB_ERROR", "title": "Ошибка базы данных", "text": "Не удалось выдать токен"}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"body": tokenResponse{
			AccessToken: token.Token,
			TokenType:   "Bearer",
			ExpiresAt:   token.ExpiresAt.Unix(),
			ExpiresIn:   int64(token.ExpiresAt.Sub(h.service.nowFunc()).Seconds()),
		},
	})
}
