package presigned

import (
	"fmt"
	"net/http"
	"time"

	"github.com/abduss/docstore/internal/file"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	presignedService *Service
}

func NewHandler(ps *Service) *Handler {
	return &Handler{presignedService: ps}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/files/:id/link", h.GenerateDownloadURL)
}

func (h *Handler) GenerateDownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		file.RespondError(c, &file.Error{Kind: file.KindValidation, Op: "presign", Err: fmt.Errorf("invalid file id %q", c.Param("id"))})
		return
	}

	var ttl time.Duration
	if ttlParam := c.Query("ttl"); ttlParam != "" {
		ttl, err = time.ParseDuration(ttlParam)
		if err != nil {
			file.RespondError(c, &file.Error{Kind: file.KindValidation, Op: "presign", Err: fmt.Errorf("invalid ttl: %w", err)})
			return
		}
	}

	link, err := h.presignedService.DownloadURL(c.Request.Context(), id, ttl)
	if err != nil {
		file.RespondError(c, err)
		return
	}
	file.RespondOK(c, http.StatusOK, link)
}
