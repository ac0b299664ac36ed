package file

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/abduss/docstore/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for form fields and part headers above the file ceiling.
const multipartOverhead = 1 << 20

// RegisterRoutes mounts the file API under the provided router group. Guards run before
// every route that changes state.
func RegisterRoutes(group *gin.RouterGroup, service *Service, maxUploadBytes int64, guards ...gin.HandlerFunc) {
	handler := &httpHandler{service: service, maxUploadBytes: maxUploadBytes}

	files := group.Group("/files")
	files.GET("", handler.listFiles)
	files.GET("/search", handler.searchFiles)
	files.GET("/by-name", handler.getByName)
	files.GET("/:id", handler.downloadFile)
	files.GET("/:id/metadata", handler.getMetadata)

	write := files.Group("", guards...)
	write.POST("/upload", handler.uploadFile)
	write.PUT("/:id/changeName", handler.renameFile)
	write.PUT("/:id/update", handler.replaceFile)
	write.DELETE("/:id/delete", handler.deleteFile)
	write.POST("/statistic", handler.generateStatistics)
}

type httpHandler struct {
	service        *Service
	maxUploadBytes int64
}

type envelope struct {
	Success bool       `json:"success"`
	Body    any        `json:"body,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type renameRequest struct {
	Name        string `form:"name" binding:"required,max=100"`
	Description string `form:"description"`
}

func (h *httpHandler) listFiles(c *gin.Context) {
	field, order := c.Query("sortField"), c.Query("sortOrder")

	var (
		list []Response
		err  error
	)
	if field == "" && order == "" {
		list, err = h.service.List(c.Request.Context())
	} else {
		list, err = h.service.ListSorted(c.Request.Context(), field, order)
	}
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, list)
}

func (h *httpHandler) searchFiles(c *gin.Context) {
	list, err := h.service.Search(c.Request.Context(),
		c.Query("searchRequest"),
		c.DefaultQuery("sortField", DefaultSort.Field),
		c.DefaultQuery("sortOrder", string(DefaultSort.Direction)),
	)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, list)
}

func (h *httpHandler) getByName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		RespondError(c, validationError("get by name", "name query parameter is required"))
		return
	}

	meta, err := h.service.GetMetadataByName(c.Request.Context(), name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, meta)
}

func (h *httpHandler) getMetadata(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	meta, err := h.service.GetMetadata(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, meta)
}

func (h *httpHandler) downloadFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	dl, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", ContentDisposition(dl.Name))
	c.Header("Content-Length", strconv.FormatInt(dl.Size, 10))
	c.Data(http.StatusOK, defaultMediaType, dl.Data)
}

func (h *httpHandler) uploadFile(c *gin.Context) {
	fileHeader, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	id, err := h.service.Upload(c.Request.Context(), UploadInput{
		Filename:    fileHeader.Filename,
		MediaType:   fileHeader.Header.Get("Content-Type"),
		Description: c.PostForm("description"),
		Data:        data,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	RespondOK(c, http.StatusCreated, gin.H{
		"id":      id.String(),
		"message": fmt.Sprintf("Файл успешно загружен: %s", fileHeader.Filename),
	})
}

func (h *httpHandler) renameFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req renameRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, validationError("rename", "%v", err))
		return
	}

	if err := h.service.Rename(c.Request.Context(), id, req.Name, req.Description); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, fmt.Sprintf("Имя файла успешно изменено: %s", req.Name))
}

func (h *httpHandler) replaceFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fileHeader, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	err := h.service.ReplaceContent(c.Request.Context(), id, ReplaceInput{
		Filename:    fileHeader.Filename,
		MediaType:   fileHeader.Header.Get("Content-Type"),
		Description: c.PostForm("description"),
		Data:        data,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, fmt.Sprintf("Файл успешно обновлен: %s", fileHeader.Filename))
}

func (h *httpHandler) deleteFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Файл успешно удален")
}

func (h *httpHandler) generateStatistics(c *gin.Context) {
	start, err := time.ParseInLocation(time.DateOnly, c.Query("startDate"), time.Local)
	if err != nil {
		RespondError(c, validationError("statistics", "invalid startDate: %v", err))
		return
	}
	end, err := time.ParseInLocation(time.DateOnly, c.Query("endDate"), time.Local)
	if err != nil {
		RespondError(c, validationError("statistics", "invalid endDate: %v", err))
		return
	}

	id, err := h.service.GenerateStatistics(c.Request.Context(), start, end)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, http.StatusCreated, gin.H{
		"id":      id.String(),
		"message": "Документ со статистикой успешно сгенерирован",
	})
}

// readUpload reads the "file" multipart field into memory, enforcing the upload ceiling.
func (h *httpHandler) readUpload(c *gin.Context) (*multipart.FileHeader, []byte, bool) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, newError(KindTooLarge, "upload", err))
			return nil, nil, false
		}
		RespondError(c, validationError("upload", "file field is required"))
		return nil, nil, false
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		RespondError(c, newError(KindTooLarge, "upload", nil))
		return nil, nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, validationError("upload", "open upload: %v", err))
		return nil, nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, validationError("upload", "read upload: %v", err))
		return nil, nil, false
	}
	return fileHeader, data, true
}

// ContentDisposition builds an attachment header; non-ASCII names use RFC 2231 encoding.
func ContentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, validationError("parse id", "invalid file id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// RespondOK writes a successful envelope.
func RespondOK(c *gin.Context, status int, body any) {
	c.JSON(status, envelope{Success: true, Body: body})
}

// RespondError maps err to its kind and status and writes the failure envelope.
func RespondError(c *gin.Context, err error) {
	kind := KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c).Error("file request failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, envelope{
		Success: false,
		Error: &errorBody{
			Code:  string(kind),
			Title: kind.Title(),
			Text:  kind.Text(),
		},
	})
}

func statusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidName, KindMustBeSame, KindValidation:
		return http.StatusBadRequest
	case KindNameExists:
		return http.StatusConflict
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
