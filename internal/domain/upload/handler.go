package upload

import (
	"errors"
	"fmt"
	"net/http"

	"lodgecred/internal/domain/profile"
	"lodgecred/internal/middleware"
	"lodgecred/internal/pkg/response"
	"lodgecred/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler handles document uploads for the signed-in member.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /api/v1/upload (multipart: file, type)
func (h *Handler) Upload(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	// cap the whole multipart body, not just the file part
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 4*h.service.MaxBytes())

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(c, ErrFileTooLarge)
			return
		}
		fh = nil
	}

	url, err := h.service.Attach(c.Request.Context(), p.UserID, c.PostForm("type"), fh)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}

// History handles GET /api/v1/me/documents
func (h *Handler) History(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	docs, err := h.service.History(c.Request.Context(), p.UserID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list uploads")
		return
	}
	response.Success(c, http.StatusOK, docs)
}

// Document handles GET /api/v1/documents/*key for the owner or an admin.
func (h *Handler) Document(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	obj, err := h.service.Open(c.Request.Context(), p.UserID, p.IsAdmin(), c.Param("key"))
	if err != nil {
		switch {
		case errors.Is(err, ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Forbidden")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to open document")
		}
		return
	}
	storage.Serve(c.Writer, c.Request, obj)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusBadRequest, response.CodeValidation,
			fmt.Sprintf("File too large. Maximum size is %dMB.", h.service.MaxBytes()/(1024*1024)))
	case isValidationError(err):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, profile.ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", err.Error())
	}
}
