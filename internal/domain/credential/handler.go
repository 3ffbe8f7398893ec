package credential

import (
	"errors"
	"net/http"

	"lodgecred/internal/pkg/response"
	"lodgecred/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get handles GET /api/v1/credentials/:id
func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.Success(c, http.StatusOK, view)
}

// Document handles GET /api/v1/credentials/:id/documents/:kind?token=
func (h *Handler) Document(c *gin.Context) {
	obj, err := h.service.OpenDocument(c.Request.Context(), c.Param("id"), c.Param("kind"), c.Query("token"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	storage.Serve(c.Writer, c.Request, obj)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCredentialNotFound):
		response.Error(c, http.StatusNotFound, "CREDENTIAL_NOT_FOUND", "Credential not found")
	case errors.Is(err, ErrPageExpired):
		response.Error(c, http.StatusGone, "PAGE_EXPIRED",
			"This verification page has expired for security purposes. Please request a new link from the member.")
	case errors.Is(err, ErrInvalidViewToken):
		response.Error(c, http.StatusForbidden, "INVALID_VIEW_TOKEN", "Invalid view link")
	case errors.Is(err, ErrDocumentNotUploaded):
		response.Error(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not uploaded")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load credential")
	}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	creds := v1.Group("/credentials")
	{
		creds.GET("/:id", h.Get)
		creds.GET("/:id/documents/:kind", h.Document)
	}
}
