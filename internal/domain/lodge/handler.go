package lodge

import (
	"net/http"

	"lodgecred/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /api/v1/grand-lodges
func (h *Handler) List(c *gin.Context) {
	lodges, err := h.repo.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load grand lodges")
		return
	}
	response.Success(c, http.StatusOK, lodges)
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/grand-lodges", h.List)
}
