package registration

import (
	"errors"
	"net/http"

	"lodgecred/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const codeRegistrationFailed = "REGISTRATION_FAILED"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Signup POST /auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	u, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, verr.Error(), verr.Fields)
			return
		}
		// every other failure carries its user-facing message
		response.Error(c, http.StatusBadRequest, codeRegistrationFailed, err.Error())
		return
	}

	c.JSON(http.StatusOK, SignupResponse{Success: true, Message: SuccessMessage, Email: u.Email})
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/auth/signup", h.Signup)
}
