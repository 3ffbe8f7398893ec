package admin

import (
	"errors"
	"net/http"

	"lodgecred/internal/domain/profile"
	"lodgecred/internal/middleware"
	"lodgecred/internal/pkg/response"
	"lodgecred/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	live    *LiveHub
}

func NewHandler(service *Service, live *LiveHub) *Handler {
	return &Handler{service: service, live: live}
}

// ListProfiles GET /admin/profiles?view=pending|verified|rejected|all
func (h *Handler) ListProfiles(c *gin.Context) {
	res, err := h.service.ListProfiles(c.Request.Context(), c.Query("view"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// GetProfile GET /admin/profiles/:id
func (h *Handler) GetProfile(c *gin.Context) {
	res, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Transition POST /admin/profiles/:id/transition
func (h *Handler) Transition(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	updated, err := h.service.Transition(c.Request.Context(), p.UserID, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// UpdateRecord PATCH /admin/profiles/:id
func (h *Handler) UpdateRecord(c *gin.Context) {
	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Validation failed", errs)
		return
	}

	updated, err := h.service.UpdateRecord(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// Stats GET /admin/stats
func (h *Handler) Stats(c *gin.Context) {
	counts, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}

// Live GET /admin/live (WebSocket)
func (h *Handler) Live(c *gin.Context) {
	if err := h.live.Serve(c.Writer, c.Request); err != nil {
		_ = c.Error(err)
		// a failed upgrade has already answered the client
		if !c.Writer.Written() {
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to open live feed")
		}
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found")
	case errors.Is(err, ErrInvalidView):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "view must be one of: pending, verified, rejected, all")
	case errors.Is(err, profile.ErrInvalidTransitionTarget):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "status must be one of: VERIFIED, REJECTED, SUSPENDED")
	case errors.Is(err, profile.ErrNoteRequired):
		response.Error(c, http.StatusBadRequest, "NOTE_REQUIRED", "A note is required for rejection or suspension")
	case errors.Is(err, ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "dues_paid_through must be YYYY-MM-DD")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, err.Error())
	}
}
