package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"lodgecred/internal/middleware"
	"lodgecred/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultNext = "/dashboard"

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service        *Service
	origin         string
	sessionTTL     time.Duration
	cookieSecure   bool
	cookieSameSite string
}

func NewHandler(service *Service, origin string, sessionTTL time.Duration, cookieSecure bool, cookieSameSite string) *Handler {
	return &Handler{
		service:        service,
		origin:         strings.TrimRight(origin, "/"),
		sessionTTL:     sessionTTL,
		cookieSecure:   cookieSecure,
		cookieSameSite: cookieSameSite,
	}
}

// Login POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid login credentials")
		case errors.Is(err, ErrEmailNotConfirmed):
			response.Error(c, http.StatusForbidden, "EMAIL_NOT_CONFIRMED", "Email not confirmed")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		}
		return
	}

	h.setSession(c, sess.AccessToken)
	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":    sess.User.ID,
			"email": sess.User.Email,
			"role":  sess.User.Role,
		},
		"access_token": sess.AccessToken,
	})
}

// Callback GET /auth/callback?code=&next=&type=
// Exchanges a one-time code for a session and redirects into the app.
func (h *Handler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.redirect(c, "/auth/login?error=auth_callback_error")
		return
	}

	res, err := h.service.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		if !errors.Is(err, ErrInvalidCode) {
			_ = c.Error(err)
		}
		h.redirect(c, "/auth/login?error=auth_callback_error")
		return
	}

	h.setSession(c, res.AccessToken)
	if c.Query("type") == string(CodeRecovery) {
		h.redirect(c, "/auth/reset-password")
		return
	}
	h.redirect(c, safeNext(c.Query("next")))
}

// Recover POST /auth/recover
func (h *Handler) Recover(c *gin.Context) {
	var req RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if err := h.service.RequestRecovery(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
	}
	response.Success(c, http.StatusOK, gin.H{"status": "accepted"})
}

// ResetPassword POST /auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), p.UserID, req.Password); err != nil {
		switch {
		case errors.Is(err, ErrWeakPassword):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to reset password")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "updated"})
}

// Logout POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(parseSameSite(h.cookieSameSite))
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetSameSite(parseSameSite(h.cookieSameSite))
	c.SetCookie(middleware.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.cookieSecure, true)
}

func (h *Handler) redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusTemporaryRedirect, h.origin+path)
}

// safeNext accepts only same-site relative paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return defaultNext
	}
	return next
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
