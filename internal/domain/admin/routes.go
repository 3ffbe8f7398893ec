package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes expects adminGroup to be behind JWTAuth and AdminOnly.
func (h *Handler) RegisterRoutes(adminGroup *gin.RouterGroup) {
	adminGroup.GET("/stats", h.Stats)
	adminGroup.GET("/live", h.Live)

	profiles := adminGroup.Group("/profiles")
	{
		profiles.GET("", h.ListProfiles)
		profiles.GET("/:id", h.GetProfile)
		profiles.PATCH("/:id", h.UpdateRecord)
		profiles.POST("/:id/transition", h.Transition)
	}
}
