package profile

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	me := protected.Group("/me")
	{
		me.GET("/profile", h.GetMine)
		me.PUT("/profile", h.UpdateMine)
	}
}
