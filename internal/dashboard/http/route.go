package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the dashboard routes. All of them are admin-only.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, middlewares ...gin.HandlerFunc) {
	group := g.Group("/dashboard")
	group.Use(middlewares...)
	{
		group.GET("/stats", h.Stats)
	}
}
