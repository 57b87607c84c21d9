package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, middlewares ...gin.HandlerFunc) {
	group := g.Group("/payments")
	group.Use(middlewares...)
	{
		group.POST("/create-order", h.CreateOrder)
		group.POST("/verify", h.Verify)
	}
}
