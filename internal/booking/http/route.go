package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all booking routes. actorMiddleware must run after
// authMiddleware: it resolves the authenticated user and stores their role
// for the handlers. Tier-specific role checks live in the service; the admin
// middleware only keeps customers off admin surfaces.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, actorMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// Public: prospective customers check availability before signing up.
	group.GET("/check-availability", h.CheckAvailability)

	// Customer routes
	authed := group.Group("", authMiddleware, actorMiddleware)
	{
		authed.POST("", h.Create)
		authed.GET("/my-bookings", h.ListMine)
		authed.PATCH("/my-bookings/:id", h.UpdateOwn)
		authed.GET("/:id", h.Get)
		authed.POST("/:id/cancel", h.Cancel)
	}

	// Admin routes
	admin := group.Group("", authMiddleware, actorMiddleware, adminMiddleware)
	{
		admin.GET("", h.List)
		admin.POST("/:id/tier1", h.Tier1)
		admin.POST("/:id/tier2", h.Tier2)
		admin.POST("/:id/tier3", h.Tier3)
		admin.POST("/:id/mark-payment", h.MarkPayment)
		admin.POST("/:id/confirm", h.Confirm)
		admin.POST("/:id/complete", h.Complete)
	}
}
