package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bookmyhall/banquet-booking-backend/internal/auth"
	"github.com/bookmyhall/banquet-booking-backend/internal/booking"
	bookingHttp "github.com/bookmyhall/banquet-booking-backend/internal/booking/http"
	"github.com/bookmyhall/banquet-booking-backend/internal/dashboard"
	dashboardHttp "github.com/bookmyhall/banquet-booking-backend/internal/dashboard/http"
	"github.com/bookmyhall/banquet-booking-backend/internal/payment"
	paymentHttp "github.com/bookmyhall/banquet-booking-backend/internal/payment/http"
	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string // comma-separated allowed origins in production

	UserService      user.Service
	BookingService   booking.Service
	DashboardService dashboard.Service
	Gateway          payment.Gateway
	JWTManager       *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Web frontend
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// actorMiddleware: Resolves the authenticated user's directory role.
	actorMiddleware := LoadActor(cfg.UserService)
	// adminMiddleware: Further checks that the user belongs to the admin chain.
	adminMiddleware := RequireAdmin()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	dashboardHandler := dashboardHttp.NewHandler(cfg.DashboardService)
	paymentHandler := paymentHttp.NewHandler(cfg.Gateway, cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, actorMiddleware, adminMiddleware)
		paymentHttp.RegisterRoutes(v1, paymentHandler, authMiddleware, actorMiddleware)
		dashboardHttp.RegisterRoutes(v1, dashboardHandler, authMiddleware, actorMiddleware, adminMiddleware)
	}

	return r
}
