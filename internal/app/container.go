package app

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/bookmyhall/banquet-booking-backend/internal/api"
	"github.com/bookmyhall/banquet-booking-backend/internal/auth"
	"github.com/bookmyhall/banquet-booking-backend/internal/booking"
	"github.com/bookmyhall/banquet-booking-backend/internal/dashboard"
	"github.com/bookmyhall/banquet-booking-backend/internal/events"
	"github.com/bookmyhall/banquet-booking-backend/internal/hall"
	"github.com/bookmyhall/banquet-booking-backend/internal/payment"
	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration

	// Optional infrastructure. Empty values disable the feature.
	RedisAddr     string
	RedisPassword string
	AMQPURL       string

	RazorpayKeyID     string
	RazorpayKeySecret string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Publisher  events.Publisher
	Redis      *redis.Client
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Booking lifecycle events (optional). The server still runs without a
	// broker; events are simply dropped.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("rabbitmq unavailable, booking events disabled: %v", err)
		} else {
			publisher = p
		}
	}

	// Dashboard cache (optional).
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Hall Module
	hallRepo := hall.NewPgxRepository(cfg.DBPool)
	hallService := hall.NewService(hallRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, hallService, publisher)

	// Dashboard Module
	dashboardRepo := dashboard.NewRepository(cfg.DBPool)
	dashboardService := dashboard.NewService(dashboardRepo, redisClient)

	// Payment Gateway
	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	// API Router Config
	routerParams := api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		UserService:      userService,
		BookingService:   bookingService,
		DashboardService: dashboardService,
		Gateway:          gateway,
		JWTManager:       jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Publisher:  publisher,
		Redis:      redisClient,
	}
}

// Close releases the container's long-lived connections.
func (c *Container) Close() {
	c.Publisher.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
}
