package router

import (
	"log"

	"github.com/danghoang87hl/travelnest/backend/internal/handlers"
	"github.com/danghoang87hl/travelnest/backend/internal/middleware"
	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/danghoang87hl/travelnest/backend/internal/realtime"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/danghoang87hl/travelnest/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, hub *realtime.Hub, pusher notifier.DevicePusher) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	mongoDB := mgClient.Database(cfg.MongoDatabase)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	blogRepo := repositories.NewMongoBlogRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)
	hotelRepo := repositories.NewMongoHotelRepository(mongoDB)
	roomRepo := repositories.NewMongoRoomRepository(mongoDB)
	bookingRepo := repositories.NewPostgresBookingRepository(pgdb)
	paymentRepo := repositories.NewPostgresPaymentRepository(pgdb)
	reviewRepo := repositories.NewMongoReviewRepository(mongoDB)
	notificationRepo := repositories.NewMongoNotificationRepository(mongoDB)

	// Single creation primitive every producer goes through
	notify := notifier.New(notificationRepo, userRepo, hub, pusher)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// Realtime join endpoint (token travels as query param, not header)
	wsHandler := handlers.NewWSHandler(hub, cfg.JWTSecret)
	wsHandler.RegisterWSRoutes(e)
	log.Println("Realtime routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Blog routes
	blogHandler := handlers.NewBlogHandler(blogRepo, userRepo, notify)
	blogHandler.RegisterBlogRoutes(api)
	log.Println("Blog routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, blogRepo, userRepo, notify)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Hotel routes
	hotelHandler := handlers.NewHotelHandler(hotelRepo)
	hotelHandler.RegisterHotelRoutes(api)
	log.Println("Hotel routes configured.")

	// Room routes
	roomHandler := handlers.NewRoomHandler(roomRepo, hotelRepo)
	roomHandler.RegisterRoomRoutes(api)
	log.Println("Room routes configured.")

	// Booking routes
	bookingHandler := handlers.NewBookingHandler(bookingRepo, roomRepo, hotelRepo, notify)
	bookingHandler.RegisterBookingRoutes(api)
	log.Println("Booking routes configured.")

	// Payment routes
	paymentHandler := handlers.NewPaymentHandler(paymentRepo, bookingRepo, notify)
	paymentHandler.RegisterPaymentRoutes(api)
	log.Println("Payment routes configured.")

	// Review routes
	reviewHandler := handlers.NewReviewHandler(reviewRepo, hotelRepo, userRepo, notify)
	reviewHandler.RegisterReviewRoutes(api)
	log.Println("Review routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, hub)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
