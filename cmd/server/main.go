package main

import (
	"context"
	"log"

	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/danghoang87hl/travelnest/backend/internal/realtime"
	"github.com/danghoang87hl/travelnest/backend/internal/router"
	"github.com/danghoang87hl/travelnest/backend/pkg/config"
	"github.com/danghoang87hl/travelnest/backend/pkg/firebase"
	"github.com/danghoang87hl/travelnest/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase for FCM device push; the app runs without it
	var pusher notifier.DevicePusher
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Printf("Firebase disabled, device push unavailable: %v", err)
	} else {
		pusher = firebaseApp
	}

	// Realtime hub for live notification delivery
	hub := realtime.NewHub()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, hub, pusher)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
