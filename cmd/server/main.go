package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playlexico/backend/internal/api"
	"github.com/playlexico/backend/internal/config"
	"github.com/playlexico/backend/internal/database"
	"github.com/playlexico/backend/internal/game"
	"github.com/playlexico/backend/internal/migrations"
	"github.com/playlexico/backend/internal/redis"
	"github.com/playlexico/backend/internal/store"
	"github.com/playlexico/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis (optional; without it event delivery is local-only)
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Printf("Redis unavailable (%v) - running with local-only event delivery", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	st := store.NewPostgresStore(db)

	// Socket hub + notifier + engine
	hub := ws.NewHub(st)
	go hub.Run()
	ws.StartRoomEventSubscriber(context.Background(), rdb, hub)

	notifier := ws.NewNotifier(hub, rdb)
	engine := game.NewEngine(st, notifier, cfg)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, engine, st, hub, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PlayLexico server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
