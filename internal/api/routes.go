package api

import (
	"github.com/gin-gonic/gin"
	"github.com/playlexico/backend/internal/api/handlers"
	"github.com/playlexico/backend/internal/config"
	"github.com/playlexico/backend/internal/game"
	"github.com/playlexico/backend/internal/middleware"
	"github.com/playlexico/backend/internal/store"
	"github.com/playlexico/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, engine *game.Engine, st store.Store, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// WebSocket upgrade authenticates via query token
		v1.GET("/ws", ws.HandleWebSocket(hub, cfg))

		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(cfg))
		{
			rooms := authed.Group("/rooms")
			{
				rooms.POST("/join", handlers.JoinRoom(engine))
				rooms.POST("/join/:room_code", handlers.JoinRoom(engine))
				rooms.GET("/:id", handlers.GetRoom(engine))
				rooms.POST("/:id/turn", handlers.ApplyTurn(engine))
				rooms.POST("/:id/resign", handlers.Resign(engine))
				rooms.POST("/:id/timeup", handlers.TimeUp(engine))
			}

			authed.GET("/points/balance", handlers.PointsBalance(st))
		}
	}
}
