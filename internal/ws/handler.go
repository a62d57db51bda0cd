package ws

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playlexico/backend/internal/config"
	"github.com/playlexico/backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin is enforced by the CORS layer
	},
}

// generateSocketID returns a random connection identifier.
func generateSocketID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// HandleWebSocket authenticates the bearer token from the query string,
// upgrades the connection, and registers the client with the hub.
func HandleWebSocket(hub *Hub, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}

		userID, err := middleware.ParseUserID(token, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error for user %d: %v", userID, err)
			return
		}

		client := &Client{
			conn:     conn,
			userID:   userID,
			socketID: generateSocketID(),
			send:     make(chan []byte, 256),
		}

		hub.register <- client

		go client.writePump()
		go client.readPump(hub)
	}
}
