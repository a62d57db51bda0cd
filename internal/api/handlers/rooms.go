package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playlexico/backend/internal/game"
	"github.com/playlexico/backend/internal/middleware"
)

// JoinRoom seats the caller into a room: the exact room when a code is
// given, otherwise the oldest open public room (creating one when none is).
func JoinRoom(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		roomCode := c.Param("room_code")

		snap, err := engine.JoinRoom(c.Request.Context(), userID, roomCode)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": snap})
	}
}

// ApplyTurn records the caller's completed turn and rotates the playing
// seat. A turn that ends the game is reported as game_over, not an error.
func ApplyTurn(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
			return
		}

		var req struct {
			Score     int    `json:"score"`
			FoundWord string `json:"found_word"`
			Time      *int   `json:"time,omitempty"`
			Board     string `json:"board,omitempty"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		err = engine.ApplyTurn(c.Request.Context(), userID, roomID, game.TurnInput{
			Score:         req.Score,
			Word:          req.FoundWord,
			RemainingTime: req.Time,
			Board:         req.Board,
		})
		if errors.Is(err, game.ErrGameEnded) {
			c.JSON(http.StatusOK, gin.H{"game_over": true})
			return
		}
		if err != nil {
			respondEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// Resign forfeits the caller's seat in the room.
func Resign(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
			return
		}

		if err := engine.Resign(c.Request.Context(), userID, roomID); err != nil {
			respondEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "You have resigned from the game. Thanks for playing!"})
	}
}

// TimeUp reports the caller's clock running out.
func TimeUp(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
			return
		}

		if err := engine.TimeUp(c.Request.Context(), userID, roomID); err != nil {
			respondEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// GetRoom returns the current snapshot of a room.
func GetRoom(engine *game.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
			return
		}

		snap, err := engine.Snapshot(c.Request.Context(), roomID)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": snap})
	}
}
