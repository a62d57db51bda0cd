package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playlexico/backend/internal/game"
)

// respondEngineError translates engine errors into HTTP responses. Anything
// unrecognized is an infrastructure failure and is surfaced as such.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidRoomCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrJoinContended):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrPlayerNotFound), errors.Is(err, game.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("[API] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
