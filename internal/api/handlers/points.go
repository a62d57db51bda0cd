package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playlexico/backend/internal/middleware"
	"github.com/playlexico/backend/internal/store"
)

// PointsBalance returns the caller's running ledger balance
// (sum of inflows minus sum of outflows).
func PointsBalance(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		balance, err := st.UserPointsBalance(c.Request.Context(), userID)
		if err != nil {
			log.Printf("[API] Failed to read points balance for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	}
}
