package middleware

import (
	"net/http"
	"strings"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// SeatAuth validates a seat token and pins the request to its game and
// color. Routes with an :id param additionally require the token to match
// that game.
func SeatAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if auth := c.GetHeader("Authorization"); token == "" && strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		gameID, color, err := service.ParseGameToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if id := c.Param("id"); id != "" && id != gameID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is for another game"})
			return
		}

		c.Set("game_id", gameID)
		c.Set("color", color)
		c.Next()
	}
}
