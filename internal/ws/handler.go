package ws

import (
	"net/http"
	"os"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/logger"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades an authenticated request to a socket. The seat token
// from the join endpoint carries the game id and color; query params carry
// nothing the client could lie about.
func HandleWS(hub *Hub, core Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		gameID, color, err := service.ParseGameToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// the seat must exist before a socket may attach
		if _, err := core.Snapshot(gameID, color); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := NewClient(gameID, color, conn, hub, core)
		go client.Run()
	}
}
