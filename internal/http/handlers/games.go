package handlers

import (
	"net/http"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/game"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
	Bots  int    `json:"bots"`
}

// CreateGame opens a lobby with the caller seated plus the requested bots,
// and returns the caller's seat token.
func (h *Handler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Bots < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bots must be non-negative"})
		return
	}

	sess, err := h.Engine.CreateGame([]game.Seat{{Color: req.Color, Name: req.Name}}, req.Bots)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := service.GenerateGameToken(sess.ID, req.Color)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"game_id": sess.ID,
		"color":   req.Color,
		"token":   token,
		"state":   sess.Snapshot(req.Color),
	})
}

type joinGameRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// JoinGame seats a participant in an open lobby (or resumes a seated one)
// and returns their seat token.
func (h *Handler) JoinGame(c *gin.Context) {
	var req joinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	snap, err := h.Engine.Join(id, req.Color, req.Name)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := service.GenerateGameToken(id, req.Color)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game_id": id,
		"color":   req.Color,
		"token":   token,
		"state":   snap,
	})
}

// StartGame closes the lobby and begins the first round.
func (h *Handler) StartGame(c *gin.Context) {
	id, _, ok := seat(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no seat"})
		return
	}
	if err := h.Engine.StartGame(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "started"})
}

// GetGame returns the caller's private view of the session.
func (h *Handler) GetGame(c *gin.Context) {
	id, color, ok := seat(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no seat"})
		return
	}
	snap, err := h.Engine.Snapshot(id, color)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// EndPhase is the REST mirror of the end_phase socket message.
func (h *Handler) EndPhase(c *gin.Context) {
	id, _, ok := seat(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no seat"})
		return
	}
	if err := h.Engine.EndPhaseEarly(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "advanced"})
}

// RecentMatches lists finished matches, newest first.
func (h *Handler) RecentMatches(c *gin.Context) {
	if h.Matches == nil {
		c.JSON(http.StatusOK, gin.H{"matches": []any{}})
		return
	}

	records, err := h.Matches.Recent(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": records})
}
