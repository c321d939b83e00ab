package handlers

import (
	"errors"
	"net/http"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/engine"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/repository"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Engine  *engine.Engine
	Matches *repository.MatchRepository // nil when history is disabled
}

func NewHandler(eng *engine.Engine, matches *repository.MatchRepository) *Handler {
	return &Handler{Engine: eng, Matches: matches}
}

// seat pulls the authenticated game id and color set by the SeatAuth
// middleware.
func seat(c *gin.Context) (gameID, color string, ok bool) {
	g, gok := c.Get("game_id")
	col, cok := c.Get("color")
	if !gok || !cok {
		return "", "", false
	}
	gameID, gok = g.(string)
	color, cok = col.(string)
	return gameID, color, gok && cok
}

// fail maps engine errors to HTTP statuses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrWrongPhase),
		errors.Is(err, engine.ErrGameFull),
		errors.Is(err, engine.ErrColorTaken),
		errors.Is(err, engine.ErrTooFewPlayers),
		errors.Is(err, engine.ErrInvalidAbility):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrUnknownPlayer),
		errors.Is(err, engine.ErrUnknownProposal):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
