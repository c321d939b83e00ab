package http

import (
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/config"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/engine"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/http/handlers"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/http/middleware"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/repository"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the REST surface and the socket endpoint. db may be
// nil; history endpoints then answer with empty results.
func RegisterRoutes(r *gin.Engine, eng *engine.Engine, hub *ws.Hub, db *pgxpool.Pool, version string, cfg *config.Config) {
	var matches *repository.MatchRepository
	if db != nil {
		matches = repository.NewMatchRepository(db)
		eng.SetRepository(matches)
	}

	h := handlers.NewHandler(eng, matches)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// redis-backed limiting when configured, in-memory fallback otherwise
	rateLimit := middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)
	if cfg.RedisAddr == "" {
		rateLimit = middleware.SimpleRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)
	}

	v1 := r.Group("/api/v1")
	v1.Use(rateLimit)
	{
		v1.POST("/games", h.CreateGame)
		v1.POST("/games/:id/join", h.JoinGame)

		seated := v1.Group("")
		seated.Use(middleware.SeatAuth())
		{
			seated.GET("/games/:id", h.GetGame)
			seated.POST("/games/:id/start", h.StartGame)
			seated.POST("/games/:id/end-phase", h.EndPhase)
		}

		v1.GET("/matches", h.RecentMatches)
	}

	// WebSocket: the live game channel
	r.GET("/ws", ws.HandleWS(hub, eng))
}
