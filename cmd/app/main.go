package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/config"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/db"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/engine"
	httpServer "github.com/MeiRomney/CollabOrCancel-sub000/internal/http"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/http/middleware"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/logger"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/scheduler"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/service"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/store"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT()

	var dbPool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbPool = db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
	} else {
		logger.Warn("DATABASE_URL not set, match history disabled")
	}

	gameStore := store.NewGameStore()
	sched := scheduler.New()
	hub := ws.NewHub()

	eng := engine.New(gameStore, sched, hub, engine.Config{
		ProposalDuration: cfg.ProposalDuration,
		VotingDuration:   cfg.VotingDuration,
		DMDuration:       cfg.DMDuration,
		ActionDuration:   cfg.ActionDuration,
		Seed:             cfg.BotSeed,
	})
	eng.StartCleanup(10*time.Minute, time.Hour)

	r := gin.Default()

	// CORS for browser clients on other origins
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, eng, hub, dbPool, version, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	eng.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
