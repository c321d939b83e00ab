package config

import (
	"os"
	"strconv"
	"time"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	DatabaseURL   string // empty disables match history
	RedisAddr     string // empty disables the distributed rate limiter
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	AllowedOrigin string

	LogLevel string
	LogJSON  bool

	// Phase deadlines
	ProposalDuration time.Duration
	VotingDuration   time.Duration
	DMDuration       time.Duration
	ActionDuration   time.Duration

	// Base seed for per-game RNGs; 0 means wall clock
	BotSeed int64

	// API limits
	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads configuration from env (optionally via .env).
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	var botSeed int64
	if v := os.Getenv("BOT_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			botSeed = n
		}
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		JWTSecret:     jwtSecret,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		LogLevel: envString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		ProposalDuration: envSeconds("PROPOSAL_SECONDS", 60),
		VotingDuration:   envSeconds("VOTING_SECONDS", 30),
		DMDuration:       envSeconds("DM_SECONDS", 45),
		ActionDuration:   envSeconds("ACTION_SECONDS", 60),

		BotSeed: botSeed,

		APIRateLimit:  envInt("API_RATE_LIMIT", 60),
		APIRateWindow: envSeconds("API_RATE_WINDOW_SECONDS", 60),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}
