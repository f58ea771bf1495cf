package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/cor0nius/owonecall"
)

type apiConfig struct {
	owmKey        string
	owmOneCallURL string
	redisKey      string
	redisClient   *redis.Client
	projectID     string
	devMode       bool
	logger        *slog.Logger
}

// getRequiredEnv retrieves an environment variable by key, and fails if it's not set.
func getRequiredEnv(key string, logger *slog.Logger) (string, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		logger.Error("environment variable must be set", "key", key)
		return "", fmt.Errorf("environment variable %s must be set", key)
	}
	return val, nil
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	logger.Debug("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

func newLogger(devMode bool, w io.Writer) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// config reads the environment, after loading a .env file when one exists.
// Logs go to logOut so that stdout stays reserved for results.
func config(ctx context.Context, logOut io.Writer) (*apiConfig, error) {
	envErr := godotenv.Load()

	devMode, err := strconv.ParseBool(os.Getenv("DEV_MODE"))
	if err != nil {
		devMode = false
	}
	logger := newLogger(devMode, logOut)
	if envErr != nil {
		logger.Debug("no .env file found, relying on environment variables")
	}

	owmKey, err := getRequiredEnv("OWM_KEY", logger)
	if err != nil {
		return nil, err
	}

	cfg := &apiConfig{
		owmKey:        owmKey,
		owmOneCallURL: getEnv("OWM_ONECALL_URL", owonecall.BaseURL, logger),
		redisKey:      getEnv("REDIS_KEY", "owonecall:latest", logger),
		projectID:     getEnv("PROJECT_ID", "", logger),
		devMode:       devMode,
		logger:        logger,
	}

	if redisURL := getEnv("REDIS_URL", "", logger); redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Error("could not parse Redis URL", "error", err)
			return nil, fmt.Errorf("could not parse Redis URL: %w", err)
		}
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			logger.Error("could not connect to Redis", "error", err)
			return nil, fmt.Errorf("could not connect to Redis: %w", err)
		}
		cfg.redisClient = redisClient
	}

	return cfg, nil
}
