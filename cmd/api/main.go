package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/database"
	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/recommend"
	"github.com/pageza/pantrychef/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
	logging.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	tuning, err := config.LoadRecommendation(cfg.RecommendationConfigPath)
	if err != nil {
		return err
	}
	engine, err := recommend.NewEngine(tuning)
	if err != nil {
		return err
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	deps := server.Deps{DB: db, Engine: engine}

	if cfg.RedisURL != "" || cfg.RedisHost != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			// Continue without rate limiting if Redis is not available
			logging.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		} else {
			defer redisClient.Close()
			deps.Redis = redisClient
		}
	}

	if cfg.S3Bucket != "" {
		s3Cfg, err := config.NewS3Config(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			logging.Warn().Err(err).Msg("s3 unavailable, image references are returned as stored")
		} else {
			deps.Presigner = s3Cfg
		}
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
