package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/database"
	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/seed"
)

func main() {
	file := flag.String("file", "seeds/catalog.json", "seed file with foods, recipes and demo users")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	f, err := seed.LoadFile(*file)
	if err != nil {
		logging.Error().Err(err).Msg("failed to load seed file")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("failed to connect to database")
		os.Exit(1)
	}

	if _, err := seed.Apply(ctx, db, f, time.Now()); err != nil {
		logging.Error().Err(err).Msg("seeding failed")
		os.Exit(1)
	}
}
