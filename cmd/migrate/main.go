package main

import (
	"context"
	"flag"
	"os"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/database"
	"github.com/pageza/pantrychef/backend/internal/logging"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory of SQL migrations applied after auto-migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(context.Background(), cfg)
	if err != nil {
		logging.Error().Err(err).Msg("failed to connect to database")
		os.Exit(1)
	}

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		logging.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}
	logging.Info().Msg("all migrations applied successfully")
}
