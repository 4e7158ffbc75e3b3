package main

import (
	"context"
	"os"
	"time"

	"github.com/ishantswami13-crypto/ledger-api/internal/config"
	"github.com/ishantswami13-crypto/ledger-api/internal/database"
	"github.com/ishantswami13-crypto/ledger-api/internal/logging"
)

func main() {
	log := logging.New(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))

	dsn, err := config.LoadDatabaseURL()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := database.Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info().Msg("applying migrations")
	applied, err := database.Migrate(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Strs("applied", applied).Msg("migration failed")
	}
	log.Info().Strs("applied", applied).Msg("migrations applied")
}
