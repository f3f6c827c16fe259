package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/streetbite/truck-pipeline/internal/config"
	"github.com/streetbite/truck-pipeline/internal/logger"
	"github.com/streetbite/truck-pipeline/internal/pipeline"
	"github.com/streetbite/truck-pipeline/internal/repository"
	"github.com/streetbite/truck-pipeline/internal/storage"
)

func main() {
	log := logger.New()

	allFiles := flag.Bool("all", false, "full resync: clear ingestion history and staging, reprocess the entire remote namespace")
	envFile := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Info().Msg("no .env file found, relying on system env")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// One invocation processes one snapshot end to end; bound it so a
	// stuck external call cannot hang the scheduler slot.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	db, err := repository.Open(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	store, err := storage.NewGCSStore(ctx, cfg.Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("object store client failed")
	}
	defer store.Close()

	runner := pipeline.NewRunner(
		store,
		repository.NewFileLedgerRepository(db),
		repository.NewPaymentMethodRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewIngestRunRepository(db, log),
		cfg.Prefix,
		cfg.StagingDir,
		log,
	)

	log.Info().Bool("full_resync", *allFiles).Str("bucket", cfg.Bucket).Msg("starting pipeline run")

	result, err := runner.Run(ctx, *allFiles)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	log.Info().
		Str("status", result.Status).
		Int("rows_loaded", result.Metrics.RowsLoaded).
		Msg("pipeline run finished")
}
