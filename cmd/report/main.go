package main

import (
	"context"
	"flag"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"

	"github.com/streetbite/truck-pipeline/internal/config"
	"github.com/streetbite/truck-pipeline/internal/logger"
	"github.com/streetbite/truck-pipeline/internal/report"
	"github.com/streetbite/truck-pipeline/internal/repository"
)

func main() {
	log := logger.New()

	dateStr := flag.String("date", "", "report day as YYYY-MM-DD (default: yesterday)")
	outPath := flag.String("out", "report.html", "output path for the rendered report")
	envFile := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Info().Msg("no .env file found, relying on system env")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	day := civil.DateOf(time.Now().UTC().AddDate(0, 0, -1))
	if *dateStr != "" {
		day, err = civil.ParseDate(*dateStr)
		if err != nil {
			log.Fatal().Err(err).Str("date", *dateStr).Msg("invalid -date")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := repository.Open(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	rep, err := report.Build(ctx, repository.NewTransactionRepository(db), day)
	if err != nil {
		log.Fatal().Err(err).Msg("building report failed")
	}

	html, err := rep.RenderHTML()
	if err != nil {
		log.Fatal().Err(err).Msg("rendering report failed")
	}

	if err := os.WriteFile(*outPath, []byte(html), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("writing report failed")
	}

	log.Info().Str("path", *outPath).Str("day", day.String()).Msg("report written")
}
