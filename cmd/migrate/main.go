package main

import (
	"flag"

	"github.com/joho/godotenv"

	"github.com/streetbite/truck-pipeline/internal/config"
	"github.com/streetbite/truck-pipeline/internal/logger"
	"github.com/streetbite/truck-pipeline/internal/models"
	"github.com/streetbite/truck-pipeline/internal/repository"
)

// seedPaymentMethods is the whitelist the normalizer enforces. The
// reference table must carry exactly these labels or the resolver will
// abort with reference-data drift.
var seedPaymentMethods = []models.PaymentMethod{
	{PaymentMethodID: 1, PaymentMethod: "cash"},
	{PaymentMethodID: 2, PaymentMethod: "card"},
}

func main() {
	log := logger.New()

	envFile := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Info().Msg("no .env file found, relying on system env")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := repository.Open(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	err = db.AutoMigrate(
		&models.Truck{},
		&models.PaymentMethod{},
		&models.Transaction{},
		&models.IngestedFile{},
		&models.IngestRun{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	for _, pm := range seedPaymentMethods {
		if err := db.FirstOrCreate(&models.PaymentMethod{}, pm).Error; err != nil {
			log.Fatal().Err(err).Str("label", pm.PaymentMethod).Msg("seeding payment method failed")
		}
	}

	log.Info().Msg("migration complete")
}
