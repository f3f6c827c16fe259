package config

import (
	"fmt"
	"os"
)

// Defaults for optional settings.
const (
	DefaultPrefix     = "trucks/"
	DefaultStagingDir = "truck_data/data"
	DefaultDBPort     = "3306"
)

// Config carries everything the pipeline needs. It is built once at the
// entrypoint and passed down explicitly; no component reads the process
// environment on its own.
type Config struct {
	// Bucket is the object store bucket holding truck export files.
	Bucket string
	// Prefix is the key namespace for transactional data within Bucket.
	Prefix string
	// StagingDir is the local directory downloads are staged into.
	StagingDir string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

// FromEnv builds a Config from the process environment. Callers are
// expected to have loaded any .env file first (see cmd/*).
func FromEnv() (Config, error) {
	cfg := Config{
		Bucket:     os.Getenv("BUCKET"),
		Prefix:     getenvDefault("BUCKET_PREFIX", DefaultPrefix),
		StagingDir: getenvDefault("STAGING_DIR", DefaultStagingDir),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenvDefault("DB_PORT", DefaultDBPort),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}
	return cfg, cfg.Validate()
}

// Validate checks that every required setting is present.
func (c Config) Validate() error {
	required := map[string]string{
		"BUCKET":  c.Bucket,
		"DB_HOST": c.DBHost,
		"DB_USER": c.DBUser,
		"DB_NAME": c.DBName,
	}
	for name, v := range required {
		if v == "" {
			return fmt.Errorf("config: %s is required", name)
		}
	}
	return nil
}

// DSN returns the MySQL connection string for the relational store.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
