package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type config struct {
	Addr          string
	StaticDir     string
	Store         string
	DataDir       string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	LogLevel      string
}

// loadConfig reads VOTE_* variables, after merging envFile when it exists.
// Variables already present in the environment win over the file.
func loadConfig(envFile string) (config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := config{
		Addr:          env("VOTE_ADDR", ":5000"),
		StaticDir:     env("VOTE_STATIC_DIR", "public"),
		Store:         env("VOTE_STORE", "file"),
		DataDir:       env("VOTE_DATA_DIR", "data"),
		MongoURI:      os.Getenv("VOTE_MONGODB_URI"),
		MongoDatabase: env("VOTE_MONGODB_DATABASE", "vote"),
		DatabaseURL:   os.Getenv("VOTE_DATABASE_URL"),
		LogLevel:      env("VOTE_LOG_LEVEL", "info"),
	}

	switch cfg.Store {
	case "file", "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return config{}, errors.New("VOTE_MONGODB_URI is required when VOTE_STORE=mongo")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return config{}, errors.New("VOTE_DATABASE_URL is required when VOTE_STORE=postgres")
		}
	default:
		return config{}, fmt.Errorf("unknown VOTE_STORE %q (want file, mongo, postgres or memory)", cfg.Store)
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
