package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alen-Aazim/noble-voting/database"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"VOTE_ADDR", "VOTE_STATIC_DIR", "VOTE_STORE", "VOTE_DATA_DIR", "VOTE_MONGODB_URI", "VOTE_MONGODB_DATABASE", "VOTE_DATABASE_URL", "VOTE_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := config{
		Addr:          ":5000",
		StaticDir:     "public",
		Store:         "file",
		DataDir:       "data",
		MongoDatabase: "vote",
		LogLevel:      "info",
	}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("VOTE_ADDR=:9000\nVOTE_STORE=memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOTE_STORE", "")
	os.Unsetenv("VOTE_STORE")
	t.Setenv("VOTE_ADDR", "")
	os.Unsetenv("VOTE_ADDR")

	cfg, err := loadConfig(envFile)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.Store != "memory" {
		t.Errorf("expected .env values, got %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), ".env")

	t.Setenv("VOTE_STORE", "redis")
	if _, err := loadConfig(missing); err == nil {
		t.Error("expected an error for an unknown store")
	}

	t.Setenv("VOTE_STORE", "mongo")
	t.Setenv("VOTE_MONGODB_URI", "")
	if _, err := loadConfig(missing); err == nil {
		t.Error("expected an error for mongo without a URI")
	}

	t.Setenv("VOTE_STORE", "postgres")
	t.Setenv("VOTE_DATABASE_URL", "")
	if _, err := loadConfig(missing); err == nil {
		t.Error("expected an error for postgres without a URL")
	}
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	b, err := openBackend(ctx, config{Store: "memory"})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := b.(*database.MemoryBackend); !ok {
		t.Errorf("expected a memory backend, got %T", b)
	}

	dir := filepath.Join(t.TempDir(), "data")
	b, err = openBackend(ctx, config{Store: "file", DataDir: dir})
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, ok := b.(*database.FileBackend); !ok {
		t.Errorf("expected a file backend, got %T", b)
	}
	if err := b.Ping(ctx); err != nil {
		t.Errorf("file backend should create its directory: %v", err)
	}
}
