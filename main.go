package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alen-Aazim/noble-voting/api"
	"github.com/Alen-Aazim/noble-voting/database"
	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/Alen-Aazim/noble-voting/sse"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logging.Logger.WithFields(logrus.Fields{"module": "main", "method": "main"})

	cfg, err := loadConfig(".env")
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		log.WithError(err).Fatal("invalid log level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		log.WithError(err).WithField("store", cfg.Store).Fatal("could not open store")
	}
	store := database.NewStore(backend)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.WithError(err).Error("error closing store")
		}
	}()

	broker := sse.NewBroker()
	go broker.Listen(ctx)

	staticDir := cfg.StaticDir
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		log.WithField("dir", staticDir).Warn("static directory missing, serving API only")
		staticDir = ""
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(api.NewServices(store), broker, staticDir),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("error shutting down server")
		}
	}()

	log.WithFields(logrus.Fields{"addr": cfg.Addr, "store": cfg.Store}).Info("server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("server stopped")
		return
	}
	log.Info("server closed")
}

func openBackend(ctx context.Context, cfg config) (database.Backend, error) {
	switch cfg.Store {
	case "mongo":
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return database.NewMongoBackend(client, cfg.MongoDatabase), nil
	case "postgres":
		backend, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case "memory":
		return database.NewMemoryBackend(), nil
	default:
		backend, err := database.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
}
