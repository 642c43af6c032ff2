package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/rogerio-castellano/admin-console/docs"
	"github.com/rogerio-castellano/admin-console/internal/config"
	"github.com/rogerio-castellano/admin-console/internal/db"
	apphttp "github.com/rogerio-castellano/admin-console/internal/http"
	"github.com/rogerio-castellano/admin-console/internal/http/handlers"
	"github.com/rogerio-castellano/admin-console/internal/logging"
	"github.com/rogerio-castellano/admin-console/internal/repo"
)

// @title Record Store API
// @version 1.0
// @description REST collections backing the admin console.
// @host localhost:3000
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, closeRecords, fresh, err := openRecords(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.RecordStoreStorage).Msg("opening record storage")
	}
	defer closeRecords()

	if fresh {
		data, err := repo.ReadSeed(cfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("reading seed")
		}
		if err := repo.Seed(ctx, records, data); err != nil {
			log.Fatal().Err(err).Msg("seeding records")
		}
		log.Info().Int("collections", len(data)).Msg("records seeded")
	}

	httpSrv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.RecordStorePort),
		Handler: apphttp.NewRecordStoreRouter(
			handlers.NewRecordStore(records, logger.With().Str("component", "records").Logger()),
			apphttp.RouterOptions{CORSOrigins: cfg.CORSOrigins, TrustProxy: cfg.TrustProxy, Logger: logger},
		),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.RecordStorePort).Msg("record store running")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down record store")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// openRecords returns the repository named by RECORDSTORE_STORAGE and
// whether it holds no users yet and should be seeded.
func openRecords(ctx context.Context, cfg *config.Config) (repo.RecordRepository, func(), bool, error) {
	switch cfg.RecordStoreStorage {
	case "postgres":
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, false, err
		}
		records := repo.NewPostgresRecordRepository(database)
		if err := records.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, false, err
		}
		users, err := records.List(ctx, "usuarios", nil)
		if err != nil {
			database.Close()
			return nil, nil, false, err
		}
		return records, func() { database.Close() }, len(users) == 0, nil

	case "memory", "":
		return repo.NewInMemoryRecordRepository(), func() {}, true, nil
	}
	return nil, nil, false, fmt.Errorf("unknown record storage %q", cfg.RecordStoreStorage)
}
