package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/rogerio-castellano/admin-console/docs"
	"github.com/rogerio-castellano/admin-console/internal/auth"
	"github.com/rogerio-castellano/admin-console/internal/client"
	"github.com/rogerio-castellano/admin-console/internal/config"
	"github.com/rogerio-castellano/admin-console/internal/console"
	apphttp "github.com/rogerio-castellano/admin-console/internal/http"
	"github.com/rogerio-castellano/admin-console/internal/http/handlers"
	rl "github.com/rogerio-castellano/admin-console/internal/http/rate_limiter"
	"github.com/rogerio-castellano/admin-console/internal/logging"
	"github.com/rogerio-castellano/admin-console/internal/redissvc"
	"github.com/rogerio-castellano/admin-console/internal/session"
)

// @title Admin Console API
// @version 1.0
// @description Console for people, products and users behind a login.
// @host localhost:8080
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

	c, err := client.New(client.Options{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Logger:  logger.With().Str("component", "client").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("building backend client")
	}
	users := client.NewUsers(c)

	storage, closeStorage, err := sessionStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.SessionStorage).Msg("opening session storage")
	}
	defer closeStorage()

	sessions := session.NewRegistry(storage, sessionOptions(cfg, users, logger.With().Str("component", "session").Logger()))

	workspaces := console.NewRegistry(console.Backend{
		People:   client.NewPeople(c),
		Products: client.NewProducts(c),
		Users:    users,
	}, logger.With().Str("component", "console").Logger())
	if cfg.SessionIdle > 0 {
		go sessions.Run(ctx, time.Minute, cfg.SessionIdle)
		go workspaces.Run(ctx, time.Minute, cfg.SessionIdle)
	}

	limiter := rl.New(cfg.LoginRate, cfg.LoginBurst)
	go limiter.Run(ctx, time.Minute, 3*time.Minute)

	srv := handlers.NewServer(handlers.Deps{
		Sessions:     sessions,
		Workspaces:   workspaces,
		Limiter:      limiter,
		SecureCookie: !cfg.IsDevelopment(),
		Logger:       logger,
	})

	httpSrv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: apphttp.NewRouter(srv, apphttp.RouterOptions{
			CORSOrigins: cfg.CORSOrigins,
			TrustProxy:  cfg.TrustProxy,
			Logger:      logger,
		}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("backend", c.BaseURL()).Msg("console running")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down console")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("console exited")
}

// sessionOptions signs tokens only when they are verified on rehydration.
// Otherwise the stored token is only checked for presence and the fixed
// placeholder is stored.
func sessionOptions(cfg *config.Config, users session.Authenticator, logger zerolog.Logger) session.Options {
	opts := session.Options{
		Users:       users,
		VerifyToken: cfg.SessionVerifyToken,
		Logger:      logger,
	}
	if cfg.SessionVerifyToken {
		opts.Tokens = auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	}
	return opts
}

// sessionStorage picks the per-session storage named by SESSION_STORAGE.
func sessionStorage(ctx context.Context, cfg *config.Config) (session.StorageFactory, func(), error) {
	switch cfg.SessionStorage {
	case "redis":
		rs, err := redissvc.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		factory := func(sid string) session.Storage {
			return session.NewRedisStorage(rs.Rdb(), rs.SessionPrefix(sid), cfg.SessionTTL)
		}
		return factory, func() { _ = rs.Close() }, nil

	case "file":
		fs, err := session.OpenFileStorage(cfg.SessionFile)
		if err != nil {
			return nil, nil, err
		}
		factory := func(sid string) session.Storage {
			return session.WithPrefix(fs, sid+":")
		}
		return factory, func() {}, nil

	case "memory", "":
		mem := session.NewMemoryStorage()
		factory := func(sid string) session.Storage {
			return session.WithPrefix(mem, sid+":")
		}
		return factory, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown session storage %q", cfg.SessionStorage)
}
