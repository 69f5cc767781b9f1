package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livestock-records/internal/adapters/changes/kafka"
	"livestock-records/internal/adapters/storage"
	"livestock-records/internal/middleware"
	"livestock-records/internal/platform/config"
	"livestock-records/internal/platform/logger"
	"livestock-records/internal/ports/changes"
	"livestock-records/internal/router"
)

// @title Livestock Records API
// @version 1.0
// @description Registros de razas, medicamentos, proveedores y caravanas, más alta e inicio de sesión de usuarios.
// @BasePath /api
func main() {
	// .env antes del logger: LOG_LEVEL/LOG_FORMAT pueden venir de ahí.
	cfg, err := config.Load()
	log := logger.NewFromEnv()
	if err != nil {
		log.Error("invalid configuration", map[string]any{"err": err})
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := storage.Open(openCtx, cfg.Storage)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("store close failed", map[string]any{"err": err})
		}
	}()
	log.Info("store ready", map[string]any{"driver": cfg.Storage.ResolveDriver()})

	var pub changes.Publisher = changes.Discard{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		pub = kp
		log.Info("publishing changes", map[string]any{"brokers": cfg.KafkaBrokers, "topic": cfg.KafkaTopic})
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("publisher close failed", map[string]any{"err": err})
		}
	}()

	h, err := router.NewRouter(ctx, router.Options{
		Store:              st,
		Publisher:          pub,
		Logger:             log,
		APIPrefix:          cfg.APIPrefix,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit: middleware.RateLimiterConfig{
			Rate:  cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr(), "api_prefix": cfg.APIPrefix})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
