package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/recipeshare/internal/config"
	"github.com/kailas-cloud/recipeshare/internal/metrics"
	chiTransport "github.com/kailas-cloud/recipeshare/internal/transport/chi"
)

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, err := openStore(ctx, cfg.Database, cfg.Storage.KeyPrefix)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterAppMetrics()
	metrics.RegisterListingMetrics()

	services, err := buildServices(ctx, store, cfg, logger)
	if err != nil {
		return err
	}

	server := chiTransport.NewServer(services, chiTransport.Options{
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		MaxUploadBytes: cfg.Images.MaxUploadBytes,
	}, logger)
	limiter := chiTransport.NewLoginLimiter(cfg.Auth.LoginPerMinute, cfg.Auth.LoginBurst)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      server.Handler(limiter),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		notify(logger, daemon.SdNotifyReady)
		<-gctx.Done()
		logger.Info("Received shutdown signal")
		notify(logger, daemon.SdNotifyStopping)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// notify reports state to systemd. Outside systemd it is a no-op.
func notify(logger *zap.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logger.Warn("sd_notify failed", zap.String("state", state), zap.Error(err))
		return
	}
	if sent {
		logger.Debug("sd_notify sent", zap.String("state", state))
	}
}
