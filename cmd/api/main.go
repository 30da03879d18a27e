package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopifyoauth/internal/api"
	"shopifyoauth/internal/httpapi"
	"shopifyoauth/internal/metrics"
	"shopifyoauth/pkg/config"
	"shopifyoauth/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Shopify.HasCredentials() {
		// The callback itself answers 500 for every request until both are set.
		log.Warnw("SHOPIFY_API_KEY or SHOPIFY_API_SECRET not set; callbacks will fail",
			"has_api_key", cfg.Shopify.APIKey != "",
			"has_api_secret", cfg.Shopify.APISecret != "",
		)
	}

	tracer := api.SetupTracing(ctx, cfg.ServiceName, log)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:     cfg,
		Log:     log,
		Metrics: metrics.New(),
		Tracer:  tracer,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("http listening", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("http serve", "err", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warnw("tracer shutdown", "err", err)
	}
	log.Infow("http stopped")
}
