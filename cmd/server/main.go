package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloud-ru/finance-engine-go/internal/cache"
	"github.com/cloud-ru/finance-engine-go/internal/config"
	"github.com/cloud-ru/finance-engine-go/internal/httpapi"
	"github.com/cloud-ru/finance-engine-go/internal/logging"
	"github.com/cloud-ru/finance-engine-go/internal/tools"
	"github.com/cloud-ru/finance-engine-go/internal/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)

	shutdownTracing, err := tracing.InitTracing(context.Background(), cfg.OTELServiceName, cfg.OTELEndpoint, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	var resultCache cache.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		defer rc.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, results will be recomputed")
		}
		cancel()
		resultCache = rc
	} else {
		mc := cache.NewMemoryCache(cfg.CacheTTL)
		defer mc.Stop()
		resultCache = mc
	}

	var limiter *httpapi.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = httpapi.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		defer limiter.Stop()
	}

	registry := tools.NewRegistry(cfg, tracing.Tracer)
	api := httpapi.NewServer(registry, resultCache, limiter, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("finance engine listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	case <-quit:
		log.Info().Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}

	log.Info().Msg("server exited")
}
