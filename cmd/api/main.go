package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopsifu-discount/internal/cache"
	"shopsifu-discount/internal/config"
	"shopsifu-discount/internal/database"
	"shopsifu-discount/internal/handler"
	"shopsifu-discount/internal/repository"
	"shopsifu-discount/internal/router"
	"shopsifu-discount/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting voucher API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize the voucher cache, falling back to an in-process cache
	// when Redis is unavailable.
	var voucherCache cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, using in-process cache")
			voucherCache = cache.NewMemoryCache()
		} else {
			defer redisCache.Close()
			voucherCache = redisCache
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis voucher cache connected")
		}
	} else {
		voucherCache = cache.NewMemoryCache()
		logger.Info().Msg("using in-process voucher cache (redis disabled)")
	}

	// Initialize repositories
	voucherRepo := repository.NewVoucherRepository(pool, logger)
	cartResolver := repository.NewCartResolver(pool, logger)

	// Initialize services
	voucherService := service.NewVoucherService(voucherRepo, voucherCache, logger)
	checkoutService := service.NewCheckoutService(voucherRepo, cartResolver, voucherCache, logger)

	// Initialize HTTP handlers
	discountHandler := handler.NewDiscountHandler(checkoutService, logger)
	manageHandler := handler.NewManageHandler(voucherService, logger)

	// Initialize router
	mux := router.New(discountHandler, manageHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
