package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gestion-produits/internal/catalog"
	"gestion-produits/internal/config"
	"gestion-produits/internal/database"
	"gestion-produits/internal/handler"
	"gestion-produits/internal/repository"
	"gestion-produits/internal/router"
	"gestion-produits/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg, config.NewLogger(cfg.Logger))
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().Msg("starting gestion-produits API server")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, cfg.Database.CreateSchema, logger); err != nil {
		return fmt.Errorf("failed to check database schema: %w", err)
	}

	productRepo := repository.NewProductRepository(pool, logger)
	productService := service.NewProductService(productRepo, logger)

	if cfg.Import.SeedFile != "" {
		seed(ctx, cfg, productService, logger)
	}

	productHandler := handler.NewProductHandler(productService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(productHandler, healthHandler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// seed imports the configured seed catalog when the table is empty. Failures
// are logged and do not prevent the server from starting.
func seed(ctx context.Context, cfg *config.Config, svc service.ProductService, logger zerolog.Logger) {
	count, err := svc.Count(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to count products, skipping seed")
		return
	}
	if count > 0 {
		logger.Info().Int64("count", count).Msg("table not empty, skipping seed")
		return
	}

	loader := newCatalogLoader(ctx, cfg, catalog.Options{}, cfg.Import.SeedFile, logger)
	result, err := runImport(ctx, loader, svc, cfg.Import.SeedFile, catalog.ImporterConfig{Rate: cfg.Import.Rate}, logger)
	if err != nil {
		logger.Error().Err(err).Str("file", cfg.Import.SeedFile).Msg("seed import failed")
		return
	}

	logger.Info().
		Str("file", cfg.Import.SeedFile).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("seed catalog imported")
}
