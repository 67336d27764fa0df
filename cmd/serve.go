package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmehdipour/pisa-dashboard/internal/config"
	"github.com/jmehdipour/pisa-dashboard/internal/db"
	httpSrv "github.com/jmehdipour/pisa-dashboard/internal/http"
	"github.com/jmehdipour/pisa-dashboard/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.Init(cfg.Log.Level); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		catalog, err := loadCatalog(ctx, cfg)
		if err != nil {
			return err
		}
		views, err := newBuilder(cfg)
		if err != nil {
			return err
		}

		redisClient, err := db.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		if redisClient != nil {
			defer func() { _ = redisClient.Close() }()
		} else {
			logger.Log.Info("redis not configured, rate limiting disabled")
		}

		server := httpSrv.NewServer(cfg, catalog, views, redisClient)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			logger.Log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn("http shutdown", zap.Error(err))
		}

		return nil
	},
}
