package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nullprose/magictext/internal/config"
	"github.com/nullprose/magictext/internal/logging"
	"github.com/nullprose/magictext/internal/rendercache"
	"github.com/nullprose/magictext/internal/store"
	"github.com/nullprose/magictext/internal/web"
)

var serveShutdownTimeout time.Duration

func init() {
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight renders on shutdown")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP/websocket server",
	Long:  "Loads magictext.yaml (if present), opens the configured store and cache, and starts the HTTP server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := logging.New()
		defer logger.Sync()

		ctx := logging.WithLogger(context.Background(), logger)

		pstore, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer pstore.Close()

		var cache *rendercache.Cache
		if cfg.Cache.Addr != "" {
			cache, err = rendercache.Dial(ctx, cfg.Cache.Addr, rendercache.DefaultConfig())
			if err != nil {
				return fmt.Errorf("failed to connect to render cache: %w", err)
			}
			defer cache.Close()
		}

		var auth *web.AuthService
		if cfg.Server.JWTSecret != "" {
			auth = web.NewAuthService(cfg.Server.JWTSecret, 24*time.Hour)
		}

		srv := web.NewServer(web.Config{
			Store:         pstore,
			Cache:         cache,
			AuthService:   auth,
			Logger:        logger,
			AdminPassword: cfg.Server.AdminPassword,
		})

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		httpServer := &http.Server{Addr: addr, Handler: srv.Router()}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", addr))
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-sigCh:
			logger.Info("shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return srv.Shutdown(shutdownCtx)
	},
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.PenStore, error) {
	switch cfg.Driver {
	case "postgres":
		return store.OpenPostgres(ctx, cfg.DSN)
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
