package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/storage"
	"github.com/runnerr0/wordsmith/internal/web"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if err := c.applyOverrides(cfg); err != nil {
		return err
	}

	logger, err := newLogger(c.globals, cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return c.serve(ctx, store, cfg, logger, nil)
}

// applyOverrides copies --host, --port and --log-level onto cfg.
func (c *ServeCommand) applyOverrides(cfg *config.Config) error {
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	return nil
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully. When ln is nil the configured address is used.
func (c *ServeCommand) serve(ctx context.Context, store storage.Store, cfg *config.Config, logger *zap.Logger, ln net.Listener) error {
	handler, err := web.New(store, cfg, logger)
	if err != nil {
		return err
	}
	srv := handler.HTTPServer()

	if ln == nil {
		ln, err = net.Listen("tcp", srv.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
	}

	logger.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("version", c.version),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
