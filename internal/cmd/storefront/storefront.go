// Package storefront wires the storefront HTTP server.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/action"
	"github.com/nikolayk812/storefront/internal/cache"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/shopify"
	"github.com/nikolayk812/storefront/internal/web"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Build assembles the HTTP handler for cfg. The returned close func releases
// the cart cache connections.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (http.Handler, func(), error) {
	backend, err := shopify.New(shopify.Config{
		StoreDomain: cfg.StoreDomain,
		AccessToken: cfg.AccessToken,
		APIVersion:  cfg.APIVersion,
		Timeout:     cfg.RequestTimeout,
		ReadRetries: cfg.ReadRetries,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("shopify.New: %w", err)
	}

	cartCache, closeCache, err := newCartCache(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler, err := web.NewHandler(web.Config{
		Gateway: &action.Gateway{
			Backend:     backend,
			Revalidator: cartCache,
			Logger:      logger,
		},
		Reader:        cache.NewReader(backend, cartCache, cfg.CacheTTL, logger),
		SecureCookies: cfg.Production(),
		Logger:        logger,
	})
	if err != nil {
		closeCache()
		return nil, nil, fmt.Errorf("web.NewHandler: %w", err)
	}

	return handler, closeCache, nil
}

func newCartCache(ctx context.Context, cfg config.Config, logger *zap.Logger) (port.CartCache, func(), error) {
	if cfg.CacheDSN == "" {
		logger.Info("using in-memory cart cache")
		return cache.NewMemory(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.CacheDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	logger.Info("using postgres cart cache")
	return repository.NewCartCache(pool), pool.Close, nil
}

// Run serves the storefront on cfg.HTTPAddr until ctx is canceled.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	return Serve(ctx, listener, cfg, logger)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, listener net.Listener, cfg config.Config, logger *zap.Logger) error {
	handler, closeCache, err := Build(ctx, cfg, logger)
	if err != nil {
		_ = listener.Close()
		return err
	}
	defer closeCache()

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	logger.Info("storefront started", zap.String("addr", listener.Addr().String()))

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server.Serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	<-serveErr

	logger.Info("storefront stopped")
	return nil
}
