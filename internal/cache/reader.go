package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/gid"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// Reader serves GetCart from the cache and fills it from the backend on a miss.
// Carts the backend no longer knows are not cached.
type Reader struct {
	backend port.CartBackend
	cache   port.CartCache
	ttl     time.Duration
	logger  *zap.Logger
}

func NewReader(backend port.CartBackend, cache port.CartCache, ttl time.Duration, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		backend: backend,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

func (r *Reader) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cartID = gid.CartID(cartID)

	cached, err := r.cache.Get(ctx, cartID)
	switch {
	case err == nil:
		return &cached, nil
	case !errors.Is(err, port.ErrCacheMiss):
		// a broken cache degrades to uncached reads
		r.logger.Warn("cart cache read failed", zap.String("cart_id", cartID), zap.Error(err))
	}

	generation, genErr := r.cache.Generation(ctx, port.CartTag)
	if genErr != nil {
		r.logger.Warn("cart cache generation read failed", zap.String("cart_id", cartID), zap.Error(genErr))
	}

	cart, err := r.backend.GetCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("backend.GetCart: %w", err)
	}
	if cart == nil || genErr != nil {
		return cart, nil
	}

	err = r.cache.Set(ctx, port.CartTag, generation, *cart, r.ttl)
	switch {
	case errors.Is(err, port.ErrStaleGeneration):
		// a mutation invalidated the tag while the backend was read
		r.logger.Debug("cart read outdated by invalidation, not cached", zap.String("cart_id", cartID))
	case err != nil:
		r.logger.Warn("cart cache write failed", zap.String("cart_id", cartID), zap.Error(err))
	}

	return cart, nil
}
