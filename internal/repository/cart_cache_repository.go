package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// cartCacheRepository shares cached cart reads across storefront replicas, so
// invalidating a tag is seen by every instance.
type cartCacheRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCartCache(pool *pgxpool.Pool) port.CartCache {
	return &cartCacheRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartCacheWithTx(tx pgx.Tx) port.CartCache {
	return &cartCacheRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartCacheRepository) Get(ctx context.Context, cartID string) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	row, err := r.q.GetCartCacheEntry(ctx, cartID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, port.ErrCacheMiss
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartCacheEntry: %w", err)
	}

	cart, err := mapCacheRowToDomain(row)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapCacheRowToDomain: %w", err)
	}

	return cart, nil
}

func (r *cartCacheRepository) Generation(ctx context.Context, tag string) (int64, error) {
	if tag == "" {
		return 0, fmt.Errorf("tag is empty")
	}

	generation, err := r.q.GetCartCacheGeneration(ctx, tag)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("q.GetCartCacheGeneration: %w", err)
	}

	return generation, nil
}

// Set holds the tag's generation row until commit, so a concurrent InvalidateTag
// either waits for the write and deletes it or makes Set fail with port.ErrStaleGeneration.
func (r *cartCacheRepository) Set(ctx context.Context, tag string, generation int64, cart domain.Cart, ttl time.Duration) error {
	if cart.ID == "" {
		return fmt.Errorf("cartID is empty")
	}
	if tag == "" {
		return fmt.Errorf("tag is empty")
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	var expiresAt pgtype.Timestamptz
	if ttl > 0 {
		expiresAt = pgtype.Timestamptz{Time: time.Now().Add(ttl), Valid: true}
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) error {
		current, err := q.LockCartCacheGeneration(ctx, tag)
		if err != nil {
			return fmt.Errorf("q.LockCartCacheGeneration: %w", err)
		}
		if current != generation {
			return port.ErrStaleGeneration
		}

		if _, err := q.DeleteExpiredCartCache(ctx); err != nil {
			return fmt.Errorf("q.DeleteExpiredCartCache: %w", err)
		}

		err = q.UpsertCartCacheEntry(ctx, db.UpsertCartCacheEntryParams{
			CartID:    cart.ID,
			Tag:       tag,
			Payload:   payload,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			return fmt.Errorf("q.UpsertCartCacheEntry: %w", err)
		}

		return nil
	})
}

func (r *cartCacheRepository) InvalidateTag(ctx context.Context, tag string) error {
	if tag == "" {
		return fmt.Errorf("tag is empty")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) error {
		if _, err := q.BumpCartCacheGeneration(ctx, tag); err != nil {
			return fmt.Errorf("q.BumpCartCacheGeneration: %w", err)
		}

		if _, err := q.DeleteCartCacheByTag(ctx, tag); err != nil {
			return fmt.Errorf("q.DeleteCartCacheByTag: %w", err)
		}

		return nil
	})
}

func mapCacheRowToDomain(row db.CartCache) (domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal(row.Payload, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("payload of cart[%s] is not valid: %w", row.CartID, err)
	}

	return cart, nil
}
