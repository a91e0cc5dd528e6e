package port

import (
	"context"
	"errors"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
)

// CartBackend is the remote commerce API that owns the authoritative cart.
// GetCart returns nil, nil when the backend no longer knows the cart.
type CartBackend interface {
	CreateCart(ctx context.Context) (domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	AddToCart(ctx context.Context, cartID string, lines []domain.LineInput) (domain.Cart, error)
	RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (domain.Cart, error)
	UpdateCart(ctx context.Context, cartID string, lines []domain.LineUpdate) (domain.Cart, error)
}

// CartIDStore holds the single cart identifier of a browser session.
type CartIDStore interface {
	Get() (string, bool)
	Set(cartID string)
	Clear()
}

var ErrCacheMiss = errors.New("cache miss")

// ErrStaleGeneration is returned by CartCache.Set when the tag was invalidated
// after the generation passed to Set was read.
var ErrStaleGeneration = errors.New("cache tag was invalidated")

// ErrNoCartID is returned by CreateCart when the backend answers without a cart id.
var ErrNoCartID = errors.New("cart creation returned no cart id")

// CartCache stores authoritative cart reads under an invalidation tag.
// Every InvalidateTag moves the tag to a new generation; Set only stores a cart
// read while the tag was still at the given generation.
type CartCache interface {
	Get(ctx context.Context, cartID string) (domain.Cart, error)
	Generation(ctx context.Context, tag string) (int64, error)
	Set(ctx context.Context, tag string, generation int64, cart domain.Cart, ttl time.Duration) error
	Revalidator
}

type Revalidator interface {
	InvalidateTag(ctx context.Context, tag string) error
}

// CartTag is the single invalidation tag shared by every cached cart read.
const CartTag = "cart"
