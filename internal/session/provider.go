// Package session binds one optimistic cart to the authoritative cart of a
// page lifetime.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/action"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/optimistic"
	"go.uber.org/zap"
)

// Loader yields the authoritative cart, or nil when the session has none.
type Loader func(ctx context.Context) (*domain.Cart, error)

// Intent is the optimistic half of a cart mutation.
type Intent = optimistic.Action

// ServerAction is the server half of a cart mutation. It returns an
// action result string.
type ServerAction func(ctx context.Context) string

type Option func(*Provider)

// WithRollback restores the affected line when the server half of Dispatch
// fails. Without it the optimistic cart stays ahead of the server until the
// next Reconcile.
func WithRollback() Option {
	return func(p *Provider) {
		p.rollback = true
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

type Provider struct {
	loader   Loader
	store    *optimistic.Store
	rollback bool
	logger   *zap.Logger

	once       sync.Once
	resolveErr error
}

func New(loader Loader, opts ...Option) *Provider {
	p := &Provider{
		loader: loader,
		store:  optimistic.NewStore(nil),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve runs the loader once and seeds the optimistic cart with its result.
// Later calls return the first outcome. A failed load seeds the empty cart.
func (p *Provider) Resolve(ctx context.Context) (domain.Cart, error) {
	p.once.Do(func() {
		if p.loader == nil {
			return
		}

		cart, err := p.loader(ctx)
		if err != nil {
			p.resolveErr = fmt.Errorf("loader: %w", err)
			p.logger.Warn("cart resolve failed", zap.Error(err))
			return
		}

		p.store.Reconcile(cart)
	})

	return p.store.Cart(), p.resolveErr
}

func (p *Provider) Cart() domain.Cart {
	return p.store.Cart()
}

// Reconcile supersedes every optimistic edit with a fresh authoritative cart.
func (p *Provider) Reconcile(authoritative *domain.Cart) {
	p.store.Reconcile(authoritative)
}

func (p *Provider) AddCartItem(variant domain.ProductVariant, product domain.Product) domain.Cart {
	return p.store.Dispatch(optimistic.AddItem{Variant: variant, Product: product, Quantity: 1})
}

func (p *Provider) UpdateCartItem(merchandiseID string, updateType optimistic.UpdateType) domain.Cart {
	return p.store.Dispatch(optimistic.UpdateItem{MerchandiseID: merchandiseID, Type: updateType})
}

// Dispatch applies intent to the optimistic cart, then runs server and
// returns its result.
func (p *Provider) Dispatch(ctx context.Context, intent Intent, server ServerAction) string {
	snapshot, _ := p.store.DispatchWithSnapshot(intent, affectedMerchandise(intent))

	if server == nil {
		return action.Success
	}

	result := server(ctx)
	if !action.IsError(result) {
		return result
	}

	if p.rollback {
		p.store.Dispatch(snapshot)
	}
	p.logger.Warn("cart server action failed",
		zap.String("merchandise_id", snapshot.MerchandiseID),
		zap.Bool("rolled_back", p.rollback),
		zap.String("result", result))

	return result
}

func affectedMerchandise(intent Intent) string {
	switch a := intent.(type) {
	case optimistic.AddItem:
		return a.Variant.ID
	case optimistic.UpdateItem:
		return a.MerchandiseID
	case optimistic.RestoreLine:
		return a.MerchandiseID
	default:
		return ""
	}
}
