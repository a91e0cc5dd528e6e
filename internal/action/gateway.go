package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/gid"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// CartTag is invalidated after every successful cart mutation.
const CartTag = port.CartTag

// Gateway runs the server side of cart mutations. Every method reports its
// outcome through the Success / "Error: ..." string contract.
type Gateway struct {
	Backend     port.CartBackend
	Revalidator port.Revalidator
	Logger      *zap.Logger
}

// AddItem adds quantity units of a variant, creating and persisting a cart
// first when the session has none. A zero quantity adds one unit.
func (g *Gateway) AddItem(ctx context.Context, ids port.CartIDStore, variantID string, quantity int) string {
	return g.finish("AddItem", ids, g.addItem(ctx, ids, variantID, quantity))
}

func (g *Gateway) addItem(ctx context.Context, ids port.CartIDStore, variantID string, quantity int) error {
	if variantID == "" {
		return ErrNoVariant
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	cartID, ok := ids.Get()
	if !ok {
		cart, err := g.createCart(ctx, ids)
		if err != nil {
			return err
		}
		cartID = cart.ID
	}

	cart, err := g.Backend.AddToCart(ctx, gid.CartID(cartID), []domain.LineInput{{
		MerchandiseID: gid.MerchandiseID(variantID),
		Quantity:      quantity,
	}})
	if err != nil {
		if ok && g.forgetIfGone(ctx, ids, cartID) {
			return ErrCartFetch
		}
		return fmt.Errorf("backend.AddToCart: %w", err)
	}
	if cart.ID == "" {
		return ErrAddFailed
	}

	g.invalidate(ctx)
	return nil
}

// RemoveItem removes the line holding merchandiseID from the session's cart.
func (g *Gateway) RemoveItem(ctx context.Context, ids port.CartIDStore, merchandiseID string) string {
	return g.finish("RemoveItem", ids, g.removeItem(ctx, ids, merchandiseID))
}

func (g *Gateway) removeItem(ctx context.Context, ids port.CartIDStore, merchandiseID string) error {
	cart, err := g.fetchCart(ctx, ids)
	if err != nil {
		return err
	}

	line, ok := cart.Line(gid.MerchandiseID(merchandiseID))
	if !ok {
		return ErrItemNotFound
	}

	if _, err := g.Backend.RemoveFromCart(ctx, cart.ID, []string{line.ID}); err != nil {
		return fmt.Errorf("backend.RemoveFromCart: %w", err)
	}

	g.invalidate(ctx)
	return nil
}

// UpdateItemQuantity sets the quantity of the line holding merchandiseID.
// A quantity <= 0 removes the line. A missing line with a positive quantity
// is added instead; a missing line with quantity <= 0 is left alone.
func (g *Gateway) UpdateItemQuantity(ctx context.Context, ids port.CartIDStore, merchandiseID string, quantity int) string {
	return g.finish("UpdateItemQuantity", ids, g.updateItemQuantity(ctx, ids, merchandiseID, quantity))
}

func (g *Gateway) updateItemQuantity(ctx context.Context, ids port.CartIDStore, merchandiseID string, quantity int) error {
	cart, err := g.fetchCart(ctx, ids)
	if err != nil {
		return err
	}

	merchandiseID = gid.MerchandiseID(merchandiseID)
	line, ok := cart.Line(merchandiseID)

	switch {
	case ok && quantity <= 0:
		if _, err := g.Backend.RemoveFromCart(ctx, cart.ID, []string{line.ID}); err != nil {
			return fmt.Errorf("backend.RemoveFromCart: %w", err)
		}
	case ok:
		_, err := g.Backend.UpdateCart(ctx, cart.ID, []domain.LineUpdate{{
			ID:            line.ID,
			MerchandiseID: merchandiseID,
			Quantity:      quantity,
		}})
		if err != nil {
			return fmt.Errorf("backend.UpdateCart: %w", err)
		}
	case quantity > 0:
		_, err := g.Backend.AddToCart(ctx, cart.ID, []domain.LineInput{{
			MerchandiseID: merchandiseID,
			Quantity:      quantity,
		}})
		if err != nil {
			return fmt.Errorf("backend.AddToCart: %w", err)
		}
	default:
		return nil
	}

	g.invalidate(ctx)
	return nil
}

// RedirectToCheckout returns the checkout URL of the session's cart. The URL
// is empty unless the result is Success.
func (g *Gateway) RedirectToCheckout(ctx context.Context, ids port.CartIDStore) (string, string) {
	url, err := g.checkoutURL(ctx, ids)
	return url, g.finish("RedirectToCheckout", ids, err)
}

func (g *Gateway) checkoutURL(ctx context.Context, ids port.CartIDStore) (string, error) {
	cart, err := g.fetchCart(ctx, ids)
	if err != nil {
		return "", err
	}
	if cart.CheckoutURL == "" {
		return "", ErrNoCheckoutURL
	}
	return cart.CheckoutURL, nil
}

// CreateCartAndSetCookie creates a new cart and persists its id, replacing
// any id the session already holds.
func (g *Gateway) CreateCartAndSetCookie(ctx context.Context, ids port.CartIDStore) string {
	_, err := g.createCart(ctx, ids)
	if err == nil {
		g.invalidate(ctx)
	}
	return g.finish("CreateCartAndSetCookie", ids, err)
}

func (g *Gateway) createCart(ctx context.Context, ids port.CartIDStore) (domain.Cart, error) {
	cart, err := g.Backend.CreateCart(ctx)
	if errors.Is(err, port.ErrNoCartID) {
		return domain.Cart{}, ErrCreateFailed
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("backend.CreateCart: %w", err)
	}
	if cart.ID == "" {
		return domain.Cart{}, ErrCreateFailed
	}

	ids.Set(cart.ID)
	g.log().Debug("cart created", zap.String("cart_id", cart.ID))

	return cart, nil
}

// fetchCart reads the authoritative cart of the session. A cart the backend
// no longer knows clears the persisted id so the next add starts over.
func (g *Gateway) fetchCart(ctx context.Context, ids port.CartIDStore) (domain.Cart, error) {
	cartID, ok := ids.Get()
	if !ok {
		return domain.Cart{}, ErrMissingCart
	}

	cart, err := g.Backend.GetCart(ctx, gid.CartID(cartID))
	if err != nil {
		return domain.Cart{}, fmt.Errorf("backend.GetCart: %w", err)
	}
	if cart == nil {
		ids.Clear()
		return domain.Cart{}, ErrCartFetch
	}

	return *cart, nil
}

// forgetIfGone clears the persisted cart id when the backend no longer knows
// the cart, so the next add starts a new one.
func (g *Gateway) forgetIfGone(ctx context.Context, ids port.CartIDStore, cartID string) bool {
	cart, err := g.Backend.GetCart(ctx, gid.CartID(cartID))
	if err != nil || cart != nil {
		return false
	}

	ids.Clear()
	g.invalidate(ctx)
	return true
}

func (g *Gateway) invalidate(ctx context.Context) {
	if g.Revalidator == nil {
		return
	}
	if err := g.Revalidator.InvalidateTag(ctx, CartTag); err != nil {
		g.log().Warn("cart cache invalidation failed", zap.String("tag", CartTag), zap.Error(err))
	}
}

func (g *Gateway) finish(name string, ids port.CartIDStore, err error) string {
	if err != nil {
		cartID, _ := ids.Get()
		g.log().Warn("cart action failed",
			zap.String("action", name),
			zap.String("cart_id", cartID),
			zap.Error(err))
	}
	return Result(err)
}

func (g *Gateway) log() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}
