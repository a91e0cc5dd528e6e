package shopify

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/gid"
	"github.com/nikolayk812/storefront/internal/port"
)

var _ port.CartBackend = (*Client)(nil)

func (c *Client) CreateCart(ctx context.Context) (domain.Cart, error) {
	data, err := execute[cartCreateData](ctx, c, "createCart", createCartMutation, nil)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("createCart: %w", err)
	}

	cart, err := mapPayloadToDomain(data.CartCreate)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("createCart: %w", err)
	}
	if cart.ID == "" {
		return domain.Cart{}, fmt.Errorf("createCart: %w", ErrNoCartID)
	}

	return cart, nil
}

func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, fmt.Errorf("cartID is empty")
	}

	variables := map[string]any{"cartId": gid.CartID(cartID)}

	data, err := withReadRetry(ctx, c, func() (cartQueryData, error) {
		return execute[cartQueryData](ctx, c, "getCart", getCartQuery, variables)
	})
	if err != nil {
		return nil, fmt.Errorf("getCart: %w", err)
	}

	// the backend drops carts once checkout completes
	if data.Cart == nil {
		return nil, nil
	}

	cart, err := mapCartToDomain(*data.Cart)
	if err != nil {
		return nil, fmt.Errorf("mapCartToDomain: %w", err)
	}

	return &cart, nil
}

func (c *Client) AddToCart(ctx context.Context, cartID string, lines []domain.LineInput) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	inputs := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, map[string]any{
			"merchandiseId": line.MerchandiseID,
			"quantity":      line.Quantity,
		})
	}

	data, err := execute[cartLinesAddData](ctx, c, "addToCart", addToCartMutation, map[string]any{
		"cartId": gid.CartID(cartID),
		"lines":  inputs,
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("addToCart: %w", err)
	}

	cart, err := mapPayloadToDomain(data.CartLinesAdd)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("addToCart: %w", err)
	}

	return cart, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	data, err := execute[cartLinesRemoveData](ctx, c, "removeFromCart", removeFromCartMutation, map[string]any{
		"cartId":  gid.CartID(cartID),
		"lineIds": lineIDs,
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("removeFromCart: %w", err)
	}

	cart, err := mapPayloadToDomain(data.CartLinesRemove)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("removeFromCart: %w", err)
	}

	return cart, nil
}

func (c *Client) UpdateCart(ctx context.Context, cartID string, lines []domain.LineUpdate) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("cartID is empty")
	}

	inputs := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, map[string]any{
			"id":            line.ID,
			"merchandiseId": line.MerchandiseID,
			"quantity":      line.Quantity,
		})
	}

	data, err := execute[cartLinesUpdateData](ctx, c, "editCartItems", editCartItemsMutation, map[string]any{
		"cartId": gid.CartID(cartID),
		"lines":  inputs,
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("editCartItems: %w", err)
	}

	cart, err := mapPayloadToDomain(data.CartLinesUpdate)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("editCartItems: %w", err)
	}

	return cart, nil
}

func mapPayloadToDomain(p cartPayload) (domain.Cart, error) {
	if err := userErrorsToError(p.UserErrors); err != nil {
		return domain.Cart{}, err
	}
	if p.Cart == nil {
		return domain.Cart{}, nil
	}

	cart, err := mapCartToDomain(*p.Cart)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapCartToDomain: %w", err)
	}

	return cart, nil
}
