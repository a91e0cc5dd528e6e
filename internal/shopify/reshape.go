package shopify

import (
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
)

func mapCartToDomain(c shopifyCart) (domain.Cart, error) {
	subtotal, err := mapMoneyToDomain(c.Cost.SubtotalAmount)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("subtotalAmount: %w", err)
	}

	total, err := mapMoneyToDomain(c.Cost.TotalAmount)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("totalAmount: %w", err)
	}

	// a missing tax amount becomes zero in the cart's currency
	tax := domain.ZeroMoney(total.Currency)
	if c.Cost.TotalTaxAmount != nil && c.Cost.TotalTaxAmount.Amount != "" {
		tax, err = mapMoneyToDomain(*c.Cost.TotalTaxAmount)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("totalTaxAmount: %w", err)
		}
	}

	lines, err := mapLineEdgesToDomain(c.Lines.Edges)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapLineEdgesToDomain: %w", err)
	}

	return domain.Cart{
		ID:            c.ID,
		CheckoutURL:   c.CheckoutURL,
		TotalQuantity: c.TotalQuantity,
		Lines:         lines,
		Cost: domain.CartCost{
			SubtotalAmount: subtotal,
			TotalAmount:    total,
			TotalTaxAmount: tax,
		},
	}, nil
}

func mapLineEdgesToDomain(edges []cartLineEdge) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0, len(edges))

	for _, edge := range edges {
		line, err := mapLineToDomain(edge.Node)
		if err != nil {
			return nil, fmt.Errorf("line[%s]: %w", edge.Node.ID, err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func mapLineToDomain(l cartLine) (domain.CartLine, error) {
	total, err := mapMoneyToDomain(l.Cost.TotalAmount)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("totalAmount: %w", err)
	}

	options := make([]domain.SelectedOption, 0, len(l.Merchandise.SelectedOptions))
	for _, o := range l.Merchandise.SelectedOptions {
		options = append(options, domain.SelectedOption{Name: o.Name, Value: o.Value})
	}

	var featured domain.Image
	if img := l.Merchandise.Product.FeaturedImage; img != nil {
		featured = domain.Image{
			URL:     img.URL,
			AltText: img.AltText,
			Width:   img.Width,
			Height:  img.Height,
		}
	}

	return domain.CartLine{
		ID:       l.ID,
		Quantity: l.Quantity,
		Cost:     domain.LineCost{TotalAmount: total},
		Merchandise: domain.Merchandise{
			ID:              l.Merchandise.ID,
			Title:           l.Merchandise.Title,
			SelectedOptions: options,
			Product: domain.ProductRef{
				ID:            l.Merchandise.Product.ID,
				Handle:        l.Merchandise.Product.Handle,
				Title:         l.Merchandise.Product.Title,
				FeaturedImage: featured,
			},
		},
	}, nil
}

func mapMoneyToDomain(m moneyV2) (domain.Money, error) {
	return domain.NewMoney(m.Amount, m.CurrencyCode)
}
