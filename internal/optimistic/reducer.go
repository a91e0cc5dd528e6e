// Package optimistic holds the locally predicted cart shown to the shopper
// while server actions are in flight.
package optimistic

import (
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/gid"
	"github.com/shopspring/decimal"
)

// Action is a transition of the optimistic cart.
type Action interface {
	reduce(cart domain.Cart) domain.Cart
}

type UpdateType string

const (
	Plus   UpdateType = "plus"
	Minus  UpdateType = "minus"
	Delete UpdateType = "delete"
)

// AddItem adds Quantity units of Variant. A Quantity <= 0 adds one unit.
type AddItem struct {
	Variant  domain.ProductVariant
	Product  domain.Product
	Quantity int
}

// UpdateItem changes the line holding MerchandiseID by one unit, or deletes it.
type UpdateItem struct {
	MerchandiseID string
	Type          UpdateType
}

// RestoreLine puts the line of MerchandiseID back to a captured state. A nil
// Line means the cart had no such line.
type RestoreLine struct {
	MerchandiseID string
	Line          *domain.CartLine
	Index         int
}

// Reduce applies a to current and returns the next cart. current is never
// modified; a nil current is the empty cart.
func Reduce(current *domain.Cart, a Action) domain.Cart {
	cart := domain.EmptyCart()
	if current != nil {
		cart = current.Clone()
	}
	if a == nil {
		return cart
	}
	return a.reduce(cart)
}

// Snapshot captures the current state of one line so it can be restored later.
func Snapshot(cart domain.Cart, merchandiseID string) RestoreLine {
	merchandiseID = gid.MerchandiseID(merchandiseID)

	idx := cart.LineIndex(merchandiseID)
	if idx < 0 {
		return RestoreLine{MerchandiseID: merchandiseID, Index: -1}
	}

	line := cart.Clone().Lines[idx]
	return RestoreLine{MerchandiseID: merchandiseID, Line: &line, Index: idx}
}

func (a AddItem) reduce(cart domain.Cart) domain.Cart {
	quantity := a.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	merchandiseID := gid.MerchandiseID(a.Variant.ID)

	if idx := cart.LineIndex(merchandiseID); idx >= 0 {
		line := cart.Lines[idx]
		newQuantity := max(line.Quantity, 0) + quantity

		if line.Quantity > 0 {
			line.Cost.TotalAmount = scaleTotal(line.Cost.TotalAmount, line.Quantity, newQuantity)
		} else {
			line.Cost.TotalAmount = multiply(a.Variant.Price, newQuantity)
		}
		line.Quantity = newQuantity
		cart.Lines[idx] = line

		return recompute(cart)
	}

	cart.Lines = append(cart.Lines, domain.CartLine{
		ID:       domain.TempLineIDPrefix + uuid.NewString(),
		Quantity: quantity,
		Cost: domain.LineCost{
			TotalAmount: multiply(a.Variant.Price, quantity),
		},
		Merchandise: domain.Merchandise{
			ID:              merchandiseID,
			Title:           a.Variant.Title,
			SelectedOptions: slices.Clone(a.Variant.SelectedOptions),
			Product: domain.ProductRef{
				ID:            a.Product.ID,
				Handle:        a.Product.Handle,
				Title:         a.Product.Title,
				FeaturedImage: a.Product.FeaturedImage,
			},
		},
	})

	return recompute(cart)
}

func (a UpdateItem) reduce(cart domain.Cart) domain.Cart {
	idx := cart.LineIndex(gid.MerchandiseID(a.MerchandiseID))
	if idx < 0 {
		return cart
	}

	line := cart.Lines[idx]
	if line.Quantity <= 0 {
		// an empty line has no unit price to scale from
		cart.Lines = slices.Delete(cart.Lines, idx, idx+1)
		return recompute(cart)
	}
	newQuantity := line.Quantity

	switch a.Type {
	case Plus:
		newQuantity++
	case Minus:
		newQuantity--
	case Delete:
		newQuantity = 0
	default:
		return cart
	}

	if newQuantity <= 0 {
		cart.Lines = slices.Delete(cart.Lines, idx, idx+1)
		return recompute(cart)
	}

	line.Cost.TotalAmount = scaleTotal(line.Cost.TotalAmount, line.Quantity, newQuantity)
	line.Quantity = newQuantity
	cart.Lines[idx] = line

	return recompute(cart)
}

func (a RestoreLine) reduce(cart domain.Cart) domain.Cart {
	merchandiseID := gid.MerchandiseID(a.MerchandiseID)
	idx := cart.LineIndex(merchandiseID)

	switch {
	case a.Line == nil && idx >= 0:
		cart.Lines = slices.Delete(cart.Lines, idx, idx+1)
	case a.Line == nil:
		return cart
	case idx >= 0:
		cart.Lines[idx] = cloneLine(*a.Line)
	default:
		at := min(max(a.Index, 0), len(cart.Lines))
		cart.Lines = slices.Insert(cart.Lines, at, cloneLine(*a.Line))
	}

	return recompute(cart)
}

// scaleTotal keeps the line's own unit economics: total * newQuantity / quantity.
func scaleTotal(total domain.Money, quantity, newQuantity int) domain.Money {
	amount := total.Amount.
		Mul(decimal.NewFromInt(int64(newQuantity))).
		Div(decimal.NewFromInt(int64(quantity)))

	return domain.Money{Amount: amount, Currency: total.Currency}.Round()
}

func multiply(price domain.Money, quantity int) domain.Money {
	amount := price.Amount.Mul(decimal.NewFromInt(int64(quantity)))
	return domain.Money{Amount: amount, Currency: price.Currency}.Round()
}

// recompute derives the cart totals from its lines. Tax is not predicted
// locally.
func recompute(cart domain.Cart) domain.Cart {
	cur := cart.Currency()
	if len(cart.Lines) > 0 && cart.Lines[0].Cost.TotalAmount.CurrencyCode() != "" {
		cur = cart.Lines[0].Cost.TotalAmount.Currency
	}
	total := domain.ZeroMoney(cur)
	quantity := 0

	for _, line := range cart.Lines {
		total = total.Add(line.Cost.TotalAmount)
		quantity += line.Quantity
	}

	cart.TotalQuantity = quantity
	cart.Cost = domain.CartCost{
		SubtotalAmount: total,
		TotalAmount:    total,
		TotalTaxAmount: domain.ZeroMoney(cur),
	}

	return cart
}

func cloneLine(line domain.CartLine) domain.CartLine {
	line.Merchandise.SelectedOptions = slices.Clone(line.Merchandise.SelectedOptions)
	return line
}
