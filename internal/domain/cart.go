package domain

import (
	"slices"
	"strings"

	"golang.org/x/text/currency"
)

// TempLineIDPrefix marks lines created locally that the backend has not assigned an id to.
const TempLineIDPrefix = "temp:"

type Cart struct {
	ID            string     `json:"id,omitempty"`
	CheckoutURL   string     `json:"checkoutUrl"`
	TotalQuantity int        `json:"totalQuantity"`
	Lines         []CartLine `json:"lines"`
	Cost          CartCost   `json:"cost"`
}

type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
	TotalTaxAmount Money `json:"totalTaxAmount"`
}

type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Cost        LineCost    `json:"cost"`
	Merchandise Merchandise `json:"merchandise"`
}

type LineCost struct {
	TotalAmount Money `json:"totalAmount"`
}

type Merchandise struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	Product         ProductRef       `json:"product"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductRef is the denormalized product snapshot a line carries.
type ProductRef struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage Image  `json:"featuredImage"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ProductVariant and Product are the catalog inputs of an optimistic add.
type ProductVariant struct {
	ID               string
	Title            string
	AvailableForSale bool
	SelectedOptions  []SelectedOption
	Price            Money
}

type Product struct {
	ID            string
	Handle        string
	Title         string
	FeaturedImage Image
}

type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

type LineUpdate struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// EmptyCart is the cart of a session that has no cart id yet.
func EmptyCart() Cart {
	return Cart{
		Lines: []CartLine{},
		Cost: CartCost{
			SubtotalAmount: ZeroMoney(DefaultCurrency),
			TotalAmount:    ZeroMoney(DefaultCurrency),
			TotalTaxAmount: ZeroMoney(DefaultCurrency),
		},
	}
}

// Currency returns the currency the cart's totals are expressed in.
func (c Cart) Currency() currency.Unit {
	if cur := c.Cost.TotalAmount.Currency; cur != (currency.Unit{}) {
		return cur
	}
	for _, line := range c.Lines {
		if cur := line.Cost.TotalAmount.Currency; cur != (currency.Unit{}) {
			return cur
		}
	}
	return DefaultCurrency
}

func (c Cart) LineIndex(merchandiseID string) int {
	return slices.IndexFunc(c.Lines, func(line CartLine) bool {
		return line.Merchandise.ID == merchandiseID
	})
}

func (c Cart) Line(merchandiseID string) (CartLine, bool) {
	idx := c.LineIndex(merchandiseID)
	if idx < 0 {
		return CartLine{}, false
	}
	return c.Lines[idx], true
}

func (c Cart) Clone() Cart {
	clone := c
	clone.Lines = make([]CartLine, len(c.Lines))
	for i, line := range c.Lines {
		line.Merchandise.SelectedOptions = slices.Clone(line.Merchandise.SelectedOptions)
		clone.Lines[i] = line
	}
	return clone
}

func (l CartLine) IsTemporary() bool {
	return strings.HasPrefix(l.ID, TempLineIDPrefix)
}
