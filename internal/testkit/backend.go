// Package testkit provides in-memory fakes of the cart ports for tests.
package testkit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/gid"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
)

// Journal records calls across fakes so tests can assert their order.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) Record(entry string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *Journal) Entries() []string {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.entries)
}

type Variant struct {
	ID      string
	Title   string
	Price   domain.Money
	Product domain.ProductRef
}

// Backend is an in-memory commerce backend. It prices lines from its variant
// catalog and merges lines of the same variant the way the real API does.
type Backend struct {
	mu       sync.Mutex
	journal  *Journal
	carts    map[string]*domain.Cart
	variants map[string]Variant
	failures map[string]error
	calls    []string
	seq      int

	// CreateWithoutID makes CreateCart answer with an id-less cart.
	CreateWithoutID bool
	// AddWithoutID makes AddToCart answer with an id-less cart.
	AddWithoutID bool
}

var _ port.CartBackend = (*Backend)(nil)

var errCartNotFound = errors.New("The specified cart does not exist.")

func NewBackend(journal *Journal) *Backend {
	return &Backend{
		journal:  journal,
		carts:    make(map[string]*domain.Cart),
		variants: make(map[string]Variant),
		failures: make(map[string]error),
	}
}

func (b *Backend) AddVariant(v Variant) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.variants[v.ID] = v
}

// FailNext makes the next call of method return err.
func (b *Backend) FailNext(method string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method] = err
}

// Drop forgets a cart, as the backend does after checkout completes.
func (b *Backend) Drop(cartID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.carts, cartID)
}

// Seed stores a cart as is.
func (b *Backend) Seed(cart domain.Cart) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := cart.Clone()
	b.carts[cart.ID] = &c
}

func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

func (b *Backend) record(method string) error {
	b.calls = append(b.calls, method)
	b.journal.Record("backend." + method)

	if err, ok := b.failures[method]; ok {
		delete(b.failures, method)
		return err
	}
	return nil
}

func (b *Backend) CreateCart(_ context.Context) (domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("CreateCart"); err != nil {
		return domain.Cart{}, err
	}

	b.seq++
	cart := domain.EmptyCart()
	if b.CreateWithoutID {
		return cart, nil
	}

	token := "c" + strconv.Itoa(b.seq)
	cart.ID = gid.CartID(token + "?key=k" + strconv.Itoa(b.seq))
	cart.CheckoutURL = "https://checkout.example.com/cart/c/" + token
	b.carts[cart.ID] = &cart

	return cart.Clone(), nil
}

func (b *Backend) GetCart(_ context.Context, cartID string) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("GetCart"); err != nil {
		return nil, err
	}

	cart, ok := b.carts[cartID]
	if !ok {
		return nil, nil
	}

	clone := cart.Clone()
	return &clone, nil
}

func (b *Backend) AddToCart(_ context.Context, cartID string, lines []domain.LineInput) (domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("AddToCart"); err != nil {
		return domain.Cart{}, err
	}

	cart, ok := b.carts[cartID]
	if !ok {
		return domain.Cart{}, errCartNotFound
	}

	for _, in := range lines {
		v, ok := b.variants[in.MerchandiseID]
		if !ok {
			return domain.Cart{}, fmt.Errorf("The merchandise with id %s does not exist.", in.MerchandiseID)
		}

		if idx := cart.LineIndex(in.MerchandiseID); idx >= 0 {
			cart.Lines[idx].Quantity += in.Quantity
			continue
		}

		b.seq++
		cart.Lines = append(cart.Lines, domain.CartLine{
			ID:       gid.Canonical(gid.CartLine, strconv.Itoa(b.seq)),
			Quantity: in.Quantity,
			Merchandise: domain.Merchandise{
				ID:      v.ID,
				Title:   v.Title,
				Product: v.Product,
			},
		})
	}

	b.reprice(cart)
	if b.AddWithoutID {
		return domain.Cart{}, nil
	}

	return cart.Clone(), nil
}

func (b *Backend) RemoveFromCart(_ context.Context, cartID string, lineIDs []string) (domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("RemoveFromCart"); err != nil {
		return domain.Cart{}, err
	}

	cart, ok := b.carts[cartID]
	if !ok {
		return domain.Cart{}, errCartNotFound
	}

	cart.Lines = slices.DeleteFunc(cart.Lines, func(l domain.CartLine) bool {
		return slices.Contains(lineIDs, l.ID)
	})
	b.reprice(cart)

	return cart.Clone(), nil
}

func (b *Backend) UpdateCart(_ context.Context, cartID string, lines []domain.LineUpdate) (domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record("UpdateCart"); err != nil {
		return domain.Cart{}, err
	}

	cart, ok := b.carts[cartID]
	if !ok {
		return domain.Cart{}, errCartNotFound
	}

	for _, up := range lines {
		idx := slices.IndexFunc(cart.Lines, func(l domain.CartLine) bool { return l.ID == up.ID })
		if idx < 0 {
			return domain.Cart{}, fmt.Errorf("The merchandise line with id %s does not exist.", up.ID)
		}
		cart.Lines[idx].Quantity = up.Quantity
	}
	cart.Lines = slices.DeleteFunc(cart.Lines, func(l domain.CartLine) bool { return l.Quantity <= 0 })
	b.reprice(cart)

	return cart.Clone(), nil
}

func (b *Backend) reprice(cart *domain.Cart) {
	total := domain.ZeroMoney(cart.Currency())
	quantity := 0

	for i, line := range cart.Lines {
		price := b.variants[line.Merchandise.ID].Price
		cart.Lines[i].Cost.TotalAmount = domain.Money{
			Amount:   price.Amount.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Currency: price.Currency,
		}
		total = total.Add(cart.Lines[i].Cost.TotalAmount)
		quantity += line.Quantity
	}

	cart.TotalQuantity = quantity
	cart.Cost.SubtotalAmount = total
	cart.Cost.TotalAmount = total
	cart.Cost.TotalTaxAmount = domain.ZeroMoney(total.Currency)
}
