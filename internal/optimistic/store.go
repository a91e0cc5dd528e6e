package optimistic

import (
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
)

// Store serializes dispatches against one optimistic cart.
type Store struct {
	mu   sync.Mutex
	cart domain.Cart
}

func NewStore(initial *domain.Cart) *Store {
	return &Store{cart: Reduce(initial, nil)}
}

// Dispatch applies a and returns a copy of the resulting cart.
func (s *Store) Dispatch(a Action) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = Reduce(&s.cart, a)
	return s.cart.Clone()
}

// DispatchWithSnapshot applies a like Dispatch and also returns the RestoreLine
// that undoes it for merchandiseID, taken from the cart a was applied to.
func (s *Store) DispatchWithSnapshot(a Action, merchandiseID string) (RestoreLine, domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot(s.cart, merchandiseID)
	s.cart = Reduce(&s.cart, a)
	return snapshot, s.cart.Clone()
}

func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

// Reconcile replaces the optimistic cart with an authoritative one.
func (s *Store) Reconcile(authoritative *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = Reduce(authoritative, nil)
}
