package testkit

import (
	"context"
	"slices"
	"sync"

	"github.com/nikolayk812/storefront/internal/port"
)

// IDStore is an in-memory port.CartIDStore.
type IDStore struct {
	journal *Journal
	id      string
}

var _ port.CartIDStore = (*IDStore)(nil)

func NewIDStore(journal *Journal, cartID string) *IDStore {
	return &IDStore{journal: journal, id: cartID}
}

func (s *IDStore) Get() (string, bool) {
	return s.id, s.id != ""
}

func (s *IDStore) Set(cartID string) {
	s.journal.Record("ids.Set")
	s.id = cartID
}

func (s *IDStore) Clear() {
	s.journal.Record("ids.Clear")
	s.id = ""
}

// Revalidator records invalidated tags.
type Revalidator struct {
	mu   sync.Mutex
	tags []string
	Err  error
}

var _ port.Revalidator = (*Revalidator)(nil)

func (r *Revalidator) InvalidateTag(_ context.Context, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tag)
	return r.Err
}

func (r *Revalidator) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.tags)
}
