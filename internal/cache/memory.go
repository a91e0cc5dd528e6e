// Package cache keeps authoritative cart reads until their tag is invalidated.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type entry struct {
	tag       string
	cart      domain.Cart
	expiresAt time.Time
}

// Memory is a process-local port.CartCache.
type Memory struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]int64
	now         func() time.Time
}

var _ port.CartCache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries:     make(map[string]entry),
		generations: make(map[string]int64),
		now:         time.Now,
	}
}

func (m *Memory) Get(_ context.Context, cartID string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[cartID]
	if !ok {
		return domain.Cart{}, port.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, cartID)
		return domain.Cart{}, port.ErrCacheMiss
	}

	return e.cart.Clone(), nil
}

func (m *Memory) Generation(_ context.Context, tag string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[tag], nil
}

// Set stores cart under tag. A non-positive ttl keeps the entry until invalidated.
func (m *Memory) Set(_ context.Context, tag string, generation int64, cart domain.Cart, ttl time.Duration) error {
	if cart.ID == "" {
		return fmt.Errorf("cart id is empty")
	}
	if tag == "" {
		return fmt.Errorf("tag is empty")
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generations[tag] != generation {
		return port.ErrStaleGeneration
	}

	m.entries[cart.ID] = entry{tag: tag, cart: cart.Clone(), expiresAt: expiresAt}
	return nil
}

func (m *Memory) InvalidateTag(_ context.Context, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations[tag]++
	for id, e := range m.entries {
		if e.tag == tag {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
