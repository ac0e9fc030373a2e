// Package order provides OrderSource/CartSource implementations: an
// in-memory store for tests and development, and a PostgreSQL store for
// production.
package order

import (
	"context"
	"sync"

	"paybridge/internal/assembly/models"
)

// MemoryStore keeps order snapshots, cart rows and quote pickup data in
// memory. It implements both ports.OrderSource and ports.CartSource.
type MemoryStore struct {
	mu          sync.RWMutex
	orders      map[string]*models.Order
	memos       map[string]map[string]*models.CreditMemo
	items       map[string][]models.CartItem
	pickupAddrs map[string]*models.Address
	parcelRefs  map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		orders:      make(map[string]*models.Order),
		memos:       make(map[string]map[string]*models.CreditMemo),
		items:       make(map[string][]models.CartItem),
		pickupAddrs: make(map[string]*models.Address),
		parcelRefs:  make(map[string]string),
	}
}

func (s *MemoryStore) Order(_ context.Context, orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orders[orderID], nil
}

func (s *MemoryStore) CreditMemo(_ context.Context, orderID, memoID string) (*models.CreditMemo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if byOrder, ok := s.memos[orderID]; ok {
		return byOrder[memoID], nil
	}
	return nil, nil
}

func (s *MemoryStore) Items(_ context.Context, quoteID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.items[quoteID]
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryStore) PickupAddress(_ context.Context, quoteID string) (*models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pickupAddrs[quoteID], nil
}

func (s *MemoryStore) ParcelReference(_ context.Context, quoteID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parcelRefs[quoteID], nil
}

// Seed helpers, used by tests and fixtures.

func (s *MemoryStore) PutOrder(order *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

func (s *MemoryStore) PutCreditMemo(memo *models.CreditMemo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memos[memo.OrderID] == nil {
		s.memos[memo.OrderID] = make(map[string]*models.CreditMemo)
	}
	s.memos[memo.OrderID][memo.ID] = memo
}

func (s *MemoryStore) PutItems(quoteID string, items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[quoteID] = items
}

func (s *MemoryStore) PutPickupAddress(quoteID string, addr *models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickupAddrs[quoteID] = addr
}

func (s *MemoryStore) PutParcelReference(quoteID, ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parcelRefs[quoteID] = ref
}
