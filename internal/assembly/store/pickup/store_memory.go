// Package pickup provides PickupPointSource implementations: an in-memory
// table for tests and a Redis read-through cache wrapping a slower carrier
// lookup.
package pickup

import (
	"context"
	"sync"

	"paybridge/internal/assembly/models"
)

// MemorySource resolves pickup points from an in-memory table.
type MemorySource struct {
	mu        sync.RWMutex
	locations map[string]*models.PickupLocation
}

func NewMemory() *MemorySource {
	return &MemorySource{locations: make(map[string]*models.PickupLocation)}
}

func (s *MemorySource) Locate(_ context.Context, carrier models.Carrier, reference string) (*models.PickupLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locations[key(carrier, reference)], nil
}

func (s *MemorySource) Put(carrier models.Carrier, reference string, loc *models.PickupLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[key(carrier, reference)] = loc
}

func key(carrier models.Carrier, reference string) string {
	return string(carrier) + ":" + reference
}
