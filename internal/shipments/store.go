package shipments

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// Store holds the live workflow entities in memory. It is an explicit
// object handed to the service, never a package-level singleton, so
// independent instances can run side by side in tests.
type Store struct {
	mu        sync.RWMutex
	shipments map[uuid.UUID]*workflow.Shipment
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{shipments: make(map[uuid.UUID]*workflow.Shipment)}
}

// Put inserts or replaces a shipment
func (s *Store) Put(shipment *workflow.Shipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipments[shipment.ID] = shipment
}

// Get returns the shipment with the given id, or false
func (s *Store) Get(id uuid.UUID) (*workflow.Shipment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shipment, ok := s.shipments[id]
	return shipment, ok
}

// Delete removes a shipment from the store
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shipments, id)
}

// List returns all shipments ordered by creation time, newest first
func (s *Store) List() []*workflow.Shipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*workflow.Shipment, 0, len(s.shipments))
	for _, shipment := range s.shipments {
		out = append(out, shipment)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of shipments held
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shipments)
}
