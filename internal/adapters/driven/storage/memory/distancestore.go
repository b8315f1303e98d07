package memory

import (
	"context"
	"sync"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
)

// Ensure DistanceStore implements the interface.
var _ driven.DistanceStore = (*DistanceStore)(nil)

// distanceKey is the natural key of a distance record.
type distanceKey struct {
	origin      string
	destination string
}

// DistanceStore is an in-memory implementation of driven.DistanceStore.
type DistanceStore struct {
	mu      sync.RWMutex
	records map[distanceKey]domain.DistanceRecord
}

// NewDistanceStore creates a new in-memory distance store.
func NewDistanceStore() *DistanceStore {
	return &DistanceStore{
		records: make(map[distanceKey]domain.DistanceRecord),
	}
}

// GetDistances retrieves cached records for the given destinations.
func (s *DistanceStore) GetDistances(
	_ context.Context, origin string, destinations []string,
) ([]domain.DistanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []domain.DistanceRecord
	for _, dest := range destinations {
		if rec, ok := s.records[distanceKey{origin: origin, destination: dest}]; ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// PutDistances stores or replaces distance records.
func (s *DistanceStore) PutDistances(_ context.Context, records []domain.DistanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[distanceKey{origin: rec.Origin, destination: rec.Destination}] = rec
	}
	return nil
}

// Len returns the number of stored records. Test helper.
func (s *DistanceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
