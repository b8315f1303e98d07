package memory

import (
	"context"
	"sync"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
)

// Ensure PriceStore implements the interface.
var _ driven.PriceStore = (*PriceStore)(nil)

// priceKey is the natural key of a price record.
type priceKey struct {
	product string
	branch  domain.Branch
}

// PriceStore is an in-memory implementation of driven.PriceStore.
type PriceStore struct {
	mu      sync.RWMutex
	records map[priceKey]domain.PriceRecord
}

// NewPriceStore creates a new in-memory price store.
func NewPriceStore() *PriceStore {
	return &PriceStore{
		records: make(map[priceKey]domain.PriceRecord),
	}
}

// GetByProducts retrieves every record for the given products.
func (s *PriceStore) GetByProducts(_ context.Context, products []string) ([]domain.PriceRecord, error) {
	wanted := make(map[string]bool, len(products))
	for _, p := range products {
		wanted[p] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []domain.PriceRecord
	for key, rec := range s.records {
		if wanted[key.product] {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Upsert stores or replaces records by their natural key.
func (s *PriceStore) Upsert(_ context.Context, records []domain.PriceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[priceKey{product: rec.Product, branch: rec.Branch}] = rec
	}
	return nil
}

// Len returns the number of stored records. Test helper.
func (s *PriceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
