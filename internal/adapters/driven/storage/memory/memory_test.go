package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
)

func TestListingStore(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()

	_, err := store.GetListing(ctx, "milk", "Origin 1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	listing := domain.StoreListing{
		Product:     "milk",
		Origin:      "Origin 1",
		Branches:    []domain.Branch{{Store: "Shufersal", Address: "Herzl 1"}},
		LastUpdated: time.Now(),
	}
	require.NoError(t, store.UpsertListing(ctx, listing))

	got, err := store.GetListing(ctx, "milk", "Origin 1")
	require.NoError(t, err)
	assert.Equal(t, listing, *got)

	// Same key replaces.
	listing.Branches = nil
	require.NoError(t, store.UpsertListing(ctx, listing))
	assert.Equal(t, 1, store.Len())
}

func TestPriceStore(t *testing.T) {
	store := NewPriceStore()
	ctx := context.Background()

	branchA := domain.Branch{Store: "Shufersal", Address: "Herzl 1"}
	branchB := domain.Branch{Store: "Rami Levy", Address: "Herzl 2"}
	require.NoError(t, store.Upsert(ctx, []domain.PriceRecord{
		{Product: "milk", Branch: branchA, RegularPrice: 590},
		{Product: "milk", Branch: branchB, RegularPrice: 620},
		{Product: "bread", Branch: branchA, RegularPrice: 420},
	}))

	got, err := store.GetByProducts(ctx, []string{"milk"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Replaying the same keys must not grow the store.
	require.NoError(t, store.Upsert(ctx, []domain.PriceRecord{
		{Product: "milk", Branch: branchA, RegularPrice: 610},
	}))
	assert.Equal(t, 3, store.Len())
}

func TestDistanceStore(t *testing.T) {
	store := NewDistanceStore()
	ctx := context.Background()

	km := 3.5
	require.NoError(t, store.PutDistances(ctx, []domain.DistanceRecord{
		{Origin: "Origin 1", Destination: "Herzl 1", Km: &km},
		{Origin: "Origin 1", Destination: "Nowhere 9", Km: nil},
	}))

	got, err := store.GetDistances(ctx, "Origin 1", []string{"Herzl 1", "Nowhere 9", "Unseen 5"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Another origin shares no records.
	got, err = store.GetDistances(ctx, "Origin 2", []string{"Herzl 1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
