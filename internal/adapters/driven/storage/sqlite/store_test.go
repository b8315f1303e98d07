package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "cache.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Migrations must not re-run against an already migrated database.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestListingStore_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	listings := store.ListingStore()

	_, err := listings.GetListing(ctx, "milk", "Origin 1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	now := time.Now().UTC().Truncate(time.Second)
	listing := domain.StoreListing{
		Product: "milk",
		Origin:  "Origin 1",
		Branches: []domain.Branch{
			{Store: "Shufersal", Address: "Herzl 1"},
			{Store: "Rami Levy", Address: "Herzl 2"},
		},
		LastUpdated: now,
	}
	require.NoError(t, listings.UpsertListing(ctx, listing))

	got, err := listings.GetListing(ctx, "milk", "Origin 1")
	require.NoError(t, err)
	assert.Equal(t, listing.Product, got.Product)
	assert.Equal(t, listing.Origin, got.Origin)
	assert.Equal(t, listing.Branches, got.Branches)
	assert.WithinDuration(t, now, got.LastUpdated, time.Second)

	// Same origin, different product is a distinct key.
	_, err = listings.GetListing(ctx, "bread", "Origin 1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingStore_UpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	listings := store.ListingStore()

	listing := domain.StoreListing{
		Product:     "milk",
		Origin:      "Origin 1",
		Branches:    []domain.Branch{{Store: "Shufersal", Address: "Herzl 1"}},
		LastUpdated: time.Now().UTC(),
	}
	require.NoError(t, listings.UpsertListing(ctx, listing))

	listing.Branches = []domain.Branch{{Store: "Rami Levy", Address: "Herzl 2"}}
	require.NoError(t, listings.UpsertListing(ctx, listing))

	got, err := listings.GetListing(ctx, "milk", "Origin 1")
	require.NoError(t, err)
	require.Len(t, got.Branches, 1, "replay of the same key must replace, not accumulate")
	assert.Equal(t, "Rami Levy", got.Branches[0].Store)
}

func TestPriceStore_RoundtripWithOptionals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	prices := store.PriceStore()

	sale := domain.Money(500)
	qty := 3
	now := time.Now().UTC().Truncate(time.Second)
	records := []domain.PriceRecord{
		{
			Product:          "milk",
			Branch:           domain.Branch{Store: "Shufersal", Address: "Herzl 1"},
			RegularPrice:     590,
			SalePrice:        &sale,
			RequiredQuantity: &qty,
			LastUpdated:      now,
		},
		{
			Product:      "milk",
			Branch:       domain.Branch{Store: "Rami Levy", Address: "Herzl 2"},
			RegularPrice: 620,
			LastUpdated:  now,
		},
	}
	require.NoError(t, prices.Upsert(ctx, records))

	got, err := prices.GetByProducts(ctx, []string{"milk"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	byStore := make(map[string]domain.PriceRecord, len(got))
	for _, rec := range got {
		byStore[rec.Branch.Store] = rec
	}

	promo := byStore["Shufersal"]
	assert.Equal(t, domain.Money(590), promo.RegularPrice)
	require.NotNil(t, promo.SalePrice)
	assert.Equal(t, sale, *promo.SalePrice)
	require.NotNil(t, promo.RequiredQuantity)
	assert.Equal(t, 3, *promo.RequiredQuantity)

	plain := byStore["Rami Levy"]
	assert.Nil(t, plain.SalePrice, "NULL sale price must come back nil")
	assert.Nil(t, plain.RequiredQuantity)
}

func TestPriceStore_UpsertIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	prices := store.PriceStore()

	rec := domain.PriceRecord{
		Product:      "milk",
		Branch:       domain.Branch{Store: "Shufersal", Address: "Herzl 1"},
		RegularPrice: 590,
		LastUpdated:  time.Now().UTC(),
	}
	require.NoError(t, prices.Upsert(ctx, []domain.PriceRecord{rec}))

	rec.RegularPrice = 610
	require.NoError(t, prices.Upsert(ctx, []domain.PriceRecord{rec}))

	got, err := prices.GetByProducts(ctx, []string{"milk"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Money(610), got[0].RegularPrice)
}

func TestPriceStore_GetByProductsFiltersAndBatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	prices := store.PriceStore()

	branch := domain.Branch{Store: "Shufersal", Address: "Herzl 1"}
	now := time.Now().UTC()
	require.NoError(t, prices.Upsert(ctx, []domain.PriceRecord{
		{Product: "milk", Branch: branch, RegularPrice: 590, LastUpdated: now},
		{Product: "bread", Branch: branch, RegularPrice: 420, LastUpdated: now},
		{Product: "jam", Branch: branch, RegularPrice: 980, LastUpdated: now},
	}))

	got, err := prices.GetByProducts(ctx, []string{"milk", "bread"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = prices.GetByProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDistanceStore_RoundtripWithNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	distances := store.DistanceStore()

	km := 4.2
	require.NoError(t, distances.PutDistances(ctx, []domain.DistanceRecord{
		{Origin: "Origin 1", Destination: "Herzl 1", Km: &km},
		{Origin: "Origin 1", Destination: "Nowhere 9", Km: nil},
	}))

	got, err := distances.GetDistances(ctx, "Origin 1", []string{"Herzl 1", "Nowhere 9", "Unseen 5"})
	require.NoError(t, err)
	require.Len(t, got, 2, "a pair never stored is absent, not nil")

	byDest := make(map[string]domain.DistanceRecord, len(got))
	for _, rec := range got {
		byDest[rec.Destination] = rec
	}
	require.NotNil(t, byDest["Herzl 1"].Km)
	assert.Equal(t, 4.2, *byDest["Herzl 1"].Km)
	assert.Nil(t, byDest["Nowhere 9"].Km, "an unresolvable pair is stored with a NULL distance")
}

func TestDistanceStore_PutReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	distances := store.DistanceStore()

	km := 4.2
	rec := domain.DistanceRecord{Origin: "Origin 1", Destination: "Herzl 1", Km: &km}
	require.NoError(t, distances.PutDistances(ctx, []domain.DistanceRecord{rec}))

	km2 := 5.1
	rec.Km = &km2
	require.NoError(t, distances.PutDistances(ctx, []domain.DistanceRecord{rec}))

	got, err := distances.GetDistances(ctx, "Origin 1", []string{"Herzl 1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5.1, *got[0].Km)
}
