package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartValidate(t *testing.T) {
	tests := []struct {
		name    string
		cart    Cart
		wantErr error
	}{
		{name: "valid", cart: Cart{"milk": 2, "bread": 1}},
		{name: "empty", cart: Cart{}, wantErr: ErrEmptyCart},
		{name: "nil", cart: nil, wantErr: ErrEmptyCart},
		{name: "zero quantity", cart: Cart{"milk": 0}, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", cart: Cart{"milk": -3}, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cart.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCartProducts_Sorted(t *testing.T) {
	cart := Cart{"zucchini": 1, "apples": 2, "milk": 6}
	assert.Equal(t, []string{"apples", "milk", "zucchini"}, cart.Products())
}

func TestBranchWebOnly(t *testing.T) {
	assert.True(t, Branch{Store: "Shop", Address: "https://shop.example"}.WebOnly())
	assert.True(t, Branch{Store: "Shop", Address: "order at HTTP://shop.example"}.WebOnly())
	assert.False(t, Branch{Store: "Shop", Address: "Herzl 10, Netanya"}.WebOnly())
}

func TestFreshWithin(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	listing := StoreListing{LastUpdated: now.Add(-47 * time.Hour)}
	assert.True(t, listing.FreshWithin(48*time.Hour, now))
	assert.False(t, listing.FreshWithin(46*time.Hour, now))

	rec := PriceRecord{LastUpdated: now.Add(-2 * time.Hour)}
	assert.False(t, rec.FreshWithin(2*time.Hour, now), "a record exactly at the window edge is stale")
	assert.True(t, rec.FreshWithin(2*time.Hour+time.Second, now))

	var missing StoreListing
	assert.False(t, missing.FreshWithin(48*time.Hour, now), "zero-value listing is never fresh")
}
