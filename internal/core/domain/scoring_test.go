package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceScore(t *testing.T) {
	t.Run("cheapest scores ten, dearest scores one", func(t *testing.T) {
		assert.InDelta(t, 10, PriceScore(1000, 1000, 2000), 1e-9)
		assert.InDelta(t, 1, PriceScore(2000, 1000, 2000), 1e-9)
	})

	t.Run("all equal scores ten", func(t *testing.T) {
		assert.InDelta(t, 10, PriceScore(1500, 1500, 1500), 1e-9)
	})

	t.Run("midpoint lands halfway", func(t *testing.T) {
		assert.InDelta(t, 5.5, PriceScore(1500, 1000, 2000), 1e-9)
	})

	t.Run("monotonically non-increasing in price", func(t *testing.T) {
		prev := PriceScore(1000, 1000, 3000)
		for p := Money(1100); p <= 3000; p += 100 {
			score := PriceScore(p, 1000, 3000)
			assert.LessOrEqual(t, score, prev, "price %d", p)
			prev = score
		}
	})
}

func TestDistanceScore(t *testing.T) {
	const pivot = 5.0

	t.Run("zero km scores ten", func(t *testing.T) {
		assert.InDelta(t, 10, DistanceScore(0, pivot), 1e-9)
	})

	t.Run("at and beyond the pivot scores one", func(t *testing.T) {
		assert.InDelta(t, 1, DistanceScore(5, pivot), 1e-9)
		assert.InDelta(t, 1, DistanceScore(9.5, pivot), 1e-9)
		assert.InDelta(t, 1, DistanceScore(100, pivot), 1e-9)
	})

	t.Run("clipped to [1,10]", func(t *testing.T) {
		assert.InDelta(t, 10, DistanceScore(-1, pivot), 1e-9)
	})

	t.Run("monotonically non-increasing in distance", func(t *testing.T) {
		prev := DistanceScore(0, pivot)
		for d := 0.5; d <= 12; d += 0.5 {
			score := DistanceScore(d, pivot)
			assert.LessOrEqual(t, score, prev, "distance %.1f", d)
			prev = score
		}
	})
}

func TestStarRating(t *testing.T) {
	tests := []struct {
		name  string
		final float64
		want  int
	}{
		{name: "minimum", final: 1, want: 1},
		{name: "low blend", final: 2.1, want: 2},
		{name: "exact boundary", final: 4, want: 2},
		{name: "just above boundary", final: 4.01, want: 3},
		{name: "high blend", final: 9.2, want: 5},
		{name: "maximum", final: 10, want: 5},
		{name: "capped at five", final: 11, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StarRating(tt.final))
		})
	}
}
