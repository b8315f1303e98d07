package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist in the cache.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid caller input.
	// The pipeline rejects the whole call before doing any work.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCart indicates a rank request with no products.
	ErrEmptyCart = fmt.Errorf("%w: empty cart", ErrInvalidInput)

	// ErrInvalidQuantity indicates a cart quantity below one.
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)

	// ErrInvalidAlpha indicates a price/distance weight outside [0,1].
	ErrInvalidAlpha = fmt.Errorf("%w: alpha must be in [0,1]", ErrInvalidInput)
)
