package cart

import "errors"

var (
	ErrNoItems         = errors.New("cart has no items")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrNegativePrice   = errors.New("item price cannot be negative")
)
