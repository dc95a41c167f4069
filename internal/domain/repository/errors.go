package repository

import "errors"

// Sentinel errors returned by stock mutations. Lookups that find nothing
// return (nil, nil) instead.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
)
