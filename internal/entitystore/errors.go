package entitystore

import "errors"

// Store errors
var (
	ErrStoreUnavailable = errors.New("entity store is unavailable")
	ErrNotFound         = errors.New("document not found")
)
