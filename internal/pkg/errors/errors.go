package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrItemNotFound marks a rating upsert against a nonexistent item.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStoreUnavailable wraps failures of the underlying graph or
	// catalog store. Retries, if any, belong to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)
