package store

import "errors"

var (
	// ErrDuplicate occurs when creating a record whose unique key already
	// exists, e.g. a patient username that is taken.
	ErrDuplicate = errors.New("record already exists")

	// ErrNotFound occurs when a lookup or delete targets a record that does
	// not exist. Deleting an already-deleted id reports this too, so callers
	// can notice stale-id bugs instead of silently succeeding.
	ErrNotFound = errors.New("record not found")
)
