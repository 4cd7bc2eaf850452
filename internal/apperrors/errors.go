package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a mutation targeted a row that does not
// exist or is soft-deleted. Read paths signal absence with a nil
// result instead; only operations with nothing to return use this
// sentinel.
var ErrNotFound = errors.New("record not found")

// StoreError wraps any failure coming back from the backing store.
// Repositories convert every non-not-found store failure into this
// type before it leaves the layer, so callers never branch on (or
// leak) driver-specific error shapes.
type StoreError struct {
	Op  string // the repository operation that failed, e.g. "get all products"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps err as a StoreError for the named operation.
func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err is (or wraps) a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
