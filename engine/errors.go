package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Database operations (spec.md §4.E).
// Absent-table lookups on Delete/Select/Insert convert to
// ErrTableDoesNotExist; dropping or deleting something absent is a
// silent no-op per spec.md §7.
var (
	ErrTableExists       = errors.New("engine: table already exists")
	ErrTableDoesNotExist = errors.New("engine: table does not exist")
)

// InternalError wraps a failure that spec.md §7 classifies as
// internal (shard I/O, invariant violations): logged by the caller
// and the connection that triggered it is closed, rather than being
// surfaced as a user-facing error value.
type InternalError struct {
	err error
}

func wrapInternal(err error) error {
	if err == nil {
		return nil
	}
	return &InternalError{err: err}
}

func (e *InternalError) Error() string { return fmt.Sprintf("engine: internal error: %v", e.err) }
func (e *InternalError) Unwrap() error { return e.err }

// IsInternal reports whether err is (or wraps) an engine InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
