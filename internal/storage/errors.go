package storage

import (
	"errors"
	"fmt"
)

// StorageError wraps a failure from the underlying SQLite layer.
// Callers can distinguish storage failures from empty-history or
// validation conditions with errors.As or IsStorageError.
type StorageError struct {
	Op  string // Operation that failed (e.g., "append", "listing snapshots")
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err originated in the storage layer.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// storageErr wraps err with the failing operation. Returns nil when
// err is nil so call sites can wrap unconditionally.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
