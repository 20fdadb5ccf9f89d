package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no entity has the requested key.
var ErrNotFound = errors.New("storage: not found")

// RejectionError reports an entity the store refused, e.g. a constraint
// violation or a value the schema cannot hold.
type RejectionError struct {
	Table string
	Err   error
}

func (e *RejectionError) Error() string { return e.Err.Error() }

func (e *RejectionError) Unwrap() error { return e.Err }

// Reject wraps err as a *RejectionError for table.
func Reject(table string, err error) error {
	if err == nil {
		return nil
	}
	var re *RejectionError
	if errors.As(err, &re) {
		return err
	}
	return &RejectionError{Table: table, Err: err}
}

// NotFound returns ErrNotFound annotated with the table and key.
func NotFound(table string, key any) error {
	return fmt.Errorf("%s %v: %w", table, key, ErrNotFound)
}
