package schema

import (
	"fmt"
	"strings"
)

// DetectionError reports a header that matches no registered signature.
type DetectionError struct {
	Columns []string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("cannot detect table type from columns: %s", strings.Join(e.Columns, ", "))
}

// UnknownEntityTypeError reports a table name absent from the registry.
type UnknownEntityTypeError struct {
	Name  string
	Known []string
}

func (e *UnknownEntityTypeError) Error() string {
	return fmt.Sprintf("unknown table %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// FieldError reports a field that cannot be set on an entity.
type FieldError struct {
	Type  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
