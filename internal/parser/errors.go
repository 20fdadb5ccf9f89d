package parser

import (
	"fmt"
	"strings"
)

// SourceNotFoundError is returned when the input path does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// UnsupportedFormatError is returned for an extension with no codec.
type UnsupportedFormatError struct {
	Path   string
	Ext    string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported file format %q for %s: %s", e.Ext, e.Path, e.Reason)
	}
	return fmt.Sprintf("unsupported file format %q for %s (supported: %s)", e.Ext, e.Path, strings.Join(Extensions, ", "))
}
