// Package datasource defines where table files come from.
package datasource

import (
	"context"
	"io"
)

// Source opens the bytes of one table file.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
