// Package sqlite registers the "sqlite" storage kind backed by the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
	"github.com/VikaRzyankina/CorpIS/internal/storage"
	"github.com/VikaRzyankina/CorpIS/internal/storage/sqldb"
)

// Dialect is the SQLite flavour used by the shared database/sql store.
var Dialect = sqldb.Dialect{
	Kind:            "sqlite",
	DriverName:      "sqlite",
	Quote:           sqldb.DoubleQuote,
	ColumnType:      ColumnType,
	CreateIfMissing: sqldb.SQLCreateIfNotExists,
	LastInsertID:    true,
	BindValue:       bindValue,
}.StandardSavepoints()

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return Open(ctx, cfg.DSN)
	})
}

// Open opens a SQLite database, e.g. "corpis.db" or ":memory:", with foreign
// keys enforced. The pool is limited to one connection so an in-memory
// database is shared by every unit of work.
func Open(ctx context.Context, dsn string) (*sqldb.Store, error) {
	s, err := sqldb.Open(ctx, Dialect, dsn)
	if err != nil {
		return nil, err
	}
	s.DB().SetMaxOpenConns(1)
	if _, err := s.DB().ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		s.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	return s, nil
}

func bindValue(c schema.Column, v any) any {
	t, ok := v.(time.Time)
	if !ok {
		return nil
	}
	if c.Type == schema.TypeDate {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339Nano)
}
