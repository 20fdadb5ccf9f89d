package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/VikaRzyankina/CorpIS/internal/storage"
	"github.com/VikaRzyankina/CorpIS/internal/storage/sqldb"
)

// PQDialect drives Postgres through database/sql and lib/pq.
var PQDialect = sqldb.Dialect{
	Kind:            "pq",
	DriverName:      "postgres",
	Quote:           pq.QuoteIdentifier,
	ColumnType:      ColumnType,
	CreateIfMissing: sqldb.SQLCreateIfNotExists,
	Returning:       true,
}.StandardSavepoints()

// OpenPQ opens a lib/pq backed store.
func OpenPQ(ctx context.Context, dsn string) (*sqldb.Store, error) {
	return sqldb.Open(ctx, PQDialect, dsn)
}

func init() {
	storage.Register("pq", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return OpenPQ(ctx, cfg.DSN)
	})
}
