// Package mysql registers the "mysql" storage kind backed by
// go-sql-driver/mysql.
package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
	"github.com/VikaRzyankina/CorpIS/internal/storage"
	"github.com/VikaRzyankina/CorpIS/internal/storage/sqldb"
)

// Dialect is the MySQL flavour used by the shared database/sql store.
var Dialect = sqldb.Dialect{
	Kind:            "mysql",
	DriverName:      "mysql",
	Quote:           Quote,
	ColumnType:      ColumnType,
	CreateIfMissing: sqldb.SQLCreateIfNotExists,
	LastInsertID:    true,
}.StandardSavepoints()

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return Open(ctx, cfg.DSN)
	})
}

// Open connects with DSN, e.g. "user:pass@tcp(localhost:3306)/corpis".
// DATE and DATETIME columns are always scanned into time.Time.
func Open(ctx context.Context, dsn string) (*sqldb.Store, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return sqldb.Open(ctx, Dialect, cfg.FormatDSN())
}

// Quote wraps an identifier in backticks.
func Quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// ColumnType maps a column onto a MySQL (InnoDB) column type.
func ColumnType(c schema.Column) string {
	switch c.Type {
	case schema.TypeInt:
		if c.AutoIncrement {
			return "BIGINT AUTO_INCREMENT"
		}
		return "BIGINT"
	case schema.TypeBool:
		return "BOOLEAN"
	case schema.TypeAmount:
		return "DECIMAL(18, 2)"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTimestamp:
		return "DATETIME(6)"
	}
	if c.Size > 0 {
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	}
	return "TEXT"
}
