// Package sqldb implements storage.Store on top of database/sql through sqlx.
// Backends supply a Dialect describing quoting, column types, savepoint syntax
// and value binding; the unit of work logic is shared.
package sqldb

import (
	"fmt"
	"strings"

	"github.com/VikaRzyankina/CorpIS/internal/ddl"
	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

// Dialect describes the SQL flavour of one backend.
type Dialect struct {
	// Kind is the storage kind the dialect is registered under.
	Kind string
	// DriverName is the database/sql driver name.
	DriverName string
	// Quote quotes an identifier.
	Quote ddl.Quoter
	// ColumnType maps a column onto its SQL type.
	ColumnType ddl.TypeMapper
	// CreateIfMissing turns a CREATE TABLE statement for table into one that
	// is a no-op when the table exists.
	CreateIfMissing func(stmt, table string) string

	// Savepoint statement formats; %s is the savepoint name. An empty
	// ReleaseSavepoint means the dialect has no release statement.
	Savepoint           string
	RollbackToSavepoint string
	ReleaseSavepoint    string

	// Returning appends a RETURNING clause for generated keys; otherwise
	// LastInsertId is used when LastInsertID is set.
	Returning    bool
	LastInsertID bool

	// BindValue converts a Go value into a driver argument. Nil means the
	// value is passed unchanged.
	BindValue func(c schema.Column, v any) any
}

// SQLCreateIfNotExists rewrites "CREATE TABLE x" into
// "CREATE TABLE IF NOT EXISTS x".
func SQLCreateIfNotExists(stmt, _ string) string {
	return strings.Replace(stmt, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ", 1)
}

// StandardSavepoints sets the SQL-standard savepoint statements.
func (d Dialect) StandardSavepoints() Dialect {
	d.Savepoint = "SAVEPOINT %s"
	d.RollbackToSavepoint = "ROLLBACK TO SAVEPOINT %s"
	d.ReleaseSavepoint = "RELEASE SAVEPOINT %s"
	return d
}

// DoubleQuote quotes an identifier with ANSI double quotes.
func DoubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTableSQL renders the idempotent CREATE TABLE statement for et.
func (d Dialect) CreateTableSQL(et *schema.EntityType) (string, error) {
	def, err := ddl.FromEntity(et, d.ColumnType)
	if err != nil {
		return "", err
	}
	stmt, err := ddl.BuildCreateTableSQL(def, d.Quote)
	if err != nil {
		return "", err
	}
	if d.CreateIfMissing != nil {
		stmt = d.CreateIfMissing(stmt, def.Name)
	}
	return stmt, nil
}

func (d Dialect) bind(c schema.Column, v any) any {
	if v == nil {
		return nil
	}
	if d.BindValue != nil {
		if out := d.BindValue(c, v); out != nil {
			return out
		}
	}
	return v
}

func (d Dialect) quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = d.Quote(n)
	}
	return out
}

func (d Dialect) savepoint(format, name string) string {
	if format == "" {
		return ""
	}
	return fmt.Sprintf(format, name)
}
