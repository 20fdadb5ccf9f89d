package sqlite

import "github.com/VikaRzyankina/CorpIS/internal/schema"

// ColumnType maps a column onto a SQLite column type.
//
// SQLite is dynamically typed, so the mapping prefers canonical affinities:
//   - integers and keys -> INTEGER (a single INTEGER primary key aliases rowid)
//   - booleans          -> INTEGER (0/1)
//   - amounts           -> REAL
//   - dates, timestamps -> TEXT (ISO-8601)
//   - strings           -> TEXT
func ColumnType(c schema.Column) string {
	switch c.Type {
	case schema.TypeInt, schema.TypeBool:
		return "INTEGER"
	case schema.TypeAmount:
		return "REAL"
	default:
		return "TEXT"
	}
}
