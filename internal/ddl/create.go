// Package ddl defines a small, backend-agnostic model for SQL DDL, derives it
// from registered entity types and renders CREATE TABLE statements.
//
// The package does not pick a dialect. Backends supply a TypeMapper for
// column types and a Quoter for identifiers; everything else (PRIMARY KEY,
// UNIQUE, NOT NULL, FOREIGN KEY) is rendered in portable SQL.
package ddl

import (
	"fmt"
	"strings"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

// TypeMapper returns the dialect type for a column, including any identity
// clause for auto-increment keys.
type TypeMapper func(c schema.Column) string

// Quoter quotes an identifier for the target dialect.
type Quoter func(name string) string

// FromEntity derives a TableDef from an entity type. Foreign keys point at the
// referenced type's store label.
func FromEntity(et *schema.EntityType, types TypeMapper) (TableDef, error) {
	def := TableDef{Name: et.Label}
	for _, c := range et.Columns {
		def.Columns = append(def.Columns, ColumnDef{
			Name:       c.Name,
			SQLType:    types(c),
			Nullable:   !c.NotNull,
			PrimaryKey: c.PrimaryKey,
			Unique:     c.Unique,
		})
		if c.References == nil {
			continue
		}
		target, err := schema.Lookup(c.References.Table)
		if err != nil {
			return TableDef{}, fmt.Errorf("ddl: %s.%s: %w", et.Label, c.Name, err)
		}
		def.ForeignKeys = append(def.ForeignKeys, ForeignKey{
			Column:    c.Name,
			RefTable:  target.Label,
			RefColumn: c.References.Column,
		})
	}
	return def, nil
}

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// Rules:
//
//   - t.Name must be non-empty; each column needs a Name and SQLType.
//
//   - A column is rendered as:
//
//     <Name> <SQLType> [NOT NULL] [UNIQUE] [DEFAULT <Default>]
//
//   - Primary key columns are collected into a trailing PRIMARY KEY clause,
//     followed by one FOREIGN KEY clause per reference.
//
// When quote is nil identifiers are emitted verbatim.
func BuildCreateTableSQL(t TableDef, quote Quoter) (string, error) {
	if quote == nil {
		quote = func(s string) string { return s }
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1+len(t.ForeignKeys))
	pks := make([]string, 0, 2)

	for _, c := range t.Columns {
		cname := strings.TrimSpace(c.Name)
		if cname == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", cname)
		}

		var sb strings.Builder
		sb.WriteString(quote(cname))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if c.Unique {
			sb.WriteString(" UNIQUE")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quote(cname))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}
	for _, fk := range t.ForeignKeys {
		cols = append(cols, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
			quote(fk.Column), quote(fk.RefTable), quote(fk.RefColumn)))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quote(name), strings.Join(cols, ",\n  ")), nil
}
