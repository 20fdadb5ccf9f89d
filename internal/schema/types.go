// Package schema holds the static registry of business entity types: their
// store tables, raw column names, canonical field names, column types and the
// column signatures used to recognise a table from its header.
//
// The registry is built once during package initialisation and never
// mutated, so it is safe for concurrent use by independent pipeline runs.
package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// ColumnType is the logical type of a column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeAmount
	TypeBool
	TypeDate
	TypeTimestamp
)

func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeAmount:
		return "amount"
	case TypeBool:
		return "bool"
	case TypeDate:
		return "date"
	case TypeTimestamp:
		return "timestamp"
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// Reference names the column a foreign key points at. Table is the target
// type's registry key.
type Reference struct {
	Table  string
	Column string
}

// Column describes one column of an entity type.
type Column struct {
	// Name is the raw column name used both in the store and in files.
	Name string
	// Field is the canonical field name the column maps onto.
	Field string
	Type  ColumnType
	// Size is the maximum length of a string column; zero means unbounded.
	Size          int
	PrimaryKey    bool
	AutoIncrement bool
	NotNull       bool
	Unique        bool
	References    *Reference
}

// Key is a primary key value, ordered like EntityType.PrimaryKey().
type Key []any

// EntityType describes one of the fixed business entity kinds.
type EntityType struct {
	// Name is the Go-facing name, e.g. "Employee".
	Name string
	// Table is the registry key, e.g. "сотрудники".
	Table string
	// Label is the table name in the store, e.g. "Сотрудники".
	Label string
	// Signature is the set of lower-cased raw column names that identifies
	// this type when all of them are present in a header.
	Signature []string
	Columns   []Column

	goType   reflect.Type
	byField  map[string]int
	byColumn map[string]int
	fieldIdx []int // column index -> struct field index
}

func (t *EntityType) String() string { return t.Label }

// GoType returns the struct type of instances.
func (t *EntityType) GoType() reflect.Type { return t.goType }

// New returns a pointer to a zero instance.
func (t *EntityType) New() Entity {
	return reflect.New(t.goType).Interface().(Entity)
}

// ColumnByField returns the column mapped onto the canonical field name.
func (t *EntityType) ColumnByField(field string) (Column, bool) {
	i, ok := t.byField[field]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// ColumnByName returns the column with the given raw name (case-insensitive).
func (t *EntityType) ColumnByName(name string) (Column, bool) {
	i, ok := t.byColumn[strings.ToLower(name)]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// FieldFor maps a normalised raw column name onto this type's canonical
// field name.
func (t *EntityType) FieldFor(column string) (string, bool) {
	i, ok := t.byColumn[column]
	if !ok {
		return "", false
	}
	return t.Columns[i].Field, true
}

// ColumnNames returns the raw column names in declaration order.
func (t *EntityType) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// PrimaryKey returns the primary key columns in declaration order.
func (t *EntityType) PrimaryKey() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.PrimaryKey {
			out = append(out, c)
		}
	}
	return out
}

// newType binds a descriptor to its struct type. It panics when a column has
// no struct field with a matching db tag; the registry is static, so that is
// a programming error.
func newType(sample any, name, table, label string, signature []string, cols []Column) *EntityType {
	rt := reflect.TypeOf(sample)
	t := &EntityType{
		Name:      name,
		Table:     table,
		Label:     label,
		Signature: signature,
		Columns:   cols,
		goType:    rt,
		byField:   make(map[string]int, len(cols)),
		byColumn:  make(map[string]int, len(cols)),
		fieldIdx:  make([]int, len(cols)),
	}

	tags := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		if tag := rt.Field(i).Tag.Get("db"); tag != "" {
			tags[tag] = i
		}
	}
	for i, c := range cols {
		fi, ok := tags[c.Name]
		if !ok {
			panic(fmt.Sprintf("schema: %s has no field tagged db:%q", rt.Name(), c.Name))
		}
		t.fieldIdx[i] = fi
		t.byField[c.Field] = i
		t.byColumn[strings.ToLower(c.Name)] = i
	}
	return t
}
