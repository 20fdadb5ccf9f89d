package ddl

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: column name (unquoted; quoting happens at render time)
//   - SQLType: dialect type, including any identity clause
//     (e.g. INTEGER, NVARCHAR(64), BIGINT GENERATED BY DEFAULT AS IDENTITY)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Unique: whether the column carries a UNIQUE constraint
//   - Default: raw default expression
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Unique     bool
	Default    string
}

// ForeignKey is a single-column reference to another table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// TableDef holds the table name and an ordered list of columns plus its
// foreign keys.
type TableDef struct {
	Name        string
	Columns     []ColumnDef
	ForeignKeys []ForeignKey
}
