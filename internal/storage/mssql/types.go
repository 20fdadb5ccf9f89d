package mssql

import (
	"fmt"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

// ColumnType maps a column onto a SQL Server column type. Keys are plain
// BIGINT: imported files carry their own ids, which IDENTITY columns would
// refuse without IDENTITY_INSERT.
func ColumnType(c schema.Column) string {
	switch c.Type {
	case schema.TypeInt:
		return "BIGINT"
	case schema.TypeBool:
		return "BIT"
	case schema.TypeAmount:
		return "DECIMAL(18, 2)"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTimestamp:
		return "DATETIME2"
	}
	if c.Size > 0 {
		return fmt.Sprintf("NVARCHAR(%d)", c.Size)
	}
	return "NVARCHAR(MAX)"
}
