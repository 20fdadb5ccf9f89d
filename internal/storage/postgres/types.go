package postgres

import (
	"fmt"
	"strings"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

// ColumnType maps a column onto a Postgres column type.
//
//	int (auto)  -> BIGINT GENERATED BY DEFAULT AS IDENTITY
//	int         -> BIGINT
//	bool        -> BOOLEAN
//	amount      -> NUMERIC(18, 2)
//	date        -> DATE
//	timestamp   -> TIMESTAMP
//	string(n)   -> VARCHAR(n), TEXT when unbounded
func ColumnType(c schema.Column) string {
	switch c.Type {
	case schema.TypeInt:
		if c.AutoIncrement {
			return "BIGINT GENERATED BY DEFAULT AS IDENTITY"
		}
		return "BIGINT"
	case schema.TypeBool:
		return "BOOLEAN"
	case schema.TypeAmount:
		return "NUMERIC(18, 2)"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTimestamp:
		return "TIMESTAMP"
	}
	if c.Size > 0 {
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	}
	return "TEXT"
}

// pgIdent double-quotes an identifier, escaping embedded quotes.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgIdent(c)
	}
	return out
}
