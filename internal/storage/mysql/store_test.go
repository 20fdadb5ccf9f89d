package mysql

import (
	"context"
	"strings"
	"testing"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

func TestColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		col  schema.Column
		want string
	}{
		{schema.Column{Type: schema.TypeInt, AutoIncrement: true}, "BIGINT AUTO_INCREMENT"},
		{schema.Column{Type: schema.TypeInt}, "BIGINT"},
		{schema.Column{Type: schema.TypeBool}, "BOOLEAN"},
		{schema.Column{Type: schema.TypeAmount}, "DECIMAL(18, 2)"},
		{schema.Column{Type: schema.TypeDate}, "DATE"},
		{schema.Column{Type: schema.TypeTimestamp}, "DATETIME(6)"},
		{schema.Column{Type: schema.TypeString, Size: 32}, "VARCHAR(32)"},
	}
	for _, tt := range tests {
		if got := ColumnType(tt.col); got != tt.want {
			t.Errorf("ColumnType(%+v) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	stmt, err := Dialect.CreateTableSQL(schema.ProjectType)
	if err != nil {
		t.Fatalf("CreateTableSQL: %v", err)
	}
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS `Проект`",
		"`договор` BIGINT UNIQUE",
		"PRIMARY KEY (`название`)",
		"FOREIGN KEY (`клиент`) REFERENCES `Клиент` (`id`)",
	} {
		if !strings.Contains(stmt, want) {
			t.Errorf("statement missing %q:\n%s", want, stmt)
		}
	}
}

func TestOpenRejectsBadDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "no-slash-here"); err == nil {
		t.Fatalf("expected DSN error")
	}
}
