package mssql

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-sql/civil"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

func TestColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		col  schema.Column
		want string
	}{
		{schema.Column{Type: schema.TypeInt}, "BIGINT"},
		{schema.Column{Type: schema.TypeBool}, "BIT"},
		{schema.Column{Type: schema.TypeAmount}, "DECIMAL(18, 2)"},
		{schema.Column{Type: schema.TypeDate}, "DATE"},
		{schema.Column{Type: schema.TypeTimestamp}, "DATETIME2"},
		{schema.Column{Type: schema.TypeString, Size: 64}, "NVARCHAR(64)"},
		{schema.Column{Type: schema.TypeString}, "NVARCHAR(MAX)"},
	}
	for _, tt := range tests {
		if got := ColumnType(tt.col); got != tt.want {
			t.Errorf("ColumnType(%+v) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	stmt, err := Dialect.CreateTableSQL(schema.TeamType)
	if err != nil {
		t.Fatalf("CreateTableSQL: %v", err)
	}
	for _, want := range []string{
		"IF OBJECT_ID(N'[Команды]', N'U') IS NULL",
		"CREATE TABLE [Команды]",
		"[id] BIGINT NOT NULL",
		"PRIMARY KEY ([id])",
		"FOREIGN KEY ([лидер_команды]) REFERENCES [Сотрудники] ([id])",
	} {
		if !strings.Contains(stmt, want) {
			t.Errorf("statement missing %q:\n%s", want, stmt)
		}
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	if got := Quote("a]b"); got != "[a]]b]" {
		t.Fatalf("Quote = %q", got)
	}
}

func TestBindValue(t *testing.T) {
	t.Parallel()

	tm := time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC)
	if got := bindValue(schema.Column{Type: schema.TypeDate}, tm); got != (civil.Date{Year: 2021, Month: time.March, Day: 15}) {
		t.Fatalf("date bound as %#v", got)
	}
	if got := bindValue(schema.Column{Type: schema.TypeString}, "x"); got != nil {
		t.Fatalf("non-time values should pass through, got %#v", got)
	}
}

func TestOpenRejectsBadDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "sqlserver://host?connection+timeout=abc"); err == nil {
		t.Fatalf("expected DSN error")
	}
}
