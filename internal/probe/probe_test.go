package probe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VikaRzyankina/CorpIS/internal/parser"
	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	tbl := records.FromStrings(
		[]string{"ФИО", "Дата_найма", "уволен", "телефон", "заметки"},
		[][]string{
			{"Иванов И.И.", "2024-01-15", "false", "79001234567", ""},
			{"Петров П.П.", "15.02.2024", "true", "79007654321", ""},
		},
	)
	res := Inspect("employees.csv", tbl)

	if res.Table != "сотрудники" {
		t.Fatalf("Table = %q, want сотрудники", res.Table)
	}
	if res.Rows != 2 {
		t.Fatalf("Rows = %d, want 2", res.Rows)
	}
	want := []Column{
		{Header: "ФИО", Normalized: "фио", Field: "full_name", Type: "text"},
		{Header: "Дата_найма", Normalized: "дата_найма", Field: "hire_date", Type: "date"},
		{Header: "уволен", Normalized: "уволен", Field: "dismissed", Type: "boolean"},
		{Header: "телефон", Normalized: "телефон", Field: "phone", Type: "integer"},
		{Header: "заметки", Normalized: "заметки", Type: "empty"},
	}
	if len(res.Columns) != len(want) {
		t.Fatalf("Columns = %+v", res.Columns)
	}
	for i, c := range res.Columns {
		if c != want[i] {
			t.Errorf("Columns[%d] = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestInspectUndetected(t *testing.T) {
	t.Parallel()

	tbl := records.FromStrings([]string{"сумма", "комментарий"}, [][]string{{"10.5", "x"}, {"3", "y"}})
	res := Inspect("p.csv", tbl)

	if res.Table != "" {
		t.Fatalf("Table = %q, want empty", res.Table)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "оплачено" {
		t.Fatalf("Missing = %v, want [оплачено]", res.Missing)
	}
	if res.Columns[0].Field != "amount" || res.Columns[0].Type != "float" {
		t.Fatalf("Columns[0] = %+v", res.Columns[0])
	}
}

func TestProbeAndRender(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "topics.csv")
	if err := os.WriteFile(p, []byte("тематика,ожидаемая_аудитория\nФинтех,Банки\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Probe(context.Background(), parser.DefaultOptions, p)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	text, err := Render(res, false)
	if err != nil {
		t.Fatal(err)
	}
	wantText := "# table=тематики rows=1\n" +
		"тематика,тематика,topic,text\n" +
		"ожидаемая_аудитория,ожидаемая_аудитория,expected_audience,text\n"
	if string(text) != wantText {
		t.Fatalf("Render text =\n%s\nwant\n%s", text, wantText)
	}

	js, err := Render(res, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(js), `"table": "тематики"`) {
		t.Fatalf("Render json = %s", js)
	}
}

func TestProbeMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Probe(context.Background(), parser.DefaultOptions, filepath.Join(t.TempDir(), "none.csv")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
