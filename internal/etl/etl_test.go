package etl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VikaRzyankina/CorpIS/internal/parser"
	"github.com/VikaRzyankina/CorpIS/internal/schema"
	"github.com/VikaRzyankina/CorpIS/internal/storage"
	"github.com/VikaRzyankina/CorpIS/internal/storage/sqlite"
	"github.com/VikaRzyankina/CorpIS/internal/transformer"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	ctx := context.Background()
	s, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.EnsureSchema(ctx))
	return New(s)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const positionsCSV = "должность,обязанности\nАналитик,Сбор требований\nРазработчик,Написание кода\n"

func TestImportDetectsEntityAndExportsXLSX(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	dir := t.TempDir()

	res, err := r.ImportFile(ctx, writeFile(t, dir, "roles.csv", positionsCSV), "")
	require.NoError(t, err)
	assert.Equal(t, schema.PositionType, res.Entity)
	assert.Equal(t, 2, res.Read)
	assert.Equal(t, 2, res.Columns)
	assert.Equal(t, 2, res.Outcome.Success)
	assert.True(t, res.OK())
	assert.NotEmpty(t, res.RunID)

	out := filepath.Join(dir, "out", "должности.xlsx")
	exp, err := r.ExportTable(ctx, "Должности", out)
	require.NoError(t, err)
	assert.Equal(t, 2, exp.Rows)
	assert.False(t, exp.Empty())

	tbl, err := parser.Read(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"должность", "обязанности"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Аналитик", tbl.Rows[0]["должность"])
	assert.Equal(t, "Написание кода", tbl.Rows[1]["обязанности"])
}

func TestImportCollectsRejectedRows(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	p := writeFile(t, t.TempDir(), "payments.csv", "сумма,оплачено\n100.5,true\nabc,false\n")

	res, err := r.ImportFile(ctx, p, "")
	require.NoError(t, err)
	assert.Equal(t, schema.PaymentType, res.Entity)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Rejected[0].Row)
	assert.Equal(t, 1, res.Outcome.Success)
	assert.False(t, res.OK())
}

func TestImportIsolatesLoadFailures(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := r.ImportFile(ctx, writeFile(t, dir, "p.csv", positionsCSV), "должности")
	require.NoError(t, err)

	employees := "фио,email,телефон,дата_найма,должность,уволен\n" +
		"Иванов И.И.,ivanov@corp.ru,79001234567,2024-01-15,Аналитик,false\n" +
		"Петров П.П.,petrov@corp.ru,79007654321,2024-02-01,Директор,false\n"
	res, err := r.ImportFile(ctx, writeFile(t, dir, "e.csv", employees), "")
	require.NoError(t, err)
	assert.Equal(t, schema.EmployeeType, res.Entity)
	assert.Empty(t, res.Rejected)
	assert.Equal(t, 2, res.Outcome.Total)
	assert.Equal(t, 1, res.Outcome.Success)
	assert.Equal(t, 1, res.Outcome.Failed)
	require.Len(t, res.Outcome.Errors, 1)
	assert.Contains(t, res.Outcome.Errors[0], "Row 2")
}

func TestImportFileErrors(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := r.ImportFile(ctx, filepath.Join(dir, "missing.csv"), "")
	var nf *parser.SourceNotFoundError
	assert.True(t, errors.As(err, &nf), "err = %v", err)

	_, err = r.ImportFile(ctx, writeFile(t, dir, "x.csv", "foo,bar\n1,2\n"), "")
	var de *schema.DetectionError
	assert.True(t, errors.As(err, &de), "err = %v", err)

	_, err = r.ImportFile(ctx, writeFile(t, dir, "y.csv", positionsCSV), "nope")
	var ue *schema.UnknownEntityTypeError
	assert.True(t, errors.As(err, &ue), "err = %v", err)
}

func TestImportDir(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, dir, "a_positions.csv", positionsCSV)
	writeFile(t, dir, "b_unknown.csv", "foo,bar\n1,2\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	var seen []string
	sum, err := r.ImportDir(ctx, dir, func(fr FileResult) {
		seen = append(seen, filepath.Base(fr.Path))
	})
	require.NoError(t, err)
	assert.Equal(t, DirSummary{Files: 2, Succeeded: 1, Failed: 1}, sum)
	assert.Equal(t, []string{"a_positions.csv", "b_unknown.csv"}, seen)
}

func TestExportEmptyTable(t *testing.T) {
	r := newRunner(t)
	out := filepath.Join(t.TempDir(), "клиент.csv")

	res, err := r.ExportTable(context.Background(), "клиент", out)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	_, statErr := os.Stat(out)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestExportAll(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()
	dir := t.TempDir()
	_, err := r.ImportFile(ctx, writeFile(t, dir, "p.csv", positionsCSV), "")
	require.NoError(t, err)

	out := filepath.Join(dir, "export")
	results, err := r.ExportAll(ctx, out, "csv")
	require.NoError(t, err)
	require.Len(t, results, len(schema.Tables()))

	for i, table := range schema.Tables() {
		res := results[i]
		require.NoError(t, res.Err, table)
		assert.Equal(t, table, res.Entity.Table)
		if table == "должности" {
			assert.Equal(t, 2, res.Rows)
			assert.FileExists(t, filepath.Join(out, "должности.csv"))
			continue
		}
		assert.True(t, res.Empty(), table)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	out, err := storage.Load(ctx, r.Store, schema.PositionType, []schema.Fields{
		{"position": "Аналитик", "responsibilities": "Сбор требований"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Success, out.Errors)
	out, err = storage.Load(ctx, r.Store, schema.EmployeeType, []schema.Fields{{
		"full_name": "Иванов И.И.",
		"email":     "ivanov@corp.ru",
		"phone":     "01234567890",
		"hire_date": civil.Date{Year: 2021, Month: time.March, Day: 5},
		"position":  "Аналитик",
		"dismissed": false,
	}})
	require.NoError(t, err)
	require.Equal(t, 1, out.Success, out.Errors)

	var stored []schema.Entity
	require.NoError(t, storage.WithUnitOfWork(ctx, r.Store, func(uow storage.UnitOfWork) error {
		stored, err = uow.FetchAll(ctx, schema.EmployeeType)
		return err
	}))
	require.Len(t, stored, 1)
	want := schema.FieldValues(stored[0])

	for _, ext := range []string{"csv", "xlsx"} {
		ext := ext
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "сотрудники."+ext)
			res, err := r.ExportTable(ctx, "сотрудники", path)
			require.NoError(t, err)
			require.Equal(t, 1, res.Rows)

			tbl, err := parser.Read(ctx, path)
			require.NoError(t, err)
			rows, rejected := transformer.TransformBatch(tbl.Rows, schema.EmployeeType)
			require.Empty(t, rejected)
			require.Len(t, rows, 1)
			assert.Equal(t, want, rows[0])
		})
	}
}
