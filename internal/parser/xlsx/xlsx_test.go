package xlsx

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

func TestWriteParseRoundTrip(t *testing.T) {
	t.Parallel()

	in := records.Table{
		Columns: []string{"id", "сумма", "оплачено", "дата_обращения"},
		Rows: []records.Record{
			{"id": int64(1), "сумма": 1500.5, "оплачено": true, "дата_обращения": civil.Date{Year: 2024, Month: time.January, Day: 9}},
			{"id": int64(2), "сумма": 10.0, "оплачено": false, "дата_обращения": nil},
		},
	}

	var buf bytes.Buffer
	p := NewParser()
	require.NoError(t, p.Write(&buf, in))

	out, err := p.Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, in.Columns, out.Columns)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, int64(1), out.Rows[0]["id"])
	assert.Equal(t, 1500.5, out.Rows[0]["сумма"])
	assert.Equal(t, true, out.Rows[0]["оплачено"])
	assert.Equal(t, false, out.Rows[1]["оплачено"])
	assert.Equal(t, "2024-01-09", out.Rows[0]["дата_обращения"])
	assert.Nil(t, out.Rows[1]["дата_обращения"])
}

func TestParseKeepsTextCells(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "телефон"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{1, "01234567890"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{2, "79001234567"}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	out, err := NewParser().Parse(&buf)
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, int64(1), out.Rows[0]["id"])
	assert.Equal(t, "01234567890", out.Rows[0]["телефон"])
	assert.Equal(t, "79001234567", out.Rows[1]["телефон"])
}

func TestParseReadsFirstSheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	idx, err := f.NewSheet("Данные")
	require.NoError(t, err)
	f.SetActiveSheet(idx)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"сумма", "оплачено"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{44270, 1}))
	require.NoError(t, f.SetSheetRow("Данные", "A1", &[]any{"тематика"}))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	out, err := NewParser().Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"сумма", "оплачено"}, out.Columns)
	assert.Equal(t, int64(44270), out.Rows[0]["сумма"])
}

func TestParseEmptyWorkbook(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := excelize.NewFile().WriteTo(&buf)
	require.NoError(t, err)

	_, err = NewParser().Parse(&buf)
	assert.True(t, errors.Is(err, ErrNoHeader), "err = %v", err)
}
