// Package xlsx reads and writes Office Open XML workbooks with excelize.
// Only the first sheet is read; its first row is the header.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

// DefaultSheet is the sheet name used when writing.
const DefaultSheet = "Sheet1"

// ErrNoHeader is returned for a workbook whose first sheet is empty.
var ErrNoHeader = errors.New("xlsx: missing header")

// Parser reads and writes workbooks.
type Parser struct {
	// Sheet overrides DefaultSheet when writing.
	Sheet string
}

// NewParser returns a Parser writing to DefaultSheet.
func NewParser() *Parser { return &Parser{Sheet: DefaultSheet} }

// Parse reads the first sheet of the workbook in r. Cells are read raw, so
// dates stored as serial numbers arrive as numbers and are converted later
// by the coercer.
func (p *Parser) Parse(r io.Reader) (records.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return records.Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return records.Table{}, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return records.Table{}, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return records.Table{}, ErrNoHeader
	}
	text, err := textCells(f, sheets[0], rows)
	if err != nil {
		return records.Table{}, err
	}
	return records.FromCells(rows[0], rows[1:], func(r, c int) bool { return text[r][c] }), nil
}

// textCells marks the data cells stored as strings so that "0123" in a text
// cell is not read back as a number. Boolean cells are rewritten in place to
// true or false.
func textCells(f *excelize.File, sheet string, rows [][]string) ([][]bool, error) {
	text := make([][]bool, len(rows)-1)
	for r := 1; r < len(rows); r++ {
		text[r-1] = make([]bool, len(rows[r]))
		for c, v := range rows[r] {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s!%s: %w", sheet, cell, err)
			}
			switch typ {
			case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
				text[r-1][c] = true
			case excelize.CellTypeBool:
				rows[r][c] = strconv.FormatBool(v == "1" || strings.EqualFold(v, "true"))
			}
		}
	}
	return text, nil
}

// Write renders t into a single sheet workbook and streams it to w.
func (p *Parser) Write(w io.Writer, t records.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, rec := range t.Rows {
		for c, name := range t.Columns {
			v := cellValue(rec[name])
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// cellValue keeps numbers and booleans native and renders everything else,
// dates included, as text so a round trip re-reads the same strings.
func cellValue(v any) any {
	if records.IsAbsent(v) {
		return nil
	}
	switch v.(type) {
	case int64, int, float64, bool:
		return v
	}
	return records.FormatValue(v)
}
