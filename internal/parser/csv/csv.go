// Package csv reads and writes delimited tables. The first line is the
// header; cells are typed per column by records.FromStrings.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

// Options configures the CSV reader and writer. Zero values select ',' and
// strict quoting.
type Options struct {
	// Comma specifies the field delimiter.
	Comma rune

	// LazyQuotes lets a quote appear in an unquoted field.
	LazyQuotes bool

	// NoBOM disables the UTF-8 BOM the writer emits by default.
	NoBOM bool
}

// Parser reads and writes CSV according to Options.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// ErrNoHeader is returned for an input without a header line.
var ErrNoHeader = errors.New("csv: missing header")

// Parse reads the whole input into a typed table. Rows may be shorter or
// longer than the header.
func (p *Parser) Parse(r io.Reader) (records.Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return records.Table{}, ErrNoHeader
	}
	if err != nil {
		return records.Table{}, fmt.Errorf("read csv header: %w", err)
	}
	header = StripHeaderBOM(header)

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records.Table{}, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return records.FromStrings(header, rows), nil
}

// Write renders t with a leading UTF-8 BOM so spreadsheet tools detect the
// encoding. Absent values become empty cells.
func (p *Parser) Write(w io.Writer, t records.Table) error {
	if !p.opt.NoBOM {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if p.opt.Comma != 0 {
		cw.Comma = p.opt.Comma
	}
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	line := make([]string, len(t.Columns))
	for _, rec := range t.Rows {
		for i, c := range t.Columns {
			line[i] = records.FormatValue(rec[c])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
