// Package parser reads table files into records.Table and writes them back,
// dispatching on the file extension.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/VikaRzyankina/CorpIS/internal/datasource/file"
	pcsv "github.com/VikaRzyankina/CorpIS/internal/parser/csv"
	"github.com/VikaRzyankina/CorpIS/internal/parser/xlsx"
	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

// Parser decodes one table.
type Parser interface {
	Parse(r io.Reader) (records.Table, error)
}

// Writer encodes one table.
type Writer interface {
	Write(w io.Writer, t records.Table) error
}

// Codec is a format that can be read and written.
type Codec interface {
	Parser
	Writer
}

// Extensions lists the accepted table file extensions.
var Extensions = []string{".csv", ".ods", ".xls", ".xlsx"}

// Options tunes reading and writing.
type Options struct {
	CSV pcsv.Options

	// HeaderMap renames source headers before detection, e.g.
	// "ФИО сотрудника" -> "фио".
	HeaderMap map[string]string
}

// DefaultOptions accepts stray quotes in CSV cells.
var DefaultOptions = Options{CSV: pcsv.Options{LazyQuotes: true}}

// CodecFor returns the codec for path's extension using DefaultOptions.
func CodecFor(path string) (Codec, error) { return DefaultOptions.CodecFor(path) }

// Read decodes path using DefaultOptions.
func Read(ctx context.Context, path string) (records.Table, error) {
	return DefaultOptions.Read(ctx, path)
}

// Write encodes t into path using DefaultOptions.
func Write(path string, t records.Table) error { return DefaultOptions.Write(path, t) }

// CodecFor returns the codec for path's extension.
func (o Options) CodecFor(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return pcsv.NewParser(o.CSV), nil
	case ".xlsx":
		return xlsx.NewParser(), nil
	case ".xls", ".ods":
		return nil, &UnsupportedFormatError{Path: path, Ext: ext, Reason: "no decoder for this workbook format, save it as .xlsx or .csv"}
	}
	return nil, &UnsupportedFormatError{Path: path, Ext: ext}
}

// Read opens path and decodes it into a table.
func (o Options) Read(ctx context.Context, path string) (records.Table, error) {
	src := file.NewLocal(path)
	rc, err := src.Open(ctx)
	if errors.Is(err, os.ErrNotExist) {
		return records.Table{}, &SourceNotFoundError{Path: path}
	}
	if err != nil {
		return records.Table{}, err
	}
	defer rc.Close()

	c, err := o.CodecFor(path)
	if err != nil {
		return records.Table{}, err
	}
	t, err := c.Parse(rc)
	if err != nil {
		return records.Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return renameColumns(t, o.HeaderMap), nil
}

// Write encodes t into path, creating parent directories as needed.
func (o Options) Write(path string, t records.Table) (err error) {
	c, err := o.CodecFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := c.Write(f, t); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renameColumns(t records.Table, m map[string]string) records.Table {
	for i, c := range t.Columns {
		to, ok := m[c]
		if !ok || to == c {
			continue
		}
		t.Columns[i] = to
		for _, rec := range t.Rows {
			if v, present := rec[c]; present {
				delete(rec, c)
				rec[to] = v
			}
		}
	}
	return t
}
