// Package probe inspects a table file before it is imported: which entity type
// its header matches, how each column maps onto a field, and what kind of
// values each column holds.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/VikaRzyankina/CorpIS/internal/parser"
	"github.com/VikaRzyankina/CorpIS/internal/schema"
	"github.com/VikaRzyankina/CorpIS/internal/transformer/builtin"
	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

// Column describes one source column.
type Column struct {
	Header     string `json:"header"`
	Normalized string `json:"normalized"`
	// Field is the canonical field the column maps onto; empty when unmapped.
	Field string `json:"field,omitempty"`
	// Type is the value kind seen in the sample: integer, float, boolean,
	// date, text or empty.
	Type string `json:"type"`
}

// Result is the probe report for one file.
type Result struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
	// Table is the detected registry key; empty when detection failed.
	Table string `json:"table,omitempty"`
	// Missing lists signature columns that would be needed for detection
	// when no type matched, for the closest type.
	Missing []string `json:"missing,omitempty"`
	Columns []Column `json:"columns"`
}

// Probe reads path and reports on its columns.
func Probe(ctx context.Context, opts parser.Options, path string) (Result, error) {
	t, err := opts.Read(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return Inspect(path, t), nil
}

// Inspect builds the report for an already decoded table.
func Inspect(path string, t records.Table) Result {
	res := Result{Path: path, Rows: len(t.Rows)}

	et, err := schema.Detect(t.Columns)
	if err == nil {
		res.Table = et.Table
	} else {
		res.Missing = closestMissing(t.Columns)
	}

	for _, h := range t.Columns {
		c := Column{Header: h, Normalized: schema.Normalize(h), Type: columnType(t.Rows, h)}
		if et != nil {
			c.Field, _ = et.FieldFor(c.Normalized)
		} else if f, ok := schema.FieldFor(c.Normalized); ok {
			c.Field = f
		}
		res.Columns = append(res.Columns, c)
	}
	return res
}

// closestMissing returns the missing signature columns of the type that
// matches most of its signature.
func closestMissing(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[schema.Normalize(c)] = true
	}
	var best []string
	bestHit := 0
	for _, et := range schema.All() {
		var missing []string
		for _, s := range et.Signature {
			if !present[s] {
				missing = append(missing, s)
			}
		}
		if hit := len(et.Signature) - len(missing); hit > bestHit {
			best, bestHit = missing, hit
		}
	}
	return best
}

func columnType(rows []records.Record, col string) string {
	kind := "empty"
	for _, r := range rows {
		v := r[col]
		if records.IsAbsent(v) {
			continue
		}
		var k string
		switch x := v.(type) {
		case int64:
			k = "integer"
		case float64:
			k = "float"
		case bool:
			k = "boolean"
		case string:
			k = "text"
			if isDate(x) {
				k = "date"
			}
		default:
			k = "text"
		}
		switch {
		case kind == "empty":
			kind = k
		case kind != k:
			return "text"
		}
	}
	return kind
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range builtin.DateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Render formats res as "header,normalized,field,type" lines, one per column,
// or as indented JSON when asJSON is set.
func Render(res Result, asJSON bool) ([]byte, error) {
	if asJSON {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}

	var buf bytes.Buffer
	if res.Table != "" {
		fmt.Fprintf(&buf, "# table=%s rows=%d\n", res.Table, res.Rows)
	} else {
		fmt.Fprintf(&buf, "# table=? rows=%d missing=%s\n", res.Rows, strings.Join(res.Missing, "|"))
	}
	for _, c := range res.Columns {
		fmt.Fprintf(&buf, "%s,%s,%s,%s\n", c.Header, c.Normalized, c.Field, c.Type)
	}
	return buf.Bytes(), nil
}
