// Package transformer turns raw spreadsheet rows into validated rows keyed by
// canonical field names. Rows are transformed independently: a bad cell fails
// its own row and never the batch.
package transformer

import (
	"fmt"
	"sort"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
	"github.com/VikaRzyankina/CorpIS/internal/transformer/builtin"
	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

// Transformer is a record-level preprocessing step.
type Transformer interface{ Apply([]records.Record) []records.Record }

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// ValidatedRow maps canonical field names onto typed values. Absent source
// cells have no key.
type ValidatedRow = schema.Fields

// RowError is a row-scoped failure; Row is the 1-based position in the batch.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("Row %d: %v", e.Row, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// MapColumn maps a raw column name onto its canonical field name. Names
// missing from the vocabulary come back normalised but otherwise unchanged.
func MapColumn(raw string) string {
	n := schema.Normalize(raw)
	if f, ok := schema.FieldFor(n); ok {
		return f
	}
	return n
}

// Rows is the configured row pipeline: cell preprocessing, then mapping and
// coercion against one entity type.
type Rows struct {
	Entity *schema.EntityType
	Pre    Chain
	Coerce builtin.Coerce
}

// New returns the default pipeline for et.
func New(et *schema.EntityType) *Rows {
	return &Rows{Entity: et, Pre: Chain{builtin.Normalize{}}}
}

// Result is the outcome of a batch. Ordinals[i] is the 1-based source
// position of Rows[i].
type Result struct {
	Rows     []ValidatedRow
	Ordinals []int
	Errors   []RowError
}

// Row preprocesses and transforms one raw row; raw itself is not modified.
// It is atomic: the first failing cell aborts the row. Columns are visited in
// sorted order so failures are reproducible.
func (p *Rows) Row(raw records.Record) (ValidatedRow, error) {
	if len(p.Pre) > 0 {
		if pre := p.Pre.Apply([]records.Record{raw}); len(pre) == 1 {
			raw = pre[0]
		}
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(ValidatedRow, len(raw))
	for _, k := range keys {
		v := raw[k]
		if records.IsAbsent(v) {
			continue
		}
		field := p.mapColumn(k)
		cv, err := p.Coerce.Value(v, field)
		if err != nil {
			return nil, err
		}
		out[field] = cv
	}
	return out, nil
}

// Batch preprocesses and transforms rows, collecting per-row failures.
func (p *Rows) Batch(rows []records.Record) Result {
	res := Result{
		Rows:     make([]ValidatedRow, 0, len(rows)),
		Ordinals: make([]int, 0, len(rows)),
	}
	for i, r := range rows {
		vr, err := p.Row(r)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Err: err})
			continue
		}
		res.Rows = append(res.Rows, vr)
		res.Ordinals = append(res.Ordinals, i+1)
	}
	return res
}

func (p *Rows) mapColumn(raw string) string {
	if p.Entity != nil {
		if f, ok := p.Entity.FieldFor(schema.Normalize(raw)); ok {
			return f
		}
	}
	return MapColumn(raw)
}

// TransformRow transforms one raw row with the default pipeline and no
// entity type.
func TransformRow(raw records.Record) (ValidatedRow, error) {
	return New(nil).Row(raw)
}

// TransformBatch transforms rows for et, returning the surviving rows in
// order and one RowError per failed row.
func TransformBatch(rows []records.Record, et *schema.EntityType) ([]ValidatedRow, []RowError) {
	res := New(et).Batch(rows)
	return res.Rows, res.Errors
}
