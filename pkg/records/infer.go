package records

import (
	"strconv"
	"strings"
)

// FromStrings builds a Table from a header and string cells, typing each
// column by its non-empty cells: all integers become int64, all numbers
// float64, all true/false bool, anything else stays string. A number is only
// typed when it prints back unchanged, so "0123" and "1.10" stay strings.
// Empty cells are absent (nil). Short rows are padded with absent values and
// cells beyond the header are dropped.
func FromStrings(header []string, rows [][]string) Table {
	return FromCells(header, rows, nil)
}

// FromCells is FromStrings for sources that know some cells hold text.
// Cells for which text(row, col) reports true stay strings and take no part
// in typing their column. text may be nil.
func FromCells(header []string, rows [][]string, text func(row, col int) bool) Table {
	if text == nil {
		text = func(int, int) bool { return false }
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	kinds := make([]cellKind, len(cols))
	for i := range cols {
		kinds[i] = inferColumn(rows, i, text)
	}

	out := make([]Record, 0, len(rows))
	for r, row := range rows {
		if blankRow(row) {
			continue
		}
		rec := make(Record, len(cols))
		for i, name := range cols {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				rec[name] = nil
				continue
			}
			s := strings.TrimSpace(row[i])
			if text(r, i) {
				rec[name] = s
				continue
			}
			rec[name] = kinds[i].parse(s)
		}
		out = append(out, rec)
	}
	return Table{Columns: cols, Rows: out}
}

type cellKind int

const (
	kindEmpty cellKind = iota
	kindInt
	kindFloat
	kindBool
	kindString
)

func (k cellKind) parse(s string) any {
	switch k {
	case kindInt:
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	case kindFloat:
		f, _ := strconv.ParseFloat(s, 64)
		return f
	case kindBool:
		return strings.EqualFold(s, "true")
	}
	return s
}

func classify(s string) cellKind {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return kindInt
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == s {
		return kindFloat
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return kindBool
	}
	return kindString
}

// inferColumn widens int to float; any other mix falls back to string.
func inferColumn(rows [][]string, col int, text func(row, col int) bool) cellKind {
	kind := kindEmpty
	for r, row := range rows {
		if col >= len(row) || text(r, col) {
			continue
		}
		s := strings.TrimSpace(row[col])
		if s == "" {
			continue
		}
		k := classify(s)
		switch {
		case kind == kindEmpty || kind == k:
			kind = k
		case (kind == kindInt && k == kindFloat) || (kind == kindFloat && k == kindInt):
			kind = kindFloat
		default:
			return kindString
		}
	}
	return kind
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
