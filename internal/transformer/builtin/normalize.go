package builtin

import (
	"strings"

	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

var cellSpaces = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\ufeff", "")

// Normalize cleans string cells: no-break spaces become spaces, surrounding
// whitespace is trimmed and blank cells become absent (nil). Input records
// are not modified.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, len(in))
	for i, r := range in {
		c := make(records.Record, len(r))
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				c[k] = v
				continue
			}
			s = strings.TrimSpace(cellSpaces.Replace(s))
			if s == "" {
				c[k] = nil
				continue
			}
			c[k] = s
		}
		out[i] = c
	}
	return out
}
