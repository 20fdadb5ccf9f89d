// Package records defines the row and table shapes exchanged between the
// table readers, the transformer, and the exporters.
package records

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang-sql/civil"
)

// Record is one row keyed by raw column name. Values are string, int64,
// float64, bool, time.Time, civil.Date, or absent (nil).
type Record map[string]any

// Table is an ordered header plus its rows, as produced by a table reader or
// consumed by a table writer.
type Table struct {
	Columns []string
	Rows    []Record
}

// TimestampLayout is the layout used when a timestamp is written to a cell.
const TimestampLayout = "2006-01-02T15:04:05.999999999"

// IsAbsent reports whether v is the absence marker: nil or a NaN float.
func IsAbsent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// FormatValue renders v as cell text. Absent values render as "".
func FormatValue(v any) string {
	if IsAbsent(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case civil.Date:
		return x.String()
	case time.Time:
		return x.Format(TimestampLayout)
	}
	return fmt.Sprint(v)
}
