package builtin

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"
	"github.com/xuri/excelize/v2"

	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

// Category names the rule that converted (or failed to convert) a value.
type Category string

const (
	CategoryDate       Category = "date"
	CategoryTimestamp  Category = "timestamp"
	CategoryBoolean    Category = "boolean"
	CategoryAmount     Category = "amount"
	CategoryIdentifier Category = "identifier"
	CategoryText       Category = "text"
)

// Rule converts values of fields it applies to. Applies receives the
// lower-cased field name; a rule that does not handle the value's Go type
// reports false so evaluation continues with the next rule.
type Rule struct {
	Category Category
	Applies  func(field string, v any) bool
	Convert  func(v any) (any, error)
}

// ValueCoercionError reports a cell that matched a rule but could not be
// converted by it.
type ValueCoercionError struct {
	Field    string
	Value    any
	Category Category
	Err      error
}

func (e *ValueCoercionError) Error() string {
	return fmt.Sprintf("field %s: cannot convert %q to %s: %v", e.Field, records.FormatValue(e.Value), e.Category, e.Err)
}

func (e *ValueCoercionError) Unwrap() error { return e.Err }

// DateLayouts are tried in order for date fields. Day and month may have one
// or two digits.
var DateLayouts = []string{"2006-1-2", "2.1.2006"}

// TimestampLayouts are tried in order for timestamp fields.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// BooleanFields lists the flag fields, in both vocabularies.
var BooleanFields = map[string]bool{
	"dismissed": true, "active": true, "completed": true, "paid": true,
	"уволен": true, "активен": true, "выполнена": true, "оплачено": true,
}

// DefaultRules is the ordered rule table used by Coerce when Rules is nil.
var DefaultRules = []Rule{
	{
		Category: CategoryDate,
		Applies: func(f string, v any) bool {
			return containsAny(f, "date", "дата", "deadline", "срок") &&
				!isTimestampField(f) && isDateLike(v)
		},
		Convert: toDate,
	},
	{
		Category: CategoryTimestamp,
		Applies: func(f string, v any) bool {
			return isTimestampField(f) && isDateLike(v)
		},
		Convert: toTimestamp,
	},
	{
		Category: CategoryBoolean,
		Applies: func(f string, v any) bool {
			return BooleanFields[f] && isBoolLike(v)
		},
		Convert: toBool,
	},
	{
		Category: CategoryAmount,
		Applies:  func(f string, _ any) bool { return f == "amount" || f == "сумма" },
		Convert:  toAmount,
	},
	{
		Category: CategoryIdentifier,
		Applies: func(f string, _ any) bool {
			return f == "id" || strings.Contains(f, "id") || strings.HasSuffix(f, "_id")
		},
		Convert: toIdentifier,
	},
	{
		Category: CategoryText,
		Applies:  func(string, any) bool { return true },
		Convert: func(v any) (any, error) {
			return strings.TrimSpace(records.FormatValue(v)), nil
		},
	},
}

// Coerce converts raw cell values into typed values by walking an ordered
// rule table.
type Coerce struct {
	Rules []Rule
}

// Value converts raw for the given canonical field. The first applicable rule
// wins; its failure is reported as *ValueCoercionError.
func (c Coerce) Value(raw any, field string) (any, error) {
	rules := c.Rules
	if rules == nil {
		rules = DefaultRules
	}
	f := strings.ToLower(field)
	for _, r := range rules {
		if !r.Applies(f, raw) {
			continue
		}
		v, err := r.Convert(raw)
		if err != nil {
			return nil, &ValueCoercionError{Field: field, Value: raw, Category: r.Category, Err: err}
		}
		return v, nil
	}
	return raw, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isTimestampField keeps "last_update" out of the date rule even though it
// contains "date".
func isTimestampField(f string) bool {
	return containsAny(f, "update", "обновление")
}

func isDateLike(v any) bool {
	switch v.(type) {
	case string, time.Time, civil.Date, int64, int, float64:
		return true
	}
	return false
}

func isBoolLike(v any) bool {
	switch v.(type) {
	case bool, int64, int, int32:
		return true
	}
	return false
}

func serial(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func toDate(v any) (any, error) {
	switch x := v.(type) {
	case civil.Date:
		return x, nil
	case time.Time:
		return civil.DateOf(x), nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range DateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return civil.DateOf(t), nil
			}
		}
		return nil, fmt.Errorf("expected one of %s", strings.Join(DateLayouts, ", "))
	}
	n, _ := serial(v)
	t, err := excelize.ExcelDateToTime(n, false)
	if err != nil {
		return nil, err
	}
	return civil.DateOf(t), nil
}

func toTimestamp(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case civil.Date:
		return x.In(time.UTC), nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range TimestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("not an ISO-8601 date-time")
	}
	n, _ := serial(v)
	return excelize.ExcelDateToTime(n, false)
}

func toBool(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case int:
		return x != 0, nil
	case int32:
		return x != 0, nil
	}
	return nil, fmt.Errorf("unsupported type %T", v)
}

func toAmount(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number")
		}
		return f, nil
	}
	return nil, fmt.Errorf("unsupported type %T", v)
}

func toIdentifier(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		return truncID(x)
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncID(f)
		}
		return nil, fmt.Errorf("not an integer")
	}
	return nil, fmt.Errorf("unsupported type %T", v)
}

// truncID truncates x toward zero. Values outside the int64 range are
// rejected rather than wrapped.
func truncID(x float64) (any, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, fmt.Errorf("not a finite number")
	}
	if x >= math.MaxInt64 || x < math.MinInt64 {
		return nil, fmt.Errorf("%s is out of range", strconv.FormatFloat(x, 'g', -1, 64))
	}
	return int64(x), nil
}
