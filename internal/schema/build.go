package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

// Fields maps canonical field names onto typed values.
type Fields = map[string]any

var (
	errUnknownField = errors.New("unknown field")
	errPrimaryKey   = errors.New("primary key fields cannot be updated")
)

// Build constructs an instance of t from canonical field values. Fields are
// applied in sorted order so the first reported failure is deterministic.
func Build(t *EntityType, fields Fields) (Entity, error) {
	e := t.New()
	rv := reflect.ValueOf(e).Elem()
	for _, name := range sortedKeys(fields) {
		i, ok := t.byField[name]
		if !ok {
			return nil, fmt.Errorf("unknown field %q for %s", name, t.Name)
		}
		if err := assign(rv.Field(t.fieldIdx[i]), t.Columns[i], fields[name]); err != nil {
			return nil, &FieldError{Type: t.Name, Field: name, Err: err}
		}
	}
	return e, nil
}

// Apply sets the given canonical fields on an existing instance. Primary key
// fields are rejected.
func Apply(e Entity, fields Fields) error {
	t := e.EntityType()
	rv := reflect.ValueOf(e).Elem()
	for _, name := range sortedKeys(fields) {
		i, ok := t.byField[name]
		if !ok {
			return &FieldError{Type: t.Name, Field: name, Err: errUnknownField}
		}
		if t.Columns[i].PrimaryKey {
			return &FieldError{Type: t.Name, Field: name, Err: errPrimaryKey}
		}
		if err := assign(rv.Field(t.fieldIdx[i]), t.Columns[i], fields[name]); err != nil {
			return &FieldError{Type: t.Name, Field: name, Err: err}
		}
	}
	return nil
}

// FromColumns constructs an instance from values keyed by raw column name, as
// scanned from the store. Unknown columns are ignored.
func FromColumns(t *EntityType, values map[string]any) (Entity, error) {
	e := t.New()
	rv := reflect.ValueOf(e).Elem()
	for name, v := range values {
		i, ok := t.byColumn[strings.ToLower(name)]
		if !ok {
			continue
		}
		if err := assign(rv.Field(t.fieldIdx[i]), t.Columns[i], v); err != nil {
			return nil, &FieldError{Type: t.Name, Field: t.Columns[i].Field, Err: err}
		}
	}
	return e, nil
}

// Values returns every column of e keyed by raw column name. NULL columns map
// to nil; dates and timestamps are time.Time.
func Values(e Entity) map[string]any {
	t := e.EntityType()
	rv := reflect.ValueOf(e).Elem()
	out := make(map[string]any, len(t.Columns))
	for i, c := range t.Columns {
		out[c.Name] = deref(rv.Field(t.fieldIdx[i]))
	}
	return out
}

// FieldValues returns the non-NULL columns of e keyed by canonical field
// name, with dates as civil.Date. It is the inverse of Build.
func FieldValues(e Entity) Fields {
	t := e.EntityType()
	rv := reflect.ValueOf(e).Elem()
	out := make(Fields, len(t.Columns))
	for i, c := range t.Columns {
		v := deref(rv.Field(t.fieldIdx[i]))
		if v == nil {
			continue
		}
		out[c.Field] = exportValue(c, v)
	}
	return out
}

// Record renders e as an export row keyed by raw column name.
func Record(e Entity) map[string]any {
	t := e.EntityType()
	rv := reflect.ValueOf(e).Elem()
	out := make(map[string]any, len(t.Columns))
	for i, c := range t.Columns {
		v := deref(rv.Field(t.fieldIdx[i]))
		if v == nil {
			out[c.Name] = nil
			continue
		}
		out[c.Name] = exportValue(c, v)
	}
	return out
}

// KeyOf returns the primary key of e.
func KeyOf(e Entity) Key {
	t := e.EntityType()
	rv := reflect.ValueOf(e).Elem()
	var k Key
	for i, c := range t.Columns {
		if c.PrimaryKey {
			k = append(k, deref(rv.Field(t.fieldIdx[i])))
		}
	}
	return k
}

// SetGenerated stores a store-generated auto-increment key on e.
func SetGenerated(e Entity, id int64) error {
	t := e.EntityType()
	rv := reflect.ValueOf(e).Elem()
	for i, c := range t.Columns {
		if c.AutoIncrement {
			return assign(rv.Field(t.fieldIdx[i]), c, id)
		}
	}
	return nil
}

func exportValue(c Column, v any) any {
	if c.Type == TypeDate {
		if tm, ok := v.(time.Time); ok {
			return civil.DateOf(tm)
		}
	}
	return v
}

func deref(f reflect.Value) any {
	if f.IsNil() {
		return nil
	}
	return f.Elem().Interface()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// assign converts v to the column's Go type and stores it in the pointer
// field f. A nil v clears the field.
func assign(f reflect.Value, c Column, v any) error {
	if v == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	var (
		out any
		err error
	)
	switch c.Type {
	case TypeString:
		out, err = toString(v)
	case TypeInt:
		out, err = toInt(v)
	case TypeAmount:
		out, err = toFloat(v)
	case TypeBool:
		out, err = toBool(v)
	case TypeDate:
		var tm time.Time
		tm, err = toTime(v)
		if err == nil {
			out = time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC)
		}
	case TypeTimestamp:
		out, err = toTime(v)
	default:
		err = fmt.Errorf("unsupported column type %s", c.Type)
	}
	if err != nil {
		return err
	}
	if c.Type == TypeString && c.Size > 0 {
		if n := len([]rune(out.(string))); n > c.Size {
			return fmt.Errorf("value has %d characters, limit is %d", n, c.Size)
		}
	}
	p := reflect.New(f.Type().Elem())
	p.Elem().Set(reflect.ValueOf(out))
	f.Set(p)
	return nil
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case civil.Date:
		return x.String(), nil
	}
	return fmt.Sprint(v), nil
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		return int64(x), nil
	case float32:
		return toInt(float64(x))
	case []byte:
		return toInt(string(x))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cannot use %T as integer", v)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case []byte:
		return toFloat(string(x))
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cannot use %T as number", v)
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case int:
		return x != 0, nil
	case int32:
		return x != 0, nil
	case uint8:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case []byte:
		return toBool(string(x))
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, fmt.Errorf("%q is not a boolean", x)
		}
		return b, nil
	}
	return false, fmt.Errorf("cannot use %T as boolean", v)
}

var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case civil.Date:
		return x.In(time.UTC), nil
	case civil.DateTime:
		return x.In(time.UTC), nil
	case []byte:
		return toTime(string(x))
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if tm, err := time.Parse(layout, s); err == nil {
				return tm, nil
			}
		}
		return time.Time{}, fmt.Errorf("%q is not a date", x)
	}
	return time.Time{}, fmt.Errorf("cannot use %T as date", v)
}
