package records

import (
	"math"
	"testing"
	"time"

	"github.com/golang-sql/civil"
)

func TestIsAbsent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, true},
		{"nan64", math.NaN(), true},
		{"nan32", float32(math.NaN()), true},
		{"empty_string_is_a_value", "", false},
		{"zero", int64(0), false},
		{"false", false, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsAbsent(tc.in); got != tc.want {
				t.Fatalf("IsAbsent(%#v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	ts := time.Date(2021, 3, 15, 10, 30, 0, 0, time.UTC)
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{int64(42), "42"},
		{1500.0, "1500"},
		{1500.25, "1500.25"},
		{true, "true"},
		{civil.Date{Year: 2021, Month: time.March, Day: 15}, "2021-03-15"},
		{ts, "2021-03-15T10:30:00"},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
