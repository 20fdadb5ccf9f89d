package schema

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-sql/civil"
)

func TestBuildEmployee(t *testing.T) {
	t.Parallel()

	e, err := Build(EmployeeType, Fields{
		"full_name": "Иванов И.И.",
		"hire_date": civil.Date{Year: 2021, Month: time.March, Day: 15},
		"dismissed": false,
		"position":  "инженер",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	emp, ok := e.(*Employee)
	if !ok {
		t.Fatalf("Build returned %T", e)
	}
	if emp.FullName == nil || *emp.FullName != "Иванов И.И." {
		t.Fatalf("full name = %v", emp.FullName)
	}
	if emp.HireDate == nil || !emp.HireDate.Equal(time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("hire date = %v", emp.HireDate)
	}
	if emp.Dismissed == nil || *emp.Dismissed {
		t.Fatalf("dismissed = %v", emp.Dismissed)
	}
	if emp.ID != nil || emp.Email != nil {
		t.Fatalf("absent fields should stay nil: id=%v email=%v", emp.ID, emp.Email)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		t      *EntityType
		fields Fields
		want   string
	}{
		{"unknown field", EmployeeType, Fields{"nickname": "x"}, `unknown field "nickname"`},
		{"bad int", TeamType, Fields{"team_leader": "abc"}, "team_leader"},
		{"bad date", EmployeeType, Fields{"hire_date": "yesterday"}, "hire_date"},
		{"too long", ClientType, Fields{"phone": "+7 (999) 123-45-67"}, "limit is 11"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.t, tc.fields)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestFieldValuesRoundTrip(t *testing.T) {
	t.Parallel()

	in := Fields{
		"signing_date":            civil.Date{Year: 2023, Month: time.January, Day: 2},
		"implementation_deadline": civil.Date{Year: 2023, Month: time.December, Day: 31},
		"processing_employee":     int64(1),
		"client":                  int64(2),
		"payment":                 int64(3),
	}
	e, err := Build(ContractType, in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := FieldValues(e)
	if len(out) != len(in) {
		t.Fatalf("FieldValues = %v", out)
	}
	for k, v := range in {
		if out[k] != v {
			t.Errorf("%s = %#v, want %#v", k, out[k], v)
		}
	}
}

func TestFromColumnsAndValues(t *testing.T) {
	t.Parallel()

	e, err := FromColumns(PaymentType, map[string]any{
		"id":       int64(7),
		"сумма":    []byte("1500.50"),
		"оплачено": int64(1),
		"extra":    "ignored",
	})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	vals := Values(e)
	if vals["id"] != int64(7) || vals["сумма"] != 1500.5 || vals["оплачено"] != true {
		t.Fatalf("Values = %v", vals)
	}
	if k := KeyOf(e); len(k) != 1 || k[0] != int64(7) {
		t.Fatalf("KeyOf = %v", k)
	}
}

func TestApplyRejectsPrimaryKey(t *testing.T) {
	t.Parallel()

	e, _ := Build(PositionType, Fields{"position": "qa", "responsibilities": "tests"})
	err := Apply(e, Fields{"position": "dev"})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "position" {
		t.Fatalf("want FieldError for position, got %v", err)
	}
	if err := Apply(e, Fields{"responsibilities": "everything"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := *e.(*Position).Responsibilities; got != "everything" {
		t.Fatalf("responsibilities = %q", got)
	}
}

func TestCompositeKey(t *testing.T) {
	t.Parallel()

	e, err := Build(TeamParticipationType, Fields{
		"employee":    int64(4),
		"team":        int64(2),
		"active":      true,
		"last_update": time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	k := KeyOf(e)
	if len(k) != 2 || k[0] != int64(4) || k[1] != int64(2) {
		t.Fatalf("KeyOf = %v", k)
	}
}
