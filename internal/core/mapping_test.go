package core

import (
	"strings"
	"testing"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  plain  ", "plain"},
		{`="00123"`, "00123"},
		{` ="A-1" `, "A-1"},
		{`=""`, ""},
		{`="`, `="`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{" Personnel_Records.Surname ", "PERSONNEL_RECORDS.FORENAMES", "personnel_records.surname"})

	if pos := idx["personnel_records.surname"]; pos != 0 {
		t.Errorf("surname position = %d, want 0 (first occurrence wins)", pos)
	}
	if pos, ok := idx["personnel_records.forenames"]; !ok || pos != 1 {
		t.Errorf("forenames position = %d, %v", pos, ok)
	}
}

func TestEmployeeColumns(t *testing.T) {
	required := map[string]bool{}
	seen := map[string]bool{}
	for _, spec := range EmployeeColumns {
		if seen[spec.Column] {
			t.Errorf("column %s mapped twice", spec.Column)
		}
		seen[spec.Column] = true
		if !strings.HasPrefix(spec.Column, "Personnel_Records.") {
			t.Errorf("column %s outside Personnel_Records", spec.Column)
		}
		if spec.Required {
			required[spec.Field] = true
		}
	}

	for _, f := range []string{"Payroll Number", "Forenames", "Surname", "Date of Birth", "Start Date"} {
		if !required[f] {
			t.Errorf("%s should be required", f)
		}
	}
	if len(required) != 5 {
		t.Errorf("got %d required fields, want 5", len(required))
	}
}

func TestRecordFromEmployee_RoundTripsThroughMapping(t *testing.T) {
	e := Employee{PayrollNumber: "P1", Forenames: "Ann", Surname: "Lee", EmailHome: "ann@x.com", Address2: "Flat 2"}
	rec := RecordFromEmployee(e)

	got, err := materialize(rec, MakeHeaderIndex(HeaderRow()), EmployeeColumns)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if got != e {
		t.Errorf("got %+v, want %+v", got, e)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM\t"); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestSortBySurname_Stable(t *testing.T) {
	employees := []Employee{
		{PayrollNumber: "1", Surname: "Smith"},
		{PayrollNumber: "2", Surname: "Adams"},
		{PayrollNumber: "3", Surname: "Smith"},
		{PayrollNumber: "4", Surname: "Smith"},
	}
	SortBySurname(employees)

	var order []string
	for _, e := range employees {
		order = append(order, e.PayrollNumber)
	}
	if got := strings.Join(order, ","); got != "2,1,3,4" {
		t.Errorf("order = %s, want 2,1,3,4", got)
	}
}
