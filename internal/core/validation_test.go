package core

import (
	"strings"
	"testing"
)

func validEmployee() Employee {
	return Employee{
		PayrollNumber: "COOP08",
		Forenames:     "John",
		Surname:       "William",
		DateOfBirth:   "26/01/1955",
		StartDate:     "18/04/2013",
		EmailHome:     "nomadic@test.co.uk",
	}
}

func TestValidateRow(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(e *Employee)
		wantErrors []string
	}{
		{
			name:   "valid row",
			mutate: func(e *Employee) {},
		},
		{
			name:       "missing surname",
			mutate:     func(e *Employee) { e.Surname = "" },
			wantErrors: []string{"Invalid data in row 7: missing required field(s) Surname"},
		},
		{
			name: "all missing fields reported together",
			mutate: func(e *Employee) {
				e.Surname = "  "
				e.StartDate = ""
			},
			wantErrors: []string{"Invalid data in row 7: missing required field(s) Surname, Start Date"},
		},
		{
			name:       "bad email",
			mutate:     func(e *Employee) { e.EmailHome = "bad-email" },
			wantErrors: []string{`Invalid email format "bad-email" in row 7`},
		},
		{
			name:       "blank email is invalid",
			mutate:     func(e *Employee) { e.EmailHome = "" },
			wantErrors: []string{`Invalid email format "" in row 7`},
		},
		{
			name: "both checks reported",
			mutate: func(e *Employee) {
				e.PayrollNumber = ""
				e.EmailHome = "a@@b.com"
			},
			wantErrors: []string{
				"Invalid data in row 7: missing required field(s) Payroll Number",
				`Invalid email format "a@@b.com" in row 7`,
			},
		},
		{
			name:   "optional fields may be empty",
			mutate: func(e *Employee) { e.Telephone, e.Mobile, e.Postcode = "", "", "" },
		},
	}

	v := NewRowValidator(EmployeeColumns)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEmployee()
			tt.mutate(&e)
			before := e

			res := v.ValidateRow(Row{Line: 7, Employee: e})

			if e != before {
				t.Error("ValidateRow modified its input")
			}
			if len(tt.wantErrors) == 0 {
				if !res.Valid() || res.Employee == nil {
					t.Fatalf("expected valid, got %v", res.Errors)
				}
				if *res.Employee != e {
					t.Errorf("accepted employee = %+v, want %+v", *res.Employee, e)
				}
				return
			}

			if res.Employee != nil {
				t.Error("rejected row must not carry an employee")
			}
			if len(res.Errors) != len(tt.wantErrors) {
				t.Fatalf("errors = %v, want %v", res.Errors, tt.wantErrors)
			}
			for i, want := range tt.wantErrors {
				if res.Errors[i].Message != want {
					t.Errorf("error[%d] = %q, want %q", i, res.Errors[i].Message, want)
				}
				if res.Errors[i].Line != 7 {
					t.Errorf("error[%d].Line = %d", i, res.Errors[i].Line)
				}
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@sub.example.com", true},
		{"a@b.c", true},
		{"bad-email", false},
		{"", false},
		{"a@b", false},
		{"a@b@c.com", false},
		{"a.b@c", false},
		{"@x.y", true},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidate_KeepsOrderAndCollectsErrors(t *testing.T) {
	good1 := validEmployee()
	good2 := validEmployee()
	good2.PayrollNumber = "JACK13"
	bad := validEmployee()
	bad.Forenames = ""

	res := NewRowValidator(EmployeeColumns).Validate([]Row{
		{Line: 2, Employee: good1},
		{Line: 3, Employee: bad},
		{Line: 4, Employee: good2},
	})

	if res.SuccessCount() != 2 {
		t.Fatalf("SuccessCount = %d, want 2", res.SuccessCount())
	}
	if res.Valid[0].PayrollNumber != "COOP08" || res.Valid[1].PayrollNumber != "JACK13" {
		t.Errorf("order not preserved: %+v", res.Valid)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "row 3") {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestValidateEmployee(t *testing.T) {
	v := NewRowValidator(EmployeeColumns)

	if msgs := v.ValidateEmployee(validEmployee()); len(msgs) != 0 {
		t.Errorf("valid employee rejected: %q", msgs)
	}

	e := validEmployee()
	e.PayrollNumber = " "
	e.EmailHome = "a@b@c.com"
	want := []string{
		"Invalid data: missing required field(s) Payroll Number",
		`Invalid email format "a@b@c.com"`,
	}
	if got := v.ValidateEmployee(e); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ValidateEmployee = %q, want %q", got, want)
	}
}
