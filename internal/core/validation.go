package core

// validation.go provides row-level validation for decoded employees.
//
// Two independent checks run on every row:
//  1. Required fields: every missing field is collected into one message
//  2. Home email: exactly one '@' and a '.' somewhere in the domain part
//
// A row that fails either check is rejected with all of its messages.

import (
	"fmt"
	"strings"
)

// ValidationError describes one rejected check for a row.
type ValidationError struct {
	Line    int      // Physical line of the row in the source file
	Fields  []string // Display names of the fields involved
	Value   string   // The offending value, if any
	Message string   // Human-readable message as reported to the user
}

func (e ValidationError) Error() string {
	return e.Message
}

// RowResult is the outcome of validating one row: either Employee is set
// and Errors is empty, or Errors is non-empty and Employee is nil.
type RowResult struct {
	Employee *Employee
	Errors   []ValidationError
}

// Valid reports whether the row was accepted.
func (r RowResult) Valid() bool {
	return len(r.Errors) == 0
}

// RowValidator checks decoded rows against a column mapping.
type RowValidator struct {
	specs []ColumnSpec
}

// NewRowValidator creates a validator for the given column mapping.
func NewRowValidator(specs []ColumnSpec) *RowValidator {
	return &RowValidator{specs: specs}
}

// ValidateRow runs both checks against row. It never modifies row.
func (v *RowValidator) ValidateRow(row Row) RowResult {
	var res RowResult

	missing, email, emailOK := v.check(row.Employee)
	if len(missing) > 0 {
		res.Errors = append(res.Errors, ValidationError{
			Line:    row.Line,
			Fields:  missing,
			Message: fmt.Sprintf("Invalid data in row %d: missing required field(s) %s", row.Line, strings.Join(missing, ", ")),
		})
	}
	if !emailOK {
		res.Errors = append(res.Errors, ValidationError{
			Line:    row.Line,
			Fields:  []string{"Home Email"},
			Value:   email,
			Message: fmt.Sprintf("Invalid email format %q in row %d", email, row.Line),
		})
	}

	if len(res.Errors) == 0 {
		emp := row.Employee
		res.Employee = &emp
	}
	return res
}

// ValidateEmployee runs the same checks against a record that did not come
// from a file, so messages carry no row number.
func (v *RowValidator) ValidateEmployee(e Employee) []string {
	var msgs []string
	missing, email, emailOK := v.check(e)
	if len(missing) > 0 {
		msgs = append(msgs, "Invalid data: missing required field(s) "+strings.Join(missing, ", "))
	}
	if !emailOK {
		msgs = append(msgs, fmt.Sprintf("Invalid email format %q", email))
	}
	return msgs
}

func (v *RowValidator) check(e Employee) (missing []string, email string, emailOK bool) {
	for _, spec := range v.specs {
		if spec.Required && strings.TrimSpace(spec.Get(e)) == "" {
			missing = append(missing, spec.Field)
		}
	}
	return missing, e.EmailHome, IsValidEmail(e.EmailHome)
}

// Validate runs ValidateRow over rows, keeping accepted employees in order
// and every rejection message.
func (v *RowValidator) Validate(rows []Row) ImportResult {
	var out ImportResult
	for _, row := range rows {
		res := v.ValidateRow(row)
		if res.Valid() {
			out.Valid = append(out.Valid, *res.Employee)
			continue
		}
		for _, e := range res.Errors {
			out.Errors = append(out.Errors, e.Message)
		}
	}
	return out
}

// IsValidEmail is the lightweight address check applied to imports: exactly
// one '@' with at least one '.' after it. An empty address is invalid.
func IsValidEmail(s string) bool {
	if strings.Count(s, "@") != 1 {
		return false
	}
	_, domain, _ := strings.Cut(s, "@")
	return strings.Contains(domain, ".")
}
