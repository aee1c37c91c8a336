package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ColumnSpec maps one external CSV column onto an Employee field.
type ColumnSpec struct {
	Field      string                    // Display name used in error messages
	Column     string                    // Header name in the source file
	Required   bool                      // Must be non-empty for the row to be accepted
	MaxLen     int                       // Maximum length in characters (0 = unlimited)
	Normalizer func(string) string       // Optional transformation applied at decode time
	Set        func(e *Employee, v string)
	Get        func(e Employee) string
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a header row.
// The first occurrence wins when a column name repeats.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmployeeColumns is the fixed mapping between the Personnel_Records export
// and Employee. Column widths match the employees table.
var EmployeeColumns = []ColumnSpec{
	{
		Field: "Payroll Number", Column: "Personnel_Records.Payroll_Number", Required: true, MaxLen: 50,
		Set: func(e *Employee, v string) { e.PayrollNumber = v },
		Get: func(e Employee) string { return e.PayrollNumber },
	},
	{
		Field: "Forenames", Column: "Personnel_Records.Forenames", Required: true, MaxLen: 100,
		Set: func(e *Employee, v string) { e.Forenames = v },
		Get: func(e Employee) string { return e.Forenames },
	},
	{
		Field: "Surname", Column: "Personnel_Records.Surname", Required: true, MaxLen: 100,
		Set: func(e *Employee, v string) { e.Surname = v },
		Get: func(e Employee) string { return e.Surname },
	},
	{
		Field: "Date of Birth", Column: "Personnel_Records.Date_of_Birth", Required: true, MaxLen: 30,
		Set: func(e *Employee, v string) { e.DateOfBirth = v },
		Get: func(e Employee) string { return e.DateOfBirth },
	},
	{
		Field: "Telephone", Column: "Personnel_Records.Telephone", MaxLen: 30,
		Set: func(e *Employee, v string) { e.Telephone = v },
		Get: func(e Employee) string { return e.Telephone },
	},
	{
		Field: "Mobile", Column: "Personnel_Records.Mobile", MaxLen: 30,
		Set: func(e *Employee, v string) { e.Mobile = v },
		Get: func(e Employee) string { return e.Mobile },
	},
	{
		Field: "Address", Column: "Personnel_Records.Address", MaxLen: 200,
		Set: func(e *Employee, v string) { e.Address = v },
		Get: func(e Employee) string { return e.Address },
	},
	{
		Field: "Address 2", Column: "Personnel_Records.Address_2", MaxLen: 200,
		Set: func(e *Employee, v string) { e.Address2 = v },
		Get: func(e Employee) string { return e.Address2 },
	},
	{
		Field: "Postcode", Column: "Personnel_Records.Postcode", MaxLen: 20,
		Set: func(e *Employee, v string) { e.Postcode = v },
		Get: func(e Employee) string { return e.Postcode },
	},
	{
		Field: "Home Email", Column: "Personnel_Records.EMail_Home", MaxLen: 254,
		Normalizer: NormalizeEmail,
		Set:        func(e *Employee, v string) { e.EmailHome = v },
		Get:        func(e Employee) string { return e.EmailHome },
	},
	{
		Field: "Start Date", Column: "Personnel_Records.Start_Date", Required: true, MaxLen: 30,
		Set: func(e *Employee, v string) { e.StartDate = v },
		Get: func(e Employee) string { return e.StartDate },
	},
}

// HeaderRow returns the external column names in mapping order.
// Used for template downloads and CSV exports.
func HeaderRow() []string {
	cols := make([]string, len(EmployeeColumns))
	for i, spec := range EmployeeColumns {
		cols[i] = spec.Column
	}
	return cols
}

// RecordFromEmployee renders e as a CSV record in HeaderRow order.
func RecordFromEmployee(e Employee) []string {
	rec := make([]string, len(EmployeeColumns))
	for i, spec := range EmployeeColumns {
		rec[i] = spec.Get(e)
	}
	return rec
}

// materialize builds an Employee from a CSV record using the mapping table.
// Columns missing from the header, or cut short in the record, decode as empty.
func materialize(record []string, idx HeaderIndex, specs []ColumnSpec) (Employee, error) {
	var e Employee
	for _, spec := range specs {
		pos, ok := idx[strings.ToLower(spec.Column)]
		if !ok || pos >= len(record) {
			continue
		}

		raw := CleanCell(record[pos])
		if spec.Normalizer != nil {
			raw = spec.Normalizer(raw)
		}

		if spec.MaxLen > 0 && utf8.RuneCountInString(raw) > spec.MaxLen {
			return Employee{}, fmt.Errorf("value for %q exceeds %d characters", spec.Column, spec.MaxLen)
		}

		spec.Set(&e, raw)
	}
	return e, nil
}

// CleanCell trims whitespace and unwraps the ="..." guard spreadsheets add to
// keep leading zeros in identifiers.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return s
}
