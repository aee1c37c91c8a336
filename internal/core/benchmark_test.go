package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"testing"
)

// ============================================================================
// Cell Cleaning Benchmarks
// ============================================================================

// BenchmarkCleanCell runs once per cell on every import.
func BenchmarkCleanCell(b *testing.B) {
	testCases := []string{
		"normal value",
		`="00123"`,       // Excel text-number wrapper
		"  whitespace  ", // Whitespace
		"",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CleanCell(tc)
		}
	}
}

func BenchmarkNormalizeEmail(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NormalizeEmail("  Jane.Doe@Example.COM ")
	}
}

// ============================================================================
// Header Index Benchmarks
// ============================================================================

// BenchmarkMakeHeaderIndex is called once per file.
func BenchmarkMakeHeaderIndex(b *testing.B) {
	headers := HeaderRow()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MakeHeaderIndex(headers)
	}
}

// ============================================================================
// Stream Reader Benchmarks
// ============================================================================

func BenchmarkUTF8Sanitizer(b *testing.B) {
	data := bytes.Repeat([]byte("Valid UTF-8 line with numbers 12345 and caf\xc3\xa9\n"), 300)
	invalid := bytes.Repeat([]byte("Latin-1 caf\xe9 line\n"), 300)

	for _, tc := range []struct {
		name string
		data []byte
	}{{"valid", data}, {"invalid", invalid}} {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(tc.data)))
			for i := 0; i < b.N; i++ {
				_, _ = io.Copy(io.Discard, newUTF8Sanitizer(bytes.NewReader(tc.data)))
			}
		})
	}
}

// ============================================================================
// Decode Benchmarks
// ============================================================================

func BenchmarkDecode(b *testing.B) {
	for _, rows := range []int{100, 1000} {
		data := generateTestCSV(rows)
		b.Run(fmt.Sprintf("rows=%d", rows), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := Decode(context.Background(), bytes.NewReader(data)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkCSVParsing_Comparison shows the overhead of the decode wrappers
// over a bare streaming csv.Reader.
func BenchmarkCSVParsing_Comparison(b *testing.B) {
	data := generateTestCSV(500)

	b.Run("Bare", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			r := csv.NewReader(bytes.NewReader(data))
			r.FieldsPerRecord = -1
			r.ReuseRecord = true
			for {
				if _, err := r.Read(); err == io.EOF {
					break
				}
			}
		}
	})

	b.Run("Decode", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = Decode(context.Background(), bytes.NewReader(data))
		}
	})
}

// ============================================================================
// Validation Benchmarks
// ============================================================================

func BenchmarkRowValidator(b *testing.B) {
	v := NewRowValidator(EmployeeColumns)
	valid := Row{Line: 2, Employee: Employee{
		PayrollNumber: "P1001", Forenames: "John", Surname: "Doe",
		DateOfBirth: "01/01/1980", StartDate: "01/06/2015", EmailHome: "john@example.com",
	}}
	invalid := Row{Line: 3, Employee: Employee{PayrollNumber: "P1002", EmailHome: "nope"}}

	b.Run("valid", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			v.ValidateRow(valid)
		}
	})
	b.Run("invalid", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			v.ValidateRow(invalid)
		}
	})
}

func BenchmarkIsValidEmail(b *testing.B) {
	cases := []string{"john@example.com", "no-at-sign", "a@b@c.com", "user@localhost"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, c := range cases {
			IsValidEmail(c)
		}
	}
}

func BenchmarkCleanCellParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			CleanCell(`="00123"`)
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestCSV generates a Personnel_Records export with the given number
// of valid rows.
func generateTestCSV(rows int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(HeaderRow())
	for i := 0; i < rows; i++ {
		w.Write([]string{
			fmt.Sprintf("P%05d", i),
			"John",
			"Doe",
			"01/01/1980",
			"01632 960000",
			"07700 900000",
			"1 High Street",
			"Flat 2",
			"AB1 2CD",
			fmt.Sprintf(`="john.%d@example.com"`, i),
			"01/06/2015",
		})
	}
	w.Flush()

	return buf.Bytes()
}
