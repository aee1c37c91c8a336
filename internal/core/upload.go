package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// contextCheckInterval is how often (in records) decoding checks for cancellation.
const contextCheckInterval = 100

// Decoded is the decoder's output: candidate rows in file order plus one
// message per row that could not be turned into a candidate.
type Decoded struct {
	Rows   []Row
	Errors []string
}

// Result flattens d into an ImportResult, dropping line numbers.
func (d Decoded) Result() ImportResult {
	res := ImportResult{Errors: d.Errors}
	for _, row := range d.Rows {
		res.Valid = append(res.Valid, row.Employee)
	}
	return res
}

// Decode reads a header row followed by employee records from r.
//
// Rows the tokenizer rejects and rows that cannot be mapped are reported in
// Decoded.Errors and decoding continues with the next row. Line numbers are
// physical: the header is line 1. The returned error is non-nil only when the
// stream itself fails or ctx is cancelled.
func Decode(ctx context.Context, r io.Reader) (Decoded, error) {
	return decodeWith(ctx, r, EmployeeColumns)
}

func decodeWith(ctx context.Context, r io.Reader, specs []ColumnSpec) (Decoded, error) {
	var out Decoded

	rec := newRowRecorder(wrapForDecoding(r))
	cr := csv.NewReader(rec)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		out.Errors = append(out.Errors, "The uploaded file is empty")
		return out, nil
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			out.Errors = append(out.Errors, fmt.Sprintf("CSV parsing failed in row %d: invalid header: %v", pe.StartLine, pe.Err))
			return out, nil
		}
		return out, fmt.Errorf("read header: %w", err)
	}
	idx := MakeHeaderIndex(header)
	last := cr.InputOffset()
	rec.take(0, last)

	for n := 0; ; n++ {
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		offset := cr.InputOffset()
		raw := rec.take(last, offset)
		last = offset

		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return out, fmt.Errorf("read csv: %w", err)
			}
			out.Errors = append(out.Errors, fmt.Sprintf("Bad data in row %d: %s", pe.StartLine, raw))
			continue
		}

		line, _ := cr.FieldPos(0)
		emp, err := materialize(record, idx, specs)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("CSV parsing failed in row %d: %v", line, err))
			continue
		}
		out.Rows = append(out.Rows, Row{Line: line, Employee: emp})
	}

	return out, nil
}
