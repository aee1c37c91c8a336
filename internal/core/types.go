// Package core provides the business logic for employee CSV imports.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by a Store when no employee has the requested ID.
	ErrNotFound = errors.New("employee not found")

	// ErrDuplicatePayroll is returned by a Store when a write would give two
	// stored employees the same payroll number.
	ErrDuplicatePayroll = errors.New("duplicate payroll number")
)

// Employee is a single personnel record.
//
// Dates are kept as the text supplied by the source file; they are never parsed.
type Employee struct {
	ID            uuid.UUID `json:"id"`
	PayrollNumber string    `json:"payrollNumber"`
	Forenames     string    `json:"forenames"`
	Surname       string    `json:"surname"`
	DateOfBirth   string    `json:"dateOfBirth"`
	Telephone     string    `json:"telephone"`
	Mobile        string    `json:"mobile"`
	Address       string    `json:"address"`
	Address2      string    `json:"address2"`
	Postcode      string    `json:"postcode"`
	EmailHome     string    `json:"emailHome"`
	StartDate     string    `json:"startDate"`
}

// ImportResult is the report produced by every stage of the import pipeline:
// the records that made it through the stage plus one message per failure.
type ImportResult struct {
	Valid  []Employee `json:"validEmployees"`
	Errors []string   `json:"errors"`
}

// SuccessCount returns the number of records that passed the stage.
func (r ImportResult) SuccessCount() int {
	return len(r.Valid)
}

// HasErrors reports whether any failure was recorded.
func (r ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Merge appends other's records and errors to r.
func (r *ImportResult) Merge(other ImportResult) {
	r.Valid = append(r.Valid, other.Valid...)
	r.Errors = append(r.Errors, other.Errors...)
}

// OperationResult is the outcome of a single-record mutation.
type OperationResult struct {
	Success bool     `json:"isSuccess"`
	Errors  []string `json:"errorMessages"`
}

func failed(msg string) OperationResult {
	return OperationResult{Errors: []string{msg}}
}

// Row is a decoded candidate record together with the physical line it came from.
type Row struct {
	Line     int
	Employee Employee
}

// Store is the persistence boundary the import pipeline depends on.
// Implementations must enforce payroll number uniqueness themselves and
// report a violation as ErrDuplicatePayroll.
type Store interface {
	// AddBatch persists all employees atomically and returns them with
	// their assigned IDs, in input order.
	AddBatch(ctx context.Context, employees []Employee) ([]Employee, error)

	// List returns every stored employee in storage order.
	List(ctx context.Context) ([]Employee, error)

	// ExistingPayrollNumbers returns which of the given payroll numbers are
	// already stored.
	ExistingPayrollNumbers(ctx context.Context, payrollNumbers []string) (map[string]bool, error)

	// GetByID returns ErrNotFound if no employee has the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Employee, error)

	// Update overwrites every field except ID. It returns false if no
	// employee has e.ID.
	Update(ctx context.Context, e Employee) (bool, error)

	// Delete removes the employee with the given ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
