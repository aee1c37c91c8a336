package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/EmployeeStore/internal/logging"
)

// Service provides the employee import pipeline and single-record operations
// on top of a Store.
type Service struct {
	store     Store
	validator *RowValidator
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{
		store:     store,
		validator: NewRowValidator(EmployeeColumns),
	}
}

// ImportFile decodes, validates and imports a CSV stream.
//
// The report lists import errors first, then decode and validation errors.
// The returned error is non-nil only when r could not be read.
func (s *Service) ImportFile(ctx context.Context, r io.Reader) (ImportResult, error) {
	start := time.Now()
	defer recordImportDuration(start)

	log := logging.WithFields(ctx, "client_ip", ClientIPFromContext(ctx))

	decoded, err := Decode(ctx, r)
	if err != nil {
		log.Error("import aborted", "error", err)
		return ImportResult{}, fmt.Errorf("decode: %w", err)
	}
	recordRows(outcomeMalformed, len(decoded.Errors))

	validated := s.validator.Validate(decoded.Rows)
	recordRows(outcomeInvalid, len(decoded.Rows)-len(validated.Valid))

	imported := s.Import(ctx, validated.Valid)

	result := ImportResult{Valid: imported.Valid}
	result.Errors = append(result.Errors, imported.Errors...)
	result.Errors = append(result.Errors, decoded.Errors...)
	result.Errors = append(result.Errors, validated.Errors...)

	log.Info("import finished",
		"rows", len(decoded.Rows)+len(decoded.Errors),
		"imported", result.SuccessCount(),
		"errors", len(result.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Import persists employees whose payroll number is neither already stored
// nor repeated earlier in the batch. Survivors are written in one batch; if
// that write fails nothing is reported as imported.
func (s *Service) Import(ctx context.Context, employees []Employee) ImportResult {
	var result ImportResult
	if len(employees) == 0 {
		return result
	}

	log := logging.WithFields(ctx, "batch_size", len(employees))

	numbers := distinctPayrollNumbers(employees)
	existing, err := s.store.ExistingPayrollNumbers(ctx, numbers)
	if err != nil {
		log.Error("existence check failed", "error", err)
		recordBatch(err)
		recordRows(outcomeFailed, len(employees))
		result.Errors = append(result.Errors, databaseError(err))
		return result
	}

	accepted := make([]Employee, 0, len(employees))
	seen := make(map[string]bool, len(employees))
	for _, e := range employees {
		switch {
		case existing[e.PayrollNumber]:
			result.Errors = append(result.Errors, fmt.Sprintf("Payroll number %s already exists in system", e.PayrollNumber))
		case seen[e.PayrollNumber]:
			result.Errors = append(result.Errors, fmt.Sprintf("Payroll number %s is duplicated within the uploaded file", e.PayrollNumber))
		default:
			seen[e.PayrollNumber] = true
			accepted = append(accepted, e)
		}
	}
	recordRows(outcomeDuplicate, len(employees)-len(accepted))

	if len(accepted) == 0 {
		return result
	}

	persisted, err := s.store.AddBatch(ctx, accepted)
	recordBatch(err)
	if err != nil {
		log.Error("batch write failed", "error", err, "accepted", len(accepted))
		recordRows(outcomeFailed, len(accepted))
		result.Errors = append(result.Errors, databaseError(err))
		return result
	}

	recordRows(outcomePersisted, len(persisted))
	log.Debug("batch persisted", "persisted", len(persisted))
	result.Valid = persisted
	return result
}

// GetAll returns every stored employee ordered by surname.
func (s *Service) GetAll(ctx context.Context) ([]Employee, error) {
	employees, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	SortBySurname(employees)
	return employees, nil
}

// Get returns one employee by ID, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.store.GetByID(ctx, id)
}

// Update overwrites every field of the stored employee with e.ID. The record
// must pass the same required-field and email checks as an imported row.
func (s *Service) Update(ctx context.Context, e Employee) OperationResult {
	res := s.update(ctx, e)
	recordMutation("update", res.Success)
	return res
}

func (s *Service) update(ctx context.Context, e Employee) OperationResult {
	log := logging.WithFields(ctx, "employee_id", e.ID, "payroll_number", e.PayrollNumber)

	if msgs := s.validator.ValidateEmployee(e); len(msgs) > 0 {
		log.Debug("update rejected", "errors", msgs)
		return OperationResult{Errors: msgs}
	}

	if _, err := s.store.GetByID(ctx, e.ID); err != nil {
		if isNotFound(err) {
			return failed("Employee not found")
		}
		log.Error("lookup before update failed", "error", err)
		return failed(mutationError("updating", e.PayrollNumber, err))
	}

	ok, err := s.store.Update(ctx, e)
	if err != nil {
		log.Error("update failed", "error", err)
		return failed(mutationError("updating", e.PayrollNumber, err))
	}
	if !ok {
		return failed("Employee not found")
	}

	log.Info("employee updated")
	return OperationResult{Success: true}
}

// Delete removes the employee with the given ID.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) OperationResult {
	res := s.delete(ctx, id)
	recordMutation("delete", res.Success)
	return res
}

func (s *Service) delete(ctx context.Context, id uuid.UUID) OperationResult {
	log := logging.WithFields(ctx, "employee_id", id)

	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return failed("Employee not found")
		}
		log.Error("lookup before delete failed", "error", err)
		return failed(fmt.Sprintf("An error occurred while deleting the employee with ID %s : %s", id, MapError(err)))
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return failed("Employee not found")
		}
		log.Error("delete failed", "error", err, "payroll_number", e.PayrollNumber)
		return failed(mutationError("deleting", e.PayrollNumber, err))
	}

	log.Info("employee deleted", "payroll_number", e.PayrollNumber)
	return OperationResult{Success: true}
}

func distinctPayrollNumbers(employees []Employee) []string {
	seen := make(map[string]struct{}, len(employees))
	out := make([]string, 0, len(employees))
	for _, e := range employees {
		if _, ok := seen[e.PayrollNumber]; ok {
			continue
		}
		seen[e.PayrollNumber] = struct{}{}
		out = append(out, e.PayrollNumber)
	}
	return out
}

func databaseError(err error) string {
	return "Database error: " + MapError(err).String()
}

func mutationError(verb, payroll string, err error) string {
	return fmt.Sprintf("An error occurred while %s the employee with Payroll number %q : %s", verb, payroll, MapError(err))
}
