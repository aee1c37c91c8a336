// Package memstore is an in-memory core.Store used by tests, the CLI's
// dry-run mode and the server's memory driver.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/JonMunkholm/EmployeeStore/internal/core"
)

// Store keeps employees in insertion order and enforces payroll number
// uniqueness like the employees table's unique index.
type Store struct {
	mu        sync.RWMutex
	employees []core.Employee
	byPayroll map[string]uuid.UUID

	failNext error
}

// New returns an empty Store.
func New() *Store {
	return &Store{byPayroll: make(map[string]uuid.UUID)}
}

var _ core.Store = (*Store)(nil)

// FailNextWrite makes the next AddBatch, Update or Delete return err.
func (s *Store) FailNextWrite(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

func (s *Store) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

// AddBatch stores all employees or none of them.
func (s *Store) AddBatch(ctx context.Context, employees []core.Employee) ([]core.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	pending := make(map[string]bool, len(employees))
	for _, e := range employees {
		if _, ok := s.byPayroll[e.PayrollNumber]; ok || pending[e.PayrollNumber] {
			return nil, core.ErrDuplicatePayroll
		}
		pending[e.PayrollNumber] = true
	}

	out := make([]core.Employee, len(employees))
	for i, e := range employees {
		e.ID = uuid.New()
		s.employees = append(s.employees, e)
		s.byPayroll[e.PayrollNumber] = e.ID
		out[i] = e
	}
	return out, nil
}

// List returns a copy of every employee in insertion order.
func (s *Store) List(ctx context.Context) ([]core.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Employee, len(s.employees))
	copy(out, s.employees)
	return out, nil
}

func (s *Store) ExistingPayrollNumbers(ctx context.Context, payrollNumbers []string) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make(map[string]bool)
	for _, p := range payrollNumbers {
		if _, ok := s.byPayroll[p]; ok {
			found[p] = true
		}
	}
	return found, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*core.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, core.ErrNotFound
	}
	e := s.employees[i]
	return &e, nil
}

func (s *Store) Update(ctx context.Context, e core.Employee) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return false, err
	}

	i := s.indexOf(e.ID)
	if i < 0 {
		return false, nil
	}
	if owner, ok := s.byPayroll[e.PayrollNumber]; ok && owner != e.ID {
		return false, core.ErrDuplicatePayroll
	}

	delete(s.byPayroll, s.employees[i].PayrollNumber)
	s.employees[i] = e
	s.byPayroll[e.PayrollNumber] = e.ID
	return true, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	i := s.indexOf(id)
	if i < 0 {
		return core.ErrNotFound
	}
	delete(s.byPayroll, s.employees[i].PayrollNumber)
	s.employees = append(s.employees[:i], s.employees[i+1:]...)
	return nil
}

// Len returns the number of stored employees.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.employees)
}

// CountPayroll returns how many stored employees carry payroll.
func (s *Store) CountPayroll(payroll string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.employees {
		if e.PayrollNumber == payroll {
			n++
		}
	}
	return n
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, e := range s.employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}
