// Package postgres implements core.Store on PostgreSQL using pgx.
//
// Batches are written with the COPY protocol inside a transaction, so a unique
// violation on any row rolls back the whole batch. Other statements are built
// with squirrel.
package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/EmployeeStore/internal/core"
)

const tableName = "employees"

// copyColumns lists the columns written by AddBatch in the order copyRow emits them.
var copyColumns = []string{
	"id", "payroll_number", "forenames", "surname", "date_of_birth",
	"telephone", "mobile", "address", "address_2", "postcode",
	"email_home", "start_date",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store is a core.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store using pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ core.Store = (*Store)(nil)

func copyRow(e core.Employee) []any {
	return []any{
		e.ID, e.PayrollNumber, e.Forenames, e.Surname, e.DateOfBirth,
		e.Telephone, e.Mobile, e.Address, e.Address2, e.Postcode,
		e.EmailHome, e.StartDate,
	}
}

func scanEmployee(row pgx.Row) (core.Employee, error) {
	var e core.Employee
	err := row.Scan(
		&e.ID, &e.PayrollNumber, &e.Forenames, &e.Surname, &e.DateOfBirth,
		&e.Telephone, &e.Mobile, &e.Address, &e.Address2, &e.Postcode,
		&e.EmailHome, &e.StartDate,
	)
	return e, err
}

// AddBatch assigns IDs and writes every employee in one COPY.
func (s *Store) AddBatch(ctx context.Context, employees []core.Employee) ([]core.Employee, error) {
	if len(employees) == 0 {
		return nil, nil
	}

	out := make([]core.Employee, len(employees))
	rows := make([][]any, len(employees))
	for i, e := range employees {
		e.ID = uuid.New()
		out[i] = e
		rows[i] = copyRow(e)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, mapError(err, "begin batch")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(ctx, pgx.Identifier{tableName}, copyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return nil, mapError(err, "copy employees")
	}
	if int(n) != len(rows) {
		return nil, fmt.Errorf("copy employees: wrote %d of %d rows", n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapError(err, "commit batch")
	}
	return out, nil
}

// List returns every employee in insertion order.
func (s *Store) List(ctx context.Context) ([]core.Employee, error) {
	query, args, err := psql.Select(copyColumns...).From(tableName).OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list employees")
	}
	defer rows.Close()

	var out []core.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, mapError(err, "scan employee")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list employees")
	}
	return out, nil
}

// ExistingPayrollNumbers looks up all payrollNumbers in a single query.
func (s *Store) ExistingPayrollNumbers(ctx context.Context, payrollNumbers []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(payrollNumbers) == 0 {
		return found, nil
	}

	query, args, err := psql.Select("payroll_number").
		From(tableName).
		Where(sq.Expr("payroll_number = ANY(?)", payrollNumbers)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build existence query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "check payroll numbers")
	}
	defer rows.Close()

	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, mapError(err, "scan payroll number")
		}
		found[p] = true
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "check payroll numbers")
	}
	return found, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*core.Employee, error) {
	query, args, err := psql.Select(copyColumns...).From(tableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	e, err := scanEmployee(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "get employee "+id.String())
	}
	return &e, nil
}

// Update overwrites every column except id. It reports false when no row has e.ID.
func (s *Store) Update(ctx context.Context, e core.Employee) (bool, error) {
	query, args, err := psql.Update(tableName).
		SetMap(map[string]any{
			"payroll_number": e.PayrollNumber,
			"forenames":      e.Forenames,
			"surname":        e.Surname,
			"date_of_birth":  e.DateOfBirth,
			"telephone":      e.Telephone,
			"mobile":         e.Mobile,
			"address":        e.Address,
			"address_2":      e.Address2,
			"postcode":       e.Postcode,
			"email_home":     e.EmailHome,
			"start_date":     e.StartDate,
			"updated_at":     sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err, "update employee "+e.ID.String())
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete(tableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "delete employee "+id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete employee %s: %w", id, core.ErrNotFound)
	}
	return nil
}
