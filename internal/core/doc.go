// Package core provides the business logic for employee CSV imports.
//
// This package holds all domain logic independent of any UI, transport or
// storage engine. Web handlers, the CLI and tests all drive it through
// [Service] and a [Store] implementation.
//
// # Pipeline
//
// An import runs three stages, each producing an [ImportResult]:
//
//  1. [Decode] reads the header and maps every record onto an [Employee]
//     through [EmployeeColumns]. Rows the CSV tokenizer rejects are reported
//     as "Bad data in row N"; rows that cannot be mapped as "CSV parsing
//     failed in row N".
//  2. [RowValidator] checks required fields and the home email address.
//  3. [Service.Import] drops employees whose payroll number is already stored
//     or appears earlier in the same file, then writes the rest in one batch.
//
// One bad row never stops the others. Only a stream that cannot be read at
// all makes [Service.ImportFile] return an error.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each message carries a code for support reference:
//
//   - DB001-DB008: Database errors (duplicates, connections, timeouts)
//   - VAL003-VAL009: Row validation errors
//   - FILE001-FILE006: File errors (size, type, encoding)
//   - UPL002-UPL005: Import errors (busy, cancelled, timed out)
//   - EMP001-EMP002: Employee lookups
package core
