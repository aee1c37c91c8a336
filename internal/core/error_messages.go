package core

// error_messages.go maps technical errors to user-facing messages with a
// support code. Codes are grouped by category:
//
//	DB001-DB099     Database errors (duplicates, connections, timeouts)
//	VAL001-VAL099   Row validation errors
//	FILE001-FILE099 Upload file problems (size, type, encoding)
//	UPL001-UPL099   Import process errors (busy, cancelled, timed out)
//	EMP001-EMP099   Employee lookups
//	RATE001         Request throttling
//	REQ001          Malformed API requests
//	ERR000          Anything else; check the logs for the original error

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage is a user-friendly description of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// String renders the message with its support code, e.g.
// "Payroll number is already in use (Code: DB001)".
func (m UserMessage) String() string {
	if m.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s)", m.Message, m.Code)
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// sentinelMessages are checked with errors.Is before any pattern matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrDuplicatePayroll, UserMessage{
		Message: "Payroll number is already in use",
		Action:  "Remove the duplicate rows and upload again",
		Code:    "DB001",
	}},
	{ErrNotFound, UserMessage{
		Message: "Employee not found",
		Action:  "Refresh the list; the employee may have been deleted",
		Code:    "EMP001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try uploading a smaller file or check your connection",
		Code:    "UPL005",
	}},
}

// errorPatterns is searched in order; the first substring match wins.
var errorPatterns = []errorPattern{
	// Database
	{"duplicate key", UserMessage{"Payroll number is already in use", "Remove the duplicate rows and upload again", "DB001"}},
	{"violates unique", UserMessage{"This value must be unique but already exists", "Check for duplicate entries in your CSV", "DB002"}},
	{"violates not-null", UserMessage{"A required value was not stored", "Check that every required column has a value", "DB003"}},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},
	{"timeout", UserMessage{"Operation timed out", "Try uploading a smaller file or try again later", "DB006"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB007"}},
	{"value too long", UserMessage{"A value is longer than the column allows", "Shorten the value and try again", "DB008"}},

	// Validation
	{"missing required field", UserMessage{"Required field is empty", "Ensure all required columns have values", "VAL003"}},
	{"invalid email format", UserMessage{"Invalid email format", "Use an address like name@example.com", "VAL007"}},
	{"already exists in system", UserMessage{"Payroll number already exists", "Remove rows for employees already on file", "VAL008"}},
	{"duplicated within the uploaded file", UserMessage{"Payroll number appears more than once in the file", "Keep one row per payroll number", "VAL009"}},

	// File
	{"file too large", UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "FILE001"}},
	{"bad data in row", UserMessage{"File is not a valid CSV", "Ensure file is comma-separated and quotes are balanced", "FILE002"}},
	{"encoding error", UserMessage{"File contains invalid characters", "Save file as UTF-8 encoding", "FILE003"}},
	{"please select a file", UserMessage{"Please select a file", "Choose a CSV file to upload", "FILE004"}},
	{"file is empty", UserMessage{"The uploaded file is empty", "Please upload a CSV file with data rows", "FILE005"}},
	{"please select a csv file", UserMessage{"Please select a CSV file", "Export the sheet as CSV and upload again", "FILE006"}},

	// Import
	{"too many imports", UserMessage{"System is busy processing other imports", "Please wait a moment and try again", "UPL002"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "UPL004"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try uploading a smaller file or check your connection", "UPL005"}},

	// Employees
	{"employee not found", UserMessage{"Employee not found", "Refresh the list; the employee may have been deleted", "EMP001"}},
	{"invalid employee id", UserMessage{"Invalid employee ID", "Use the ID shown in the employee list", "EMP002"}},

	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
	{"invalid request body", UserMessage{"Request body is not a valid employee", "Send the employee as a JSON object", "REQ001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Known sentinels are matched first, then message patterns (case-insensitive).
// If nothing matches, a generic fallback with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
