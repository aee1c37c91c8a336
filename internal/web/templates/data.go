// Package templates holds the templ components for the web UI. Edit the
// .templ files and run `templ generate` to refresh the *_templ.go output.
package templates

import "github.com/JonMunkholm/EmployeeStore/internal/core"

// IndexData is everything the employee page shows.
type IndexData struct {
	Employees []core.Employee
	// Message is the success banner after a form upload, empty otherwise.
	Message string
	Errors  []string
}
