package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/EmployeeStore/internal/core"
	"github.com/JonMunkholm/EmployeeStore/internal/web/templates"
)

var (
	errInvalidID   = errors.New("invalid employee id")
	errInvalidBody = errors.New("invalid request body")
)

// handleIndex renders the employee list with the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, templates.IndexData{})
}

// renderIndex loads the employee list into data and renders the page.
func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, data templates.IndexData) {
	employees, err := s.service.GetAll(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	data.Employees = employees

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(data).Render(r.Context(), w); err != nil {
		slog.Error("render index", "error", err)
	}
}

// handleListEmployees returns every employee ordered by surname.
func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.service.GetAll(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if employees == nil {
		employees = []core.Employee{}
	}
	writeJSON(w, employees)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	e, err := s.service.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, err, status)
		return
	}
	writeJSON(w, e)
}

// handleUpdateEmployee overwrites an employee from a JSON body. The ID in the
// path wins over any ID in the body.
func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var e core.Employee
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", errInvalidBody, err), http.StatusBadRequest)
		return
	}
	e.ID = id

	result := s.service.Update(r.Context(), e)
	if !result.Success {
		writeJSONStatus(w, http.StatusBadRequest, result)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result := s.service.Delete(r.Context(), id)
	if !result.Success {
		writeJSONStatus(w, http.StatusNotFound, result)
		return
	}
	writeJSON(w, result)
}

// handleDownloadTemplate serves an empty CSV with the expected header row.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	writeCSV(w, "employees_template.csv", nil)
}

// handleExportEmployees serves every employee as CSV in the import layout,
// so an export can be edited and uploaded again.
func (s *Server) handleExportEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.service.GetAll(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("employees_%s.csv", time.Now().Format("20060102"))
	writeCSV(w, filename, employees)
}

func writeCSV(w http.ResponseWriter, filename string, employees []core.Employee) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(core.HeaderRow()); err != nil {
		slog.Error("csv write", "error", err)
		return
	}
	for _, e := range employees {
		if err := cw.Write(core.RecordFromEmployee(e)); err != nil {
			slog.Error("csv write", "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("csv flush", "error", err)
	}
}

func employeeID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", errInvalidID, err)
	}
	return id, nil
}
