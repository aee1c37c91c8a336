package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/EmployeeStore/internal/core"
	"github.com/JonMunkholm/EmployeeStore/internal/web/templates"
)

var (
	errNoFile    = errors.New("please select a file")
	errNotCSV    = errors.New("please select a csv file")
	errTooLarge  = errors.New("file too large")
	csvMimeTypes = map[string]bool{
		"text/csv":                 true,
		"application/vnd.ms-excel": true,
	}
)

// importResponse is the JSON body returned by the upload API.
type importResponse struct {
	SuccessCount int `json:"successCount"`
	core.ImportResult
}

// handleUpload imports a CSV file for API clients. Any report error makes
// the response a 400; the body always carries the full report.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, err := s.openUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := s.runImport(r, file)
	if err != nil {
		s.respondError(w, r, err, importFailureStatus(err))
		return
	}

	status := http.StatusOK
	if result.HasErrors() {
		status = http.StatusBadRequest
	}
	writeJSONStatus(w, status, newImportResponse(result))
}

// handleUploadForm imports a CSV file posted from the index page and
// re-renders the page with the report.
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	data := templates.IndexData{}

	file, err := s.openUpload(w, r)
	if err == nil {
		defer file.Close()

		var result core.ImportResult
		result, err = s.runImport(r, file)
		if err == nil {
			if n := result.SuccessCount(); n > 0 {
				data.Message = fmt.Sprintf("Successfully processed %d employees", n)
			}
			data.Errors = result.Errors
		}
	}
	if err != nil {
		data.Errors = []string{core.FormatUserError(err)}
		s.logRequestError(r, err, core.MapError(err), importFailureStatus(err))
	}

	s.renderIndex(w, r, data)
}

// openUpload validates the multipart form and returns the uploaded file.
func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, fmt.Errorf("%w: limit is %d bytes", errTooLarge, maxSize)
		}
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}

	if !isCSVUpload(header) {
		file.Close()
		return nil, errNotCSV
	}
	return file, nil
}

// isCSVUpload accepts the usual CSV content types or a .csv file name.
func isCSVUpload(header *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return csvMimeTypes[strings.ToLower(mediaType)]
}

// runImport takes an import slot and runs the pipeline under UPLOAD_TIMEOUT.
func (s *Server) runImport(r *http.Request, file io.Reader) (core.ImportResult, error) {
	ctx, cancel := s.withImportTimeout(withRequestMetadata(r.Context(), r))
	defer cancel()

	var result core.ImportResult
	err := s.limiter.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.service.ImportFile(ctx, file)
		return err
	})
	return result, err
}

func importFailureStatus(err error) int {
	switch {
	case errors.Is(err, errNoFile), errors.Is(err, errNotCSV), errors.Is(err, errTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func newImportResponse(result core.ImportResult) importResponse {
	if result.Valid == nil {
		result.Valid = []core.Employee{}
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	return importResponse{
		SuccessCount: result.SuccessCount(),
		ImportResult: result,
	}
}
