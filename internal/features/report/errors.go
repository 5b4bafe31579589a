package report

import (
	"errors"
	"fmt"
)

var (
	ErrReportTypeRequired   = errors.New("report type required")
	ErrGenerationInProgress = errors.New("report generation already in progress")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrSavedReportNotFound  = errors.New("saved report not found")
)

// ValidationError rejects a request before any work starts
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// GenerationError wraps a failure raised while producing rows
type GenerationError struct {
	ReportType ReportType
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.ReportType, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ExportError wraps a serialization failure
type ExportError struct {
	Format ExportFormat
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failure of the saved report store
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s saved report: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func validationErr(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
