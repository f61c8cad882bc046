package transfer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/David-Botos/csv-ingress/pkg/connector"
)

// ErrorCategory defines categories of fatal errors during a load
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	// Unreadable or malformed CSV, bad mapping; nothing reached the database
	ErrorCategoryInput
	// Credentials or session could not be obtained, or the server dropped the session
	ErrorCategoryConnection
	// A column could not be given a SQL type; no DDL was run
	ErrorCategorySchema
	// The database rejected a DDL, INSERT or COMMIT
	ErrorCategoryStatement
	// The loaded table does not match the dataset
	ErrorCategoryVerification
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryInput:
		return "Input"
	case ErrorCategoryConnection:
		return "Connection"
	case ErrorCategorySchema:
		return "Schema"
	case ErrorCategoryStatement:
		return "Statement"
	case ErrorCategoryVerification:
		return "Verification"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// storeErrorCategory classifies an error returned by the destination
// while executing or committing
func storeErrorCategory(err error) ErrorCategory {
	if connector.IsConnectionError(err) {
		return ErrorCategoryConnection
	}
	return ErrorCategoryStatement
}

// LoadError is a classified load failure
type LoadError struct {
	Category ErrorCategory
	Stage    string
	Row      int // 1-based data row, 0 when not row specific
	Err      error
}

// NewLoadError creates a load error for a pipeline stage
func NewLoadError(category ErrorCategory, stage string, err error) *LoadError {
	return &LoadError{
		Category: category,
		Stage:    stage,
		Err:      err,
	}
}

// WithRow sets the row number the error happened on
func (e *LoadError) WithRow(row int) *LoadError {
	e.Row = row
	return e
}

// Error returns a formatted error message
func (e *LoadError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", e.Category))

	if e.Stage != "" {
		sb.WriteString(e.Stage)
	}

	if e.Row > 0 {
		sb.WriteString(fmt.Sprintf(" row %d", e.Row))
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// CategoryOf returns the category of a load error, ErrorCategoryNone otherwise
func CategoryOf(err error) ErrorCategory {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Category
	}
	return ErrorCategoryNone
}
