package errors

import (
	"errors"
	"fmt"
	"time"
)

// PDFError describes a failure to load, render or export a template
type PDFError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
	FilePath    string    `json:"file_path,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`

	cause error
}

// ErrorType represents different categories of template errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidHeader
	ErrorTypeFileAccess
	ErrorTypeExtractionFailed
	ErrorTypeNoText
	ErrorTypeRenderFailed
	ErrorTypeExportFailed
	ErrorTypeInvalidOutput
)

// Error implements the error interface
func (e *PDFError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type.String(), e.Message, e.Context)
	}
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
}

// Unwrap returns the underlying error, if any
func (e *PDFError) Unwrap() error {
	return e.cause
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidHeader:
		return "INVALID_HEADER"
	case ErrorTypeFileAccess:
		return "FILE_ACCESS"
	case ErrorTypeExtractionFailed:
		return "EXTRACTION_FAILED"
	case ErrorTypeNoText:
		return "NO_TEXT"
	case ErrorTypeRenderFailed:
		return "RENDER_FAILED"
	case ErrorTypeExportFailed:
		return "EXPORT_FAILED"
	case ErrorTypeInvalidOutput:
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}

// IsRecoverable reports whether the caller can simply retry. Load
// failures are terminal for that attempt; render and export failures
// leave the original document intact.
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeRenderFailed, ErrorTypeExportFailed, ErrorTypeInvalidOutput:
		return true
	default:
		return false
	}
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
		Timestamp:   time.Now(),
	}
}

// WrapError wraps a standard error as a PDFError
func WrapError(errorType ErrorType, err error) *PDFError {
	e := NewPDFError(errorType, err.Error())
	e.cause = err
	return e
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithFile adds file path information to an existing PDFError
func (e *PDFError) WithFile(filePath string) *PDFError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// IsType reports whether err is, or wraps, a PDFError of the given type
func IsType(err error, errorType ErrorType) bool {
	var pe *PDFError
	return errors.As(err, &pe) && pe.Type == errorType
}
