package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeFileFormat     ErrorType = "FILE_FORMAT"
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"
	ErrTypeEmptyDataset   ErrorType = "EMPTY_DATASET"
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewFileFormatError creates an error for a file that cannot be read as a
// spreadsheet in any supported format. Fatal to the ingestion call.
func NewFileFormatError(cause error) *AppError {
	return NewAppError(ErrTypeFileFormat, "file is not a readable spreadsheet (xlsx or csv)", cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewEmptyDatasetError creates an error for statistics requested over an
// empty dataset.
func NewEmptyDatasetError() *AppError {
	return NewAppError(ErrTypeEmptyDataset, "dataset contains no records", nil)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// SchemaMismatchError reports canonical fields that could not be resolved
// from the source headers. It carries every missing field and the full header
// list so the user can fix the source file.
type SchemaMismatchError struct {
	MissingFields    []string
	AvailableHeaders []string
}

// Error implements the error interface
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("[%s] required columns not resolved: %s (available headers: %s)",
		ErrTypeSchemaMismatch,
		strings.Join(e.MissingFields, ", "),
		strings.Join(e.AvailableHeaders, ", "))
}

// NewSchemaMismatchError creates a schema mismatch error
func NewSchemaMismatchError(missing, headers []string) *SchemaMismatchError {
	return &SchemaMismatchError{
		MissingFields:    missing,
		AvailableHeaders: headers,
	}
}
