// Package errors provides structured error handling for Prism
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/prism/pkg/strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeUnknownColumn represents lookups of a column name or position
	// that does not exist in the table
	ErrorTypeUnknownColumn ErrorType = "unknown_column"
	// ErrorTypeDuplicateColumn represents attempts to register a column name
	// that is already present
	ErrorTypeDuplicateColumn ErrorType = "duplicate_column"
	// ErrorTypeLengthMismatch represents column or selector lengths that do
	// not agree with the table's row count
	ErrorTypeLengthMismatch ErrorType = "length_mismatch"
	// ErrorTypeIndexMismatch represents an index whose entry count disagrees
	// with the number of columns
	ErrorTypeIndexMismatch ErrorType = "index_mismatch"
	// ErrorTypeOutOfBounds represents row or column positions outside the
	// valid range
	ErrorTypeOutOfBounds ErrorType = "out_of_bounds"
	// ErrorTypeNonContiguousInsert represents column insertion at a position
	// beyond the next free one
	ErrorTypeNonContiguousInsert ErrorType = "non_contiguous_insert"
	// ErrorTypeNonExistentTarget represents row-scoped writes addressing a
	// column that would have to be created
	ErrorTypeNonExistentTarget ErrorType = "non_existent_target"
	// ErrorTypeShapeMismatch represents assigned values whose shape does not
	// match the selection
	ErrorTypeShapeMismatch ErrorType = "shape_mismatch"
	// ErrorTypeEmptyResult represents operations that would produce a
	// structurally invalid empty table
	ErrorTypeEmptyResult ErrorType = "empty_result"

	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeData represents data parsing or conversion errors
	ErrorTypeData ErrorType = "data"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeConnection represents database connection errors
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeQuery represents query execution errors
	ErrorTypeQuery ErrorType = "query"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the error's type, or ErrorTypeInternal for foreign errors
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
