package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrTypeMismatch indicates a value's type doesn't match the key's expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnsupportedFormat indicates a configuration file extension no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when resolved values cannot be decoded into a Config.
type DecodeError struct {
	// Key is the offending configuration key, empty when unknown.
	Key string
	// Expected describes the accepted type.
	Expected string
	// Value is the rejected value.
	Value any
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("decode config: %v", e.Err)
	}
	return fmt.Sprintf("decode config: %s: expected %s, got %T", e.Key, e.Expected, e.Value)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
