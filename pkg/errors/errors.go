// Package errors defines the failure classes the reconciliation
// pipeline reports: broken configuration, unreachable sources,
// unparseable records, I/O faults, and findings, which mark a
// completed run whose sides disagree rather than a fault.
//
// Each class pairs a concrete type carrying context with a sentinel
// for errors.Is checks. Exit-code mapping in the CLI keys off the
// sentinels.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Sentinels matched by errors.Is. The concrete types below implement
// Is against their class sentinel.
var (
	// ErrInvalidConfig marks run configuration that failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceFetch marks a failed retrieval from a source.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrInvalidInput marks invalid input, including records that fail
	// normalization.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFindings marks a completed reconciliation whose sides
	// disagree beyond tolerance. The run itself succeeded.
	ErrFindings = errors.New("reconciliation findings")

	// ErrNotFound marks a missing resource.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks a resource that already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrTimeout marks an operation that ran out of time.
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled marks an operation interrupted by its caller.
	ErrCanceled = errors.New("operation canceled")

	// ErrNotImplemented marks a feature that does not exist yet.
	ErrNotImplemented = errors.New("not implemented")
)

// ConfigError reports unusable run configuration: a missing file, an
// unknown key, a value out of range.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// NewConfigError builds a ConfigError scoped to a component such as
// "sources.oms" or "window".
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// FetchError reports a failed retrieval from a source. Always fatal
// for the run: reconciling against an incomplete side is not
// meaningful.
type FetchError struct {
	Source     string
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch from %s failed (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch from %s failed: %s", e.Source, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is matches ErrSourceFetch.
func (e *FetchError) Is(target error) bool { return target == ErrSourceFetch }

// NewFetchError wraps err as a fetch failure attributed to source.
func NewFetchError(source string, err error) *FetchError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &FetchError{Source: source, Message: message, Err: err}
}

// ParseError reports undecodable data, with position information when
// the decoder provides it.
type ParseError struct {
	Format  string // "yaml", "csv", "json"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError builds a ParseError for a format and file.
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// ValidationError reports a record or schema validation failure.
// Source and Key identify the offending raw record when the failure
// is per-record rather than structural.
type ValidationError struct {
	Source  string
	Key     string
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Key != "" && e.Field != "":
		return fmt.Sprintf("validation failed for record %s, field %s: %s", e.Key, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError builds a field-level ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// FindingsError reports that a completed run produced discrepancies
// beyond tolerance. It is not a failure: callers use it to pick a
// distinct exit status, never to abort mid-run.
type FindingsError struct {
	Mismatched  int
	SourceAOnly int
	SourceBOnly int
}

func (e *FindingsError) Error() string {
	return fmt.Sprintf("reconciliation found %d mismatched keys (%d only in source A, %d only in source B)",
		e.Mismatched, e.SourceAOnly, e.SourceBOnly)
}

// Is matches ErrFindings.
func (e *FindingsError) Is(target error) bool { return target == ErrFindings }

// Total returns the number of keys with findings of any kind.
func (e *FindingsError) Total() int {
	return e.Mismatched + e.SourceAOnly + e.SourceBOnly
}

// NewFindingsError builds a FindingsError from the three finding
// counts.
func NewFindingsError(mismatched, aOnly, bOnly int) *FindingsError {
	return &FindingsError{Mismatched: mismatched, SourceAOnly: aOnly, SourceBOnly: bOnly}
}

// IOError reports a filesystem fault while handling snapshots or
// artifacts.
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps err as an IOError for an operation on path.
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError reports an operation that exceeded its deadline.
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is matches ErrTimeout.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// NewTimeoutError builds a TimeoutError. Duration is pre-rendered so
// callers can report the configured limit rather than elapsed time.
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// NotFoundError reports a missing resource by kind and ID.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError builds a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Class predicates, for callers that only branch and do not need the
// concrete type.

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsFetchError reports whether err is a source fetch error.
func IsFetchError(err error) bool {
	return errors.Is(err, ErrSourceFetch)
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsFindings reports whether err carries reconciliation findings.
func IsFindings(err error) bool {
	return errors.Is(err, ErrFindings)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is an already-exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled reports whether err is a cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Wrappers for the common wrap-and-classify pattern. All of them pass
// nil through untouched.

// WrapValidation wraps err as a field-level ValidationError.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps err as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps err as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapFetch wraps err as a FetchError.
func WrapFetch(source string, err error) error {
	if err == nil {
		return nil
	}
	return NewFetchError(source, err)
}
