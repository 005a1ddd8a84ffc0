package boomerang

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnsafeParameters indicates unchecked params reached a point that requires permitted ones.
	ErrUnsafeParameters = errors.New("unsafe parameters")

	// ErrAccessViolation indicates an attempt to assign a field that is not public.
	ErrAccessViolation = errors.New("access violation")

	// ErrUnknownField indicates a permitted param has no assignable field.
	ErrUnknownField = errors.New("unknown field")

	// ErrAssign indicates a value could not be converted into its field.
	ErrAssign = errors.New("assign failed")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrUnsupportedType indicates a type that cannot carry assignable fields.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrParameterMissing indicates a required param is absent or empty.
	ErrParameterMissing = errors.New("parameter missing")

	// ErrInvalidIdentifier indicates an empty object identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNotFound is returned by Session.Get when the key is absent.
	ErrNotFound = errors.New("not found")

	// ErrStore indicates the session store failed.
	ErrStore = errors.New("store failed")

	// ErrUnmarshal indicates the codec failed to unmarshal stored state.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal state for storage.
	ErrMarshal = errors.New("marshal failed")
)

// UnsafeParametersError reports params that did not pass an explicit permit step.
//
// Fields lists the offending param names in the order they were submitted.
// It is empty when the params were rejected as a whole.
type UnsafeParametersError struct {
	Fields []string
}

func (e *UnsafeParametersError) Error() string {
	if len(e.Fields) == 0 {
		return "Must pass strong parameters."
	}
	return "Must use permitted strong parameters. Unsafe: " + strings.Join(e.Fields, ", ")
}

func (e *UnsafeParametersError) Unwrap() error {
	return ErrUnsafeParameters
}

// AccessViolationError reports an assignment to a protected or private field.
type AccessViolationError struct {
	Field  string // Param name
	Access Access // Declared access level
	Type   string // Type the assignment targeted
}

func (e *AccessViolationError) Error() string {
	return fmt.Sprintf("%s method `%s=' called for %s", e.Access, e.Field, e.Type)
}

func (e *AccessViolationError) Unwrap() error {
	return ErrAccessViolation
}

// FieldError reports a param with no matching assignable field.
type FieldError struct {
	Err   error
	Field string
	Type  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("undefined method `%s=' for %s", e.Field, e.Type)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// AssignError represents a failure converting a param value into its field.
type AssignError struct {
	Err   error  // Underlying sentinel error (ErrAssign)
	Field string // Param name that failed
	Cause error  // Original error from the conversion
}

func (e *AssignError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assign field %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("assign field %s", e.Field)
}

func (e *AssignError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid field declaration on a type.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrInvalidTag)
	Field string // Go field name that triggered the error
	Value string // Offending tag value
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s %q (field %s)", e.Err.Error(), e.Value, e.Field)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Value)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParameterMissingError reports a required param that is absent or empty.
type ParameterMissingError struct {
	Param string
}

func (e *ParameterMissingError) Error() string {
	return "param is missing or the value is empty: " + e.Param
}

func (e *ParameterMissingError) Unwrap() error {
	return ErrParameterMissing
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// StoreError represents a session store failure.
type StoreError struct {
	Op    string // get, set or delete
	Key   string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Cause)
}

// Unwrap exposes both ErrStore and the store's own error.
func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Cause}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

// newConfigError creates a ConfigError for invalid field declarations.
func newConfigError(sentinel error, field, value string) error {
	return &ConfigError{
		Err:   sentinel,
		Field: field,
		Value: value,
	}
}

// newStoreError creates a StoreError for session store failures.
func newStoreError(op, key string, cause error) error {
	return &StoreError{
		Op:    op,
		Key:   key,
		Cause: cause,
	}
}
