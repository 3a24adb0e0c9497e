package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every load-time or run-time failure wraps one of
// these so callers can classify a failure with errors.Is without parsing
// messages.
var (
	// ErrInvalidConfig indicates a malformed parameter record, an
	// unnormalizable distribution, or an out-of-range enum value.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrMissingResource indicates a required file (hardware, behavior,
	// OUI database) could not be found or opened.
	ErrMissingResource = errors.New("missing resource")

	// ErrIOFailure indicates a write to the capture or log output failed.
	ErrIOFailure = errors.New("io failure")

	// ErrRuntimeInvariant indicates a runtime invariant was violated
	// (invalid MAC produced, sequence overflow, time regression).
	ErrRuntimeInvariant = errors.New("runtime invariant violated")
)

// ConfigError wraps ErrInvalidConfig with the offending record and field.
type ConfigError struct {
	Record string // the raw or formatted offending record
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Record, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidConfig
}

// ResourceError wraps ErrMissingResource with the path that failed to load.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("missing resource %q: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return ErrMissingResource
}

// InvariantError wraps ErrRuntimeInvariant with what was observed.
type InvariantError struct {
	What string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("runtime invariant violated: %s", e.What)
}

func (e *InvariantError) Unwrap() error {
	return ErrRuntimeInvariant
}
