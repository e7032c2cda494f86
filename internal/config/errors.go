package config

import "fmt"

// ConfigError reports a malformed or incomplete configuration or sample sheet.
type ConfigError struct {
	// Field names the offending setting, e.g. "general.assembly" or
	// "sample[s1].end_type".
	Field  string
	Reason string
	Err    error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Errorf builds a ConfigError for field with a formatted reason.
func Errorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
