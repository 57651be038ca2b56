// Package errors provides structured error handling for the indi-fetch CLI.
// It includes categorized errors with actionable remediation guidance.
package errors

import "fmt"

// Category represents the type of error that occurred.
type Category int

const (
	// Configuration errors are caused by missing credentials or invalid config.
	Configuration Category = iota
	// Network errors are transient transport failures (timeout, reset).
	Network
	// RateLimit errors occur when a host's throttling could not be waited out.
	RateLimit
	// NotFound errors mark absent changelogs, commits, or projects.
	NotFound
	// Runtime errors occur during enumeration.
	Runtime
)

// String returns a human-readable name for the error category.
func (c Category) String() string {
	switch c {
	case Configuration:
		return "Configuration Error"
	case Network:
		return "Network Error"
	case RateLimit:
		return "Rate Limit Error"
	case NotFound:
		return "Not Found"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	// Category is the type of error (Configuration, Network, etc.)
	Category Category
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewRateLimitError creates a new rate-limit error. Raised only when a host's
// retry policy has been exhausted; transient throttling is retried silently.
func NewRateLimitError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    RateLimit,
		Message:     message,
		Remediation: remediation,
	}
}

// NewRuntimeError creates a new runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Runtime,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category Category, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category Category, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
	}
}

// AsCLIError attempts to convert an error to a CLIError.
// Returns nil if the error is not a CLIError.
func AsCLIError(err error) *CLIError {
	cliErr, ok := err.(*CLIError)
	if ok {
		return cliErr
	}
	return nil
}
