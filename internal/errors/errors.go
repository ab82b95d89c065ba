package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrorTypeClipboard ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeValidation
	ErrorTypeStore
	ErrorTypeConfig
	ErrorTypeUnknown
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeClipboard:
		return "clipboard"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeStore:
		return "store"
	case ErrorTypeConfig:
		return "config"
	default:
		return "unknown"
	}
}

// AppError represents a structured error with context
type AppError struct {
	Type       ErrorType
	Message    string
	Underlying error
	Context    map[string]string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Underlying
}

// Is matches any *AppError of the same type, so callers can test
// errors.Is(err, &AppError{Type: ErrorTypeClipboard}).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// ClipboardWriteFailed is the sentinel for any failed clipboard write.
var ClipboardWriteFailed = &AppError{Type: ErrorTypeClipboard, Message: "clipboard write failed"}

// WrapClipboardError wraps a clipboard backend failure. Every cause maps to
// ErrorTypeClipboard; the detected reason is only kept as context.
func WrapClipboardError(err error, backend string) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Type:       ErrorTypeClipboard,
		Message:    fmt.Sprintf("Clipboard write failed: %s", cleanErrorOutput(err.Error())),
		Underlying: err,
		Context: map[string]string{
			"backend": backend,
			"reason":  clipboardReason(err),
		},
	}
}

// WrapStoreError wraps trip store errors
func WrapStoreError(err error, operation string) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Type:       ErrorTypeStore,
		Message:    fmt.Sprintf("Trip store %s failed: %s", operation, err.Error()),
		Underlying: err,
		Context:    map[string]string{"operation": operation},
	}
}

// WrapValidationError wraps validation errors
func WrapValidationError(err error, input string) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("Invalid input '%s': %s", input, err.Error()),
		Underlying: err,
		Context:    map[string]string{"input": input},
	}
}

// WrapConfigError wraps configuration loading errors
func WrapConfigError(err error, source string) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Type:       ErrorTypeConfig,
		Message:    fmt.Sprintf("Configuration error in %s: %s", source, err.Error()),
		Underlying: err,
		Context:    map[string]string{"source": source},
	}
}

// NotFound reports a trip token that has no matching trip
func NotFound(token string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("Trip %s not found", token),
		Underlying: err,
		Context:    map[string]string{"token": token},
	}
}

// EntryNotFound reports a trip item or participant id that does not belong
// to the trip
func EntryNotFound(kind, id string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s %s not found", kind, id),
		Underlying: err,
		Context:    map[string]string{kind: id},
	}
}

// clipboardReason classifies a backend error for logs only
func clipboardReason(err error) string {
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "permission") || strings.Contains(lower, "denied"):
		return "permission"
	case strings.Contains(lower, "not supported") || strings.Contains(lower, "unsupported"):
		return "unsupported"
	case strings.Contains(lower, "not found") || strings.Contains(lower, "no clipboard"):
		return "unavailable"
	case strings.Contains(lower, "context"):
		return "cancelled"
	default:
		return "unknown"
	}
}

// cleanErrorOutput keeps the first meaningful line of a command's output
func cleanErrorOutput(errorText string) string {
	cleaned := strings.TrimSpace(errorText)
	cleaned = strings.TrimPrefix(cleaned, "ERROR: ")

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "WARNING") {
			return line
		}
	}

	return cleaned
}

// UserFriendlyMessage returns a user-friendly error message
func (e *AppError) UserFriendlyMessage() string {
	switch e.Type {
	case ErrorTypeNotFound:
		if _, ok := e.Context["token"]; ok {
			return e.Message + " - check the share token"
		}
		return e.Message + " - list the trip with 'tripshare trip show'"
	case ErrorTypeValidation:
		return e.Message
	case ErrorTypeClipboard:
		return e.Message + " - copy the link manually"
	case ErrorTypeConfig:
		return e.Message + " - fix the configuration file or environment"
	default:
		return e.Message
	}
}
