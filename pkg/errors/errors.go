package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Manifest errors
	ErrManifestNotFound       ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestParse          ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid        ErrorCode = "MANIFEST_INVALID"
	ErrManifestUnknownType    ErrorCode = "MANIFEST_UNKNOWN_TYPE"
	ErrManifestDuplicateKey   ErrorCode = "MANIFEST_DUPLICATE_KEY"
	ErrManifestInvalidDefault ErrorCode = "MANIFEST_INVALID_DEFAULT"
	ErrManifestUnresolvedNeed ErrorCode = "MANIFEST_UNRESOLVED_NEED"
	ErrManifestAmbiguousNeed  ErrorCode = "MANIFEST_AMBIGUOUS_NEED"
	ErrManifestCycle          ErrorCode = "MANIFEST_CYCLE"

	// Value errors
	ErrValueTypeMismatch ErrorCode = "VALUE_TYPE_MISMATCH"
	ErrValueUnknownSlot  ErrorCode = "VALUE_UNKNOWN_SLOT"
	ErrValueUnknownHook  ErrorCode = "VALUE_UNKNOWN_HOOK"
	ErrValueNotOptional  ErrorCode = "VALUE_NOT_OPTIONAL"
	ErrValueNotBoolean   ErrorCode = "VALUE_NOT_BOOLEAN"
	ErrValueMalformed    ErrorCode = "VALUE_MALFORMED"

	// Render errors
	ErrRender           ErrorCode = "RENDER_FAILED"
	ErrTemplateValidate ErrorCode = "TEMPLATE_VALIDATE"

	// Path errors
	ErrPathInvalidOutput ErrorCode = "PATH_INVALID_OUTPUT"
	ErrPathExists        ErrorCode = "PATH_EXISTS"

	// Hook errors
	ErrHookExecution ErrorCode = "HOOK_EXECUTION"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"

	// Settings errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"

	// Output errors
	ErrInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Category groups error codes into the classes callers act on.
type Category string

const (
	ManifestError      Category = "ManifestError"
	ValueError         Category = "ValueError"
	RenderError        Category = "RenderError"
	PathError          Category = "PathError"
	HookExecutionError Category = "HookExecutionError"
	InternalError      Category = "InternalError"
)

// Category returns the category a code belongs to.
func (c ErrorCode) Category() Category {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "MANIFEST_"):
		return ManifestError
	case strings.HasPrefix(s, "VALUE_"):
		return ValueError
	case c == ErrRender, c == ErrTemplateValidate:
		return RenderError
	case strings.HasPrefix(s, "PATH_"):
		return PathError
	case c == ErrHookExecution:
		return HookExecutionError
	default:
		return InternalError
	}
}

// SpackleError represents a structured error with code and details
type SpackleError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SpackleError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SpackleError) Unwrap() error {
	return e.Wrapped
}

// Is matches another SpackleError with the same code
func (e *SpackleError) Is(target error) bool {
	var targetErr *SpackleError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SpackleError with the given code and message
func New(code ErrorCode, message string) *SpackleError {
	return &SpackleError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SpackleError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SpackleError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *SpackleError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SpackleError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *SpackleError) WithDetail(key string, value interface{}) *SpackleError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var me *MultiError
	if errors.As(err, &me) {
		for _, inner := range me.Errors {
			if IsErrorCode(inner, code) {
				return true
			}
		}
		return false
	}
	var se *SpackleError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsCategory reports whether err carries a code in the given category.
func IsCategory(err error, cat Category) bool {
	var me *MultiError
	if errors.As(err, &me) {
		for _, inner := range me.Errors {
			if IsCategory(inner, cat) {
				return true
			}
		}
		return false
	}
	var se *SpackleError
	if errors.As(err, &se) {
		return se.Code.Category() == cat
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown
func GetErrorCode(err error) ErrorCode {
	var se *SpackleError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrUnknown
}

// MessageOf returns the human part of err, without the code prefix that
// Error adds
func MessageOf(err error) string {
	var se *SpackleError
	if errors.As(err, &se) {
		if se.Wrapped != nil {
			return fmt.Sprintf("%s: %v", se.Message, se.Wrapped)
		}
		return se.Message
	}
	return err.Error()
}

// GetErrorDetails returns the details from an error, or nil
func GetErrorDetails(err error) map[string]interface{} {
	var se *SpackleError
	if errors.As(err, &se) {
		return se.Details
	}
	return nil
}

// MultiError aggregates independent failures of the same pass, such as
// every mistyped slot value of one fill.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	msgs := make([]string, 0, len(m.Errors))
	for _, err := range m.Errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Append collects err into the aggregate. Nil errors are ignored.
func (m *MultiError) Append(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil when nothing was collected, the single error when
// exactly one was, and the aggregate otherwise.
func (m *MultiError) ErrorOrNil() error {
	switch len(m.Errors) {
	case 0:
		return nil
	case 1:
		return m.Errors[0]
	default:
		return m
	}
}
