package errors

import (
	"fmt"
	"slices"
	"strings"
)

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
// This makes error creation consistent and discoverable throughout the codebase.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError, // Default severity
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithPosition records a 1-based line/column diagnostic. Zero values are omitted.
func (b *ErrorBuilder) WithPosition(line, column int) *ErrorBuilder {
	if line > 0 {
		b.context = b.context.Set(ContextLine, line)
	}
	if column > 0 {
		b.context = b.context.Set(ContextColumn, column)
	}
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for common error patterns

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// AlreadyExistsError creates an error for a target that must not be overwritten.
func AlreadyExistsError(message string) *ErrorBuilder {
	return NewError(CategoryAlreadyExists, message)
}

// NotFoundError creates an error for a source that is absent at load time.
func NotFoundError(artifact, path string) *ErrorBuilder {
	return NewError(CategoryNotFound, fmt.Sprintf("source %s not found", artifact)).
		WithContext(ContextArtifact, artifact).
		WithContext(ContextPath, path)
}

// MissingSourcesError creates the pre-flight error naming every absent required source.
func MissingSourcesError(names []string) *ErrorBuilder {
	return NewError(CategoryMissingSources, "missing required source files: "+strings.Join(names, ", ")).
		WithContext(ContextMissing, slices.Clone(names))
}

// ParseError creates an error for malformed structured text.
func ParseError(artifact string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryParse, fmt.Sprintf("cannot parse %s", artifact)).
		WithContext(ContextArtifact, artifact)
}

// TransformError creates an error for input rejected by a preprocessor.
func TransformError(artifact string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryTransform, fmt.Sprintf("cannot transform %s", artifact)).
		WithContext(ContextArtifact, artifact)
}

// RenderError creates a template rendering error.
func RenderError(template string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryRender, fmt.Sprintf("cannot render %s", template)).
		WithContext(ContextArtifact, template)
}

// WriteError creates an error for output that could not be persisted.
func WriteError(path string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryWrite, "cannot write output").
		WithContext(ContextPath, path)
}

// WatchError creates a file watching error.
func WatchError(message string) *ErrorBuilder {
	return NewError(CategoryWatch, message).Fatal()
}

// RuntimeError creates a runtime error.
func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
