// Package errors provides foundational, type-safe error primitives used across gall.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (not_found, parse, transform, render, write, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter mapping categories to process exit codes
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryParse, "defines.json is not valid JSON").
//		WithContext("artifact", "defines.json").
//		WithContext("line", 3).
//		Build()
package errors
