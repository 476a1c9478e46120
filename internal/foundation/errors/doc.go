// Package errors provides the classified error type used across the compiler
// and its command-line front end.
//
// Every failure carries a category (input, option, render, ...), a severity
// and optional structured context. Categories map onto the negative status
// codes of the public surface (see Status) and onto CLI exit codes.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryInput, "stream unreadable").
//		WithContext("document", label).
//		WithCause(readErr).
//		Build()
package errors
