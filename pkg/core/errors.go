// Package core provides the main NeuralMem engine and memory management functionality.
package core

import (
	"errors"
	"fmt"

	"github.com/ob-labs/neuralmem-go/pkg/embedding"
)

// Predefined errors for common failure scenarios.
var (
	// ErrNotFound indicates that a requested memory was not found.
	ErrNotFound = errors.New("memory not found")

	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingFailed indicates that embedding generation failed.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrStorageOperation indicates that a storage operation failed.
	ErrStorageOperation = errors.New("storage operation failed")

	// ErrGraphOperation indicates that a knowledge graph operation failed.
	ErrGraphOperation = errors.New("graph operation failed")

	// ErrTrainingInProgress indicates that a non-blocking training request
	// found another training run already holding the lock.
	ErrTrainingInProgress = embedding.ErrTrainingInProgress
)

// EngineError wraps errors with operation context.
//
// It provides additional context about which operation failed,
// making error messages more informative for debugging.
//
// Example:
//
//	err := &EngineError{
//	    Op:  "AddMemory",
//	    Err: ErrEmbeddingFailed,
//	}
//	// Error() returns: "neuralmem: AddMemory: embedding generation failed"
type EngineError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "neuralmem: <Op>: <Err>"
func (e *EngineError) Error() string {
	return fmt.Sprintf("neuralmem: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
//
// This allows using errors.Is() and errors.As() with EngineError.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new EngineError wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewEngineError("AddMemory", err)
//	}
//
// Parameters:
//   - op: Name of the operation (e.g., "AddMemory", "Search", "Train")
//   - err: The underlying error to wrap
//
// Returns an EngineError, or nil if err is nil.
func NewEngineError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{
		Op:  op,
		Err: err,
	}
}
