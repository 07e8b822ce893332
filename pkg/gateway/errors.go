package gateway

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks on ExecutionResult.Err.
var (
	ErrUnsafeStatement = errors.New("unsafe statement")
	ErrNoConnection    = errors.New("No database connection available") //nolint:staticcheck // surfaced verbatim to callers
)

// ValidationError reports a statement rejected by the gate. The store is
// never touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Unwrap returns ErrUnsafeStatement.
func (e *ValidationError) Unwrap() error { return ErrUnsafeStatement }

// ExecutionError wraps a failure reported by the store. The transaction
// has been rolled back.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string { return "Database error: " + e.Err.Error() }

// Unwrap returns the store error.
func (e *ExecutionError) Unwrap() error { return e.Err }

// UnexpectedError wraps a panic raised while talking to the store.
type UnexpectedError struct {
	Value any
}

func (e *UnexpectedError) Error() string { return fmt.Sprintf("Unexpected error: %v", e.Value) }

// Unwrap returns the panic value when it is an error.
func (e *UnexpectedError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
