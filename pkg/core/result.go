package core

import (
	"bytes"
	"encoding/json"
)

// ValidationResult is the outcome of the statement gate.
type ValidationResult struct {
	Safe   bool   `json:"safe"`
	Reason string `json:"reason,omitempty"`
}

// Safe is the passing ValidationResult.
func Safe() ValidationResult {
	return ValidationResult{Safe: true}
}

// Unsafe returns a failing ValidationResult carrying reason.
func Unsafe(reason string) ValidationResult {
	return ValidationResult{Reason: reason}
}

// =============================================================================
// ErrorKind
// =============================================================================

// ErrorKind classifies why an execution failed.
type ErrorKind string

// Error kinds. The zero value means no error.
const (
	ErrorKindNone         ErrorKind = ""
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindNoConnection ErrorKind = "no_connection"
	ErrorKindExecution    ErrorKind = "execution"
	ErrorKindUnexpected   ErrorKind = "unexpected"
)

// =============================================================================
// Rows and results
// =============================================================================

// Row is one result row keyed by column name, in declared column order.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column.
func (r Row) Get(name string) (any, bool) {
	for i, col := range r.Columns {
		if col == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the row as an unordered map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, col := range r.Columns {
		m[col] = r.Values[i]
	}
	return m
}

// MarshalJSON encodes the row as an object whose keys follow column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ExecutionResult is the normalized outcome of one gateway call.
//
// Data is nil on failure and for mutating statements. A SELECT that
// matches nothing yields a non-nil empty slice.
type ExecutionResult struct {
	Success      bool      `json:"success"`
	Data         []Row     `json:"data"`
	Columns      []string  `json:"columns,omitempty"`
	Error        string    `json:"error,omitempty"`
	Kind         ErrorKind `json:"error_kind,omitempty"`
	RowsAffected int64     `json:"rows_affected"`

	// Err is the typed failure, usable with errors.Is and errors.As.
	Err error `json:"-"`
}

// Failure builds a failed ExecutionResult.
func Failure(kind ErrorKind, err error) ExecutionResult {
	return ExecutionResult{
		Error: err.Error(),
		Kind:  kind,
		Err:   err,
	}
}
