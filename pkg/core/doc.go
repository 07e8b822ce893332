// Package core defines the shared language of the sqlgate system.
//
// This package contains:
//   - Query inputs (ParsedQuery, Condition, Operator, UserFilters)
//   - Gate and execution outcomes (ValidationResult, ExecutionResult, Row)
//   - Schema metadata (Schema, TableMetadata, Column) and the Catalog interface
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
