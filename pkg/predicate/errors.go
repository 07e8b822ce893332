package predicate

import "errors"

// Build errors. The builder refuses to emit a clause rather than emit SQL
// that would bind incorrectly or skip isolation.
var (
	ErrMissingTenant     = errors.New("tenant filters require both user_id and company_name")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrInvalidBetween    = errors.New("BETWEEN value must have the form '<low> and <high>'")
	ErrEmptyIn           = errors.New("IN value has no items")
)
