package core

import "strings"

// Tenant isolation columns. Every tenant-scoped table carries both.
const (
	ColumnUserID      = "user_id"
	ColumnCompanyName = "company_name"
)

// =============================================================================
// Operator
// =============================================================================

// Operator is the comparison applied by a Condition.
type Operator string

// Supported operators.
const (
	OpEq        Operator = "="
	OpNe        Operator = "!="
	OpLt        Operator = "<"
	OpGt        Operator = ">"
	OpLte       Operator = "<="
	OpGte       Operator = ">="
	OpLike      Operator = "LIKE"
	OpIn        Operator = "IN"
	OpBetween   Operator = "BETWEEN"
	OpIsNull    Operator = "IS NULL"
	OpIsNotNull Operator = "IS NOT NULL"

	// OpDate delegates the condition to a date-range expander.
	OpDate Operator = "date_condition"
	// OpRaw emits the condition value verbatim. The caller owns its safety.
	OpRaw Operator = "raw_condition"
)

// Normalize trims the operator, collapses inner whitespace and upper-cases
// keyword operators. The two delegated operators keep their lower-case form.
func (o Operator) Normalize() Operator {
	s := strings.Join(strings.Fields(string(o)), " ")
	switch lower := strings.ToLower(s); lower {
	case string(OpDate), string(OpRaw):
		return Operator(lower)
	}
	return Operator(strings.ToUpper(s))
}

// IsComparison reports whether o is one of the six binary comparison operators.
func (o Operator) IsComparison() bool {
	switch o.Normalize() {
	case OpEq, OpNe, OpLt, OpGt, OpLte, OpGte:
		return true
	}
	return false
}

// IsValid reports whether o is a known operator.
func (o Operator) IsValid() bool {
	switch n := o.Normalize(); n {
	case OpLike, OpIn, OpBetween, OpIsNull, OpIsNotNull, OpDate, OpRaw:
		return true
	default:
		return n.IsComparison()
	}
}

// =============================================================================
// Parsed query
// =============================================================================

// Condition is a single filter requested by the upstream parser.
type Condition struct {
	Field    string   `yaml:"field" json:"field"`
	Operator Operator `yaml:"operator" json:"operator"`
	Value    string   `yaml:"value" json:"value"`
}

// UserFilters identifies the tenant a query runs on behalf of.
type UserFilters struct {
	UserID      any `yaml:"user_id" json:"user_id"`
	CompanyName any `yaml:"company_name" json:"company_name"`
}

// Complete reports whether both tenant values are present.
func (f UserFilters) Complete() bool {
	return f.UserID != nil && f.CompanyName != nil
}

// Map returns the filters keyed by their column names.
func (f UserFilters) Map() map[string]any {
	return map[string]any{
		ColumnUserID:      f.UserID,
		ColumnCompanyName: f.CompanyName,
	}
}

// ParsedQuery is the structured query produced upstream of the gateway.
type ParsedQuery struct {
	Tables      []string    `yaml:"tables" json:"tables"`
	Conditions  []Condition `yaml:"conditions" json:"conditions"`
	UserFilters UserFilters `yaml:"user_filters" json:"user_filters"`
}

// IsJoin reports whether the query spans more than one table.
func (q ParsedQuery) IsJoin() bool {
	return len(q.Tables) > 1
}
