package guard

import (
	"strings"

	"github.com/leapstack-labs/sqlgate/pkg/core"
)

// Validator runs the gate checks in order and stops at the first failure.
// The zero value uses the default keyword denylist.
type Validator struct {
	keywords []string
}

// Option configures a Validator.
type Option func(*Validator)

// WithExtraKeywords appends keywords to the denylist.
func WithExtraKeywords(keywords ...string) Option {
	return func(v *Validator) {
		v.keywords = append(v.keywords, keywords...)
	}
}

// NewValidator creates a Validator with the default denylist plus any options.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{keywords: DangerousKeywords()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Keywords returns the active denylist.
func (v *Validator) Keywords() []string {
	if v == nil || len(v.keywords) == 0 {
		return DangerousKeywords()
	}
	return append([]string(nil), v.keywords...)
}

// Validate checks sql and reports the first failing reason.
func (v *Validator) Validate(sql string) core.ValidationResult {
	if strings.TrimSpace(sql) == "" {
		return core.Unsafe(ReasonEmpty)
	}

	checks := []func(string) (string, bool){
		func(s string) (string, bool) { return CheckKeywords(s, v.Keywords()) },
		CheckSingleStatement,
		CheckComments,
		CheckQuotes,
		CheckPatterns,
	}
	for _, check := range checks {
		if reason, ok := check(sql); !ok {
			return core.Unsafe(reason)
		}
	}
	return core.Safe()
}

var defaultValidator = NewValidator()

// Validate checks sql with the default denylist.
func Validate(sql string) core.ValidationResult {
	return defaultValidator.Validate(sql)
}
