package predicate

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/sqlgate/pkg/core"
)

// Mode says whether the builder has schema metadata to work with.
type Mode int

// Builder modes.
const (
	SchemaUnavailable Mode = iota
	SchemaAware
)

// String returns the mode name.
func (m Mode) String() string {
	if m == SchemaAware {
		return "schema-aware"
	}
	return "schema-unavailable"
}

// Audit notes recorded in Clause.Assumptions.
const (
	NoteIsolation   = "Added mandatory user and company filters for data isolation"
	NoteNoIsolation = "No table carries user_id and company_name; isolation filters not applied"
)

var (
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	betweenSep = regexp.MustCompile(`(?i) and `)
)

// Clause is the result of one build: WHERE text, bound values in
// placeholder order, and human-readable notes about injected predicates.
type Clause struct {
	SQL         string
	Parameters  []any
	Assumptions []string
}

// Builder turns a ParsedQuery into a Clause.
type Builder struct {
	schema core.Schema
	dates  DateExpander
	logger *slog.Logger

	parameters  []any
	assumptions []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithSchema enables schema-aware mode.
func WithSchema(schema core.Schema) Option {
	return func(b *Builder) {
		b.schema = schema
	}
}

// WithDateExpander sets the expander used for date conditions.
func WithDateExpander(d DateExpander) Option {
	return func(b *Builder) {
		b.dates = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder. Date conditions use RelativeDates unless
// another expander is supplied.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		dates:  RelativeDates{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mode reports the mode the builder runs in.
func (b *Builder) Mode() Mode {
	if len(b.schema) > 0 {
		return SchemaAware
	}
	return SchemaUnavailable
}

// Parameters returns the values bound by the last BuildWhereClause call.
func (b *Builder) Parameters() []any {
	return b.parameters
}

// Assumptions returns the audit notes of the last BuildWhereClause call.
func (b *Builder) Assumptions() []string {
	return b.assumptions
}

// BuildWhereClause builds the clause and keeps its parameters and
// assumptions on the builder for the caller to read afterwards.
func (b *Builder) BuildWhereClause(parsed core.ParsedQuery) (string, error) {
	clause, err := b.Build(parsed)
	if err != nil {
		return "", err
	}
	b.parameters = clause.Parameters
	b.assumptions = clause.Assumptions
	return clause.SQL, nil
}

// Build folds parsed into a Clause. It resets any state left by an earlier
// call, so one builder can serve many requests.
func (b *Builder) Build(parsed core.ParsedQuery) (Clause, error) {
	b.parameters = nil
	b.assumptions = nil

	for _, table := range parsed.Tables {
		if !identifier.MatchString(table) {
			return Clause{}, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
		}
	}

	f := &fold{}
	if err := b.isolate(f, parsed); err != nil {
		return Clause{}, err
	}
	for _, cond := range parsed.Conditions {
		if err := b.condition(f, parsed, cond); err != nil {
			return Clause{}, err
		}
	}

	clause := Clause{Parameters: f.params, Assumptions: f.notes}
	if len(f.predicates) > 0 {
		clause.SQL = "WHERE " + strings.Join(f.predicates, " AND ")
	}

	b.logger.Debug("built where clause",
		slog.String("mode", b.Mode().String()),
		slog.Int("predicates", len(f.predicates)),
		slog.Int("parameters", len(f.params)))
	return clause, nil
}

// fold accumulates one build.
type fold struct {
	predicates []string
	params     []any
	notes      []string
}

func (f *fold) add(predicate string, params ...any) {
	f.predicates = append(f.predicates, predicate)
	f.params = append(f.params, params...)
}

func (f *fold) note(format string, args ...any) {
	f.notes = append(f.notes, fmt.Sprintf(format, args...))
}

// TenantTables returns the tables that receive isolation predicates.
func (b *Builder) TenantTables(tables []string) []string {
	if b.Mode() == SchemaUnavailable {
		if len(tables) == 0 {
			return nil
		}
		return tables[:1]
	}

	var out []string
	for _, table := range tables {
		if b.schema.HasColumns(table, core.ColumnUserID, core.ColumnCompanyName) {
			out = append(out, table)
		}
	}
	return out
}

func (b *Builder) isolate(f *fold, parsed core.ParsedQuery) error {
	tables := b.TenantTables(parsed.Tables)
	if len(tables) == 0 {
		if len(parsed.Tables) > 0 {
			f.note(NoteNoIsolation)
		}
		return nil
	}
	if !parsed.UserFilters.Complete() {
		return ErrMissingTenant
	}

	for _, table := range tables {
		userCol, companyCol := core.ColumnUserID, core.ColumnCompanyName
		if parsed.IsJoin() {
			userCol = table + "." + userCol
			companyCol = table + "." + companyCol
		}
		f.add(userCol+" = ?", parsed.UserFilters.UserID)
		f.add(companyCol+" = ?", parsed.UserFilters.CompanyName)
	}
	f.note(NoteIsolation)
	return nil
}

// qualify prefixes a bare join column with the table that owns it.
func (b *Builder) qualify(f *fold, parsed core.ParsedQuery, field string) string {
	if !parsed.IsJoin() || strings.Contains(field, ".") || b.Mode() == SchemaUnavailable {
		return field
	}
	table, ok := b.schema.FindColumnTable(field, parsed.Tables)
	if !ok {
		return field
	}
	f.note("Qualified column %s as %s.%s", field, table, field)
	return table + "." + field
}

func (b *Builder) condition(f *fold, parsed core.ParsedQuery, cond core.Condition) error {
	op := cond.Operator.Normalize()
	if !op.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperator, cond.Operator)
	}

	if op == core.OpRaw {
		raw := strings.TrimSpace(cond.Value)
		if raw == "" {
			return nil
		}
		f.add(raw)
		f.note("Included raw condition verbatim: %s", raw)
		return nil
	}

	field := strings.TrimSpace(cond.Field)
	if !identifier.MatchString(field) {
		return fmt.Errorf("%w: field %q", ErrInvalidIdentifier, cond.Field)
	}
	field = b.qualify(f, parsed, field)

	switch op {
	case core.OpDate:
		if b.dates == nil {
			f.note("Dropped date condition on %s: no date expander", field)
			return nil
		}
		clause, params, ok := b.dates.Expand(field, cond.Value)
		if !ok || clause == "" {
			f.note("Dropped date condition on %s: unrecognized value %q", field, cond.Value)
			return nil
		}
		f.add(clause, params...)

	case core.OpIsNull, core.OpIsNotNull:
		f.add(field + " " + string(op))

	case core.OpLike:
		f.add(field+" LIKE ?", "%"+cond.Value+"%")

	case core.OpIn:
		if strings.TrimSpace(cond.Value) == "" {
			return fmt.Errorf("%w: field %s", ErrEmptyIn, field)
		}
		parts := strings.Split(cond.Value, ",")
		items := make([]any, len(parts))
		for i, p := range parts {
			items[i] = strings.TrimSpace(p)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", ")
		f.add(field+" IN ("+placeholders+")", items...)

	case core.OpBetween:
		low, high, ok := splitBetween(cond.Value)
		if !ok {
			return fmt.Errorf("%w: field %s value %q", ErrInvalidBetween, field, cond.Value)
		}
		f.add(field+" BETWEEN ? AND ?", low, high)

	default:
		f.add(field+" "+string(op)+" ?", cond.Value)
	}
	return nil
}

// splitBetween splits "<low> and <high>" on its single case-insensitive
// " and " separator, keeping the original case of both bounds.
func splitBetween(value string) (string, string, bool) {
	seps := betweenSep.FindAllStringIndex(value, -1)
	if len(seps) != 1 {
		return "", "", false
	}
	low := strings.TrimSpace(value[:seps[0][0]])
	high := strings.TrimSpace(value[seps[0][1]:])
	if low == "" || high == "" {
		return "", "", false
	}
	return low, high, true
}
