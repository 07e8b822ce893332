package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/leapstack-labs/sqlgate/pkg/core"
	"github.com/leapstack-labs/sqlgate/pkg/predicate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// queryFile is the YAML layout accepted by query --file.
type queryFile struct {
	core.ParsedQuery `yaml:",inline"`
	Columns          []string `yaml:"columns"`
	Limit            int      `yaml:"limit"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a structured query with tenant isolation",
		Long: `Build a tenant-isolated SELECT from a structured query and run it.

The query comes from a YAML file (--file) or from flags. Conditions given
with --where take the form field:OPERATOR:value. The configured user_id and
company_name override any tenant in the file.`,
		Example: `  sqlgate query --table mst_employee --where "name:LIKE:Raj" --limit 10
  sqlgate query --table trn_voucher --where "voucher_date:date_condition:last 7 days"
  sqlgate query --file query.yaml --dry-run`,
		RunE: runQuery,
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with tables, conditions and user_filters")
	cmd.Flags().StringSlice("table", nil, "Table to query (repeatable)")
	cmd.Flags().StringArray("where", nil, "Condition as field:OPERATOR:value (repeatable)")
	cmd.Flags().StringSlice("columns", nil, "Columns to select (default *)")
	cmd.Flags().Int("limit", 0, "Maximum number of rows (0 for no limit)")
	cmd.Flags().Bool("dry-run", false, "Print the statement and parameters without executing")
	return cmd
}

func runQuery(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)

	q, err := loadQuery(cmd)
	if err != nil {
		return err
	}
	tenant := cc.Cfg.Tenant()
	if tenant.UserID != nil {
		q.UserFilters.UserID = tenant.UserID
	}
	if tenant.CompanyName != nil {
		q.UserFilters.CompanyName = tenant.CompanyName
	}

	db, err := cc.OpenDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	schema, err := cc.Schema(cmd.Context(), db)
	if err != nil {
		return err
	}
	builder := cc.Builder(schema)
	clause, err := builder.Build(q.ParsedQuery)
	if err != nil {
		return err
	}
	stmt, err := predicate.SelectStatement(q.Tables, q.Columns, clause.SQL, q.Limit)
	if err != nil {
		return err
	}

	if cc.Cfg.Verbose {
		errOut := cmd.ErrOrStderr()
		_, _ = fmt.Fprintf(errOut, "-- mode: %s\n", builder.Mode())
		for _, note := range clause.Assumptions {
			_, _ = fmt.Fprintf(errOut, "-- %s\n", note)
		}
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, stmt)
		for i, p := range clause.Parameters {
			_, _ = fmt.Fprintf(out, "-- $%d = %v\n", i+1, p)
		}
		return nil
	}

	res := cc.Gateway().Execute(cmd.Context(), stmt, db, clause.Parameters...)
	return printResult(cmd, cc, res)
}

func loadQuery(cmd *cobra.Command) (queryFile, error) {
	var q queryFile

	path, _ := cmd.Flags().GetString("file")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return q, fmt.Errorf("failed to read query file: %w", err)
		}
		if err := yaml.Unmarshal(data, &q); err != nil {
			return q, fmt.Errorf("failed to parse query file: %w", err)
		}
	}

	// Flags add to whatever the file declared.
	tables, _ := cmd.Flags().GetStringSlice("table")
	q.Tables = append(q.Tables, tables...)
	wheres, _ := cmd.Flags().GetStringArray("where")
	for _, w := range wheres {
		cond, err := parseCondition(w)
		if err != nil {
			return q, err
		}
		q.Conditions = append(q.Conditions, cond)
	}
	if cmd.Flags().Changed("columns") {
		q.Columns, _ = cmd.Flags().GetStringSlice("columns")
	}
	if cmd.Flags().Changed("limit") {
		q.Limit, _ = cmd.Flags().GetInt("limit")
	}

	if len(q.Tables) == 0 {
		return q, errors.New("no tables given (use --table or --file)")
	}
	return q, nil
}

// parseCondition parses field:OPERATOR:value. The value may itself contain
// colons. IS NULL and IS NOT NULL take no value.
func parseCondition(s string) (core.Condition, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return core.Condition{}, fmt.Errorf("invalid condition %q (expected field:OPERATOR:value)", s)
	}
	cond := core.Condition{
		Field:    strings.TrimSpace(parts[0]),
		Operator: core.Operator(strings.TrimSpace(parts[1])),
	}
	if len(parts) == 3 {
		cond.Value = parts[2]
	}
	return cond, nil
}
