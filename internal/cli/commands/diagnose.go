package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlgate/internal/store"
	"github.com/spf13/cobra"
)

// NewDiagnoseCommand creates the diagnose command.
func NewDiagnoseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Report how much data the configured tenant can see",
		Long: `Count the rows of the key tenant tables overall and for the configured
user_id and company_name. When the tenant has no employees the report lists
tenant combinations that do exist.`,
		RunE: runDiagnose,
	}
	cmd.Flags().StringSlice("tables", nil, "Tables to inspect (default: key tenant tables)")
	return cmd
}

func runDiagnose(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	tenant := cc.Cfg.Tenant()
	if !tenant.Complete() {
		return fmt.Errorf("diagnose needs both user_id and company_name")
	}

	db, err := cc.OpenDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tables, _ := cmd.Flags().GetStringSlice("tables")
	report, err := store.NewDiagnostics(db, cc.Gateway(), tables...).Run(cmd.Context(), tenant)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cc.Cfg.Output == "json" {
		return renderJSON(out, report)
	}

	_, _ = fmt.Fprintf(out, "Tables: %s\n", strings.Join(report.Tables, ", "))
	t := newTable(out, "Table", "Total", "Tenant", "Error")
	for _, e := range report.Entries {
		t.AppendRow(table.Row{e.Table, e.Total, e.Tenant, e.Error})
	}
	renderTable(t, cc.Cfg.Output)

	if len(report.Tenants) > 0 {
		_, _ = fmt.Fprintln(out, "No employees for this tenant. Existing tenants:")
		tt := newTable(out, "user_id", "company_name")
		for _, f := range report.Tenants {
			tt.AppendRow(table.Row{formatValue(f.UserID), formatValue(f.CompanyName)})
		}
		renderTable(tt, cc.Cfg.Output)
	}
	return nil
}
