package commands

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlgate/pkg/core"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the schema seen by the predicate builder",
		Long: `List the tables and columns the predicate builder resolves, marking the
tables that carry both tenant columns and therefore receive isolation filters.`,
		RunE: runSchema,
	}
}

func runSchema(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)

	db, err := cc.OpenDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	schema, err := cc.Schema(cmd.Context(), db)
	if err != nil {
		return err
	}
	if len(schema) == 0 {
		return errors.New("no schema available")
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	if cc.Cfg.Output == "json" {
		tables := make([]core.TableMetadata, 0, len(names))
		for _, name := range names {
			tables = append(tables, schema[name])
		}
		return renderJSON(out, tables)
	}

	t := newTable(out, "Table", "Column", "Type", "Tenant")
	for _, name := range names {
		tenant := ""
		if schema.HasColumns(name, core.ColumnUserID, core.ColumnCompanyName) {
			tenant = "yes"
		}
		for _, col := range schema[name].Columns {
			t.AppendRow(table.Row{name, col.Name, col.Type, tenant})
		}
	}
	renderTable(t, cc.Cfg.Output)
	if cc.Cfg.Output == "table" {
		_, _ = fmt.Fprintf(out, "(%d tables)\n", len(names))
	}
	return nil
}
