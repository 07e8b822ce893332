package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlgate/pkg/core"
	"github.com/spf13/cobra"
)

func newTable(w io.Writer, header ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	row := make(table.Row, len(header))
	for i, h := range header {
		row[i] = h
	}
	t.AppendHeader(row)
	return t
}

// renderTable renders t in the requested format. JSON is handled by callers.
func renderTable(t table.Writer, format string) {
	switch format {
	case "csv":
		t.RenderCSV()
	case "md":
		t.RenderMarkdown()
	default:
		t.Render()
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderResult prints a successful result. Reads render rows, writes
// print the affected row count.
func renderResult(w io.Writer, res core.ExecutionResult, format string) error {
	if format == "json" {
		return renderJSON(w, res)
	}
	if res.Data == nil {
		_, _ = fmt.Fprintf(w, "%d rows affected\n", res.RowsAffected)
		return nil
	}
	if len(res.Data) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newTable(w, res.Columns...)
	for _, r := range res.Data {
		row := make(table.Row, len(r.Values))
		for i, v := range r.Values {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}
	renderTable(t, format)
	if format == "table" {
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(res.Data))
	}
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	}
	return fmt.Sprintf("%v", v)
}

// printResult renders res and turns a failed execution into the command
// error. JSON output carries failures too.
func printResult(cmd *cobra.Command, cc *CommandContext, res core.ExecutionResult) error {
	out := cmd.OutOrStdout()
	if cc.Cfg.Output == "json" {
		if err := renderJSON(out, res); err != nil {
			return err
		}
	} else if res.Success {
		if err := renderResult(out, res, cc.Cfg.Output); err != nil {
			return err
		}
	}
	if !res.Success {
		return res.Err
	}
	return nil
}
