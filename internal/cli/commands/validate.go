package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrRejected is returned when a statement fails validation.
var ErrRejected = errors.New("statement rejected")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [sql]",
		Short: "Check a statement against the safety gate",
		Long: `Run the lexical safety checks on a SQL statement without executing it.

The statement is read from the arguments, or from stdin when none are given.
Exits non-zero when the statement is rejected.`,
		Example: `  sqlgate validate "SELECT * FROM mst_employee"
  echo "DROP TABLE t" | sqlgate validate`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	sqlText, err := readStatement(cmd, args)
	if err != nil {
		return err
	}

	res := cc.Validator().Validate(sqlText)
	out := cmd.OutOrStdout()
	if cc.Cfg.Output == "json" {
		if err := renderJSON(out, res); err != nil {
			return err
		}
	} else if res.Safe {
		_, _ = fmt.Fprintln(out, "safe")
	} else {
		_, _ = fmt.Fprintf(out, "unsafe: %s\n", res.Reason)
	}

	if !res.Safe {
		return fmt.Errorf("%w: %s", ErrRejected, res.Reason)
	}
	return nil
}
