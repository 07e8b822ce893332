package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [sql]",
		Short: "Validate and execute a statement",
		Long: `Execute one SQL statement through the gateway.

The statement is validated first and runs inside a single transaction.
SELECT statements print their rows; other statements print the number of
rows affected. Positional parameters are bound with --param, in order.`,
		Example: `  sqlgate exec "SELECT * FROM mst_ledger WHERE user_id = ? AND company_name = ?" --param u1 --param Acme
  sqlgate exec "UPDATE mst_ledger SET opening_balance = 0 WHERE name = ?" --param Cash`,
		RunE: runExec,
	}
	cmd.Flags().StringArray("param", nil, "Positional parameter value (repeatable)")
	return cmd
}

func runExec(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	sqlText, err := readStatement(cmd, args)
	if err != nil {
		return err
	}
	raw, _ := cmd.Flags().GetStringArray("param")
	params := make([]any, len(raw))
	for i, p := range raw {
		params[i] = p
	}

	db, err := cc.OpenDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	res := cc.Gateway().Execute(cmd.Context(), sqlText, db, params...)
	return printResult(cmd, cc, res)
}

// readStatement joins args into one statement, or reads stdin when no args
// are given and stdin is not a terminal.
func readStatement(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if stdinIsTerminal() {
		return "", errors.New("no SQL statement given")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read statement from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
