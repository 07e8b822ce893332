package commands

import (
	"fmt"

	"github.com/leapstack-labs/sqlgate/internal/store"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the reference tenant tables",
		Long: `Apply the embedded migrations that create the reference tenant tables
(mst_employee, mst_ledger, trn_voucher, mst_stock_item) in the configured database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			db, err := cc.OpenDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := store.Migrate(db); err != nil {
				return err
			}
			version, err := store.MigrationVersion(db)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s migrated to version %d\n", cc.Cfg.Database, version)
			return nil
		},
	}
}
