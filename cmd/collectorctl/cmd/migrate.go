package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pazhukov/magic-collector/migrations"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.open(cmd)
			if err != nil {
				return err
			}

			if err := migrations.Apply(cmd.Context(), c.DB); err != nil {
				return fmt.Errorf("migrations.Apply: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema is up to date (%s)\n", c.DB.DriverName())

			return nil
		},
	}
}
