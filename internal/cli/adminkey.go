package cli

import (
	"fmt"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

func adminKeyCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "admin-key",
		Short: "Manage the API admin key",
	}

	c.AddCommand(&cobra.Command{
		Use:   "rotate",
		Short: "Delete every admin key and print a new one",
		Long: `Delete every admin key and print a new one.

Running API servers keep accepting the old key until they restart.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			key, err := b.store.RotateAdminKey(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to rotate admin key: %w", err)
			}

			level.Info(a.logger).Log("msg", "admin key rotated")
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	})
	return c
}
