package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Maintain stored selection state",
	}
	cmd.AddCommand(newStatePruneCmd(app))
	return cmd
}

func newStatePruneCmd(app *App) *cobra.Command {
	var ttl time.Duration
	var maxKeys int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop stale per-user selection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Prompts.PruneState(cmd.Context(), ttl, maxKeys)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d user states.\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 90*24*time.Hour, "Drop states untouched for longer than this (0 keeps all)")
	cmd.Flags().IntVar(&maxKeys, "max-keys", 0, "Keep only this many most recent states (0 for no limit)")
	return cmd
}
