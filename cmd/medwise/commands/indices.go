package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/medwise/internal/app"
)

var indicesCmd = &cobra.Command{
	Use:   "indices",
	Short: "Create the graph indexes used by drug lookups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.MedWise.BuildIndices(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Indexes ready")
			return nil
		})
	},
}
