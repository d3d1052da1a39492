package commands

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/medwise/internal/app"
)

var drugCmd = &cobra.Command{
	Use:   "drug <name>",
	Short: "Print the brand / generic comparison for a brand name",
	Long: `Look up a brand drug by exact name and print its comparison record
(brand, cheapest generic, other generics) as JSON.

Examples:
  medwise drug Tylenol
  medwise drug "Pepto-Bismol"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			resp, err := a.MedWise.CompareDrug(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		})
	},
}
