package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agenthands/medwise/internal/app"
)

// BatchDrugs are the reference brands exercised by the batch command.
var BatchDrugs = []string{
	"Advil", "Mucinex", "Claritin", "Zyrtec", "Tylenol",
	"Aleve", "Pepto-Bismol", "Benadryl", "Robitussin", "Dramamine",
}

func cheapestGenericQuestion(drug string) string {
	return fmt.Sprintf("What is the cheapest generic alternative to %s?", drug)
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Ask for the cheapest generic of each reference brand",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			runBatch(ctx, a.MedWise, cmd.OutOrStdout(), BatchDrugs, verbose)
			return nil
		})
	},
}

// runBatch asks the cheapest-generic question for every drug. A failure is
// reported and the batch moves on. It returns the number answered.
func runBatch(ctx context.Context, asker Asker, out io.Writer, drugs []string, verbose bool) int {
	answered := 0
	for _, drug := range drugs {
		q := cheapestGenericQuestion(drug)
		fmt.Fprintf(out, "Q: %s\n", q)
		if err := ask(ctx, asker, out, q, verbose); err != nil {
			fmt.Fprintf(out, "Error with %s: %v\n", drug, err)
		} else {
			answered++
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d/%d answered\n", answered, len(drugs))
	return answered
}
