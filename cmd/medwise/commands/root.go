package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/medwise/internal/app"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "medwise",
	Short: "Ask questions about brand and generic drugs",
	Long: `MedWise answers questions about brand-name drugs, their generic
alternatives, prices, manufacturers, retailers and side effects.

Configuration is read from CONFIG_PATH (default config/config.toml),
.env and NEO4J_* / LLM_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print generated Cypher")
	rootCmd.AddCommand(askCmd, batchCmd, drugCmd, indicesCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// withApp builds the process handles, runs fn, and tears them down.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer a.Close(context.Background())

	return fn(ctx, a)
}
