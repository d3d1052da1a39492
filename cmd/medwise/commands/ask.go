package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/medwise/internal/app"
	"github.com/agenthands/medwise/internal/core/apperr"
	"github.com/agenthands/medwise/internal/core/shape"
	"github.com/agenthands/medwise/internal/core/translate"
)

// Asker answers a question and exposes the generated Cypher.
type Asker interface {
	AskVerbose(ctx context.Context, question string) (*translate.Result, shape.AnswerResponse, error)
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a free-text drug question",
	Long: `Translate a question into a graph query and answer it from the results.

Without arguments an interactive prompt starts; type 'exit' or 'quit' to leave.

Examples:
  medwise ask "Who makes Tylenol?"
  medwise ask --verbose "What is the cheapest generic alternative to Advil?"
  medwise ask`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				return ask(ctx, a.MedWise, out, strings.Join(args, " "), verbose)
			}
			return interactive(ctx, a.MedWise, cmd.InOrStdin(), out, verbose)
		})
	},
}

// ask prints the answer to question. With verbose set the generated Cypher is
// printed as well, including a query the validator rejected.
func ask(ctx context.Context, asker Asker, out io.Writer, question string, verbose bool) error {
	res, resp, err := asker.AskVerbose(ctx, question)
	if err != nil {
		var te *apperr.TranslationError
		if verbose && errors.As(err, &te) && te.Query != "" {
			fmt.Fprintf(out, "Cypher (%s failed): %s\n", te.Stage, te.Query)
		}
		return err
	}
	if verbose && res != nil {
		fmt.Fprintf(out, "Cypher: %s\n", res.Cypher)
	}
	fmt.Fprintf(out, "Answer: %s\n", resp.Answer)
	return nil
}

func interactive(ctx context.Context, asker Asker, in io.Reader, out io.Writer, verbose bool) error {
	fmt.Fprintln(out, "Ask a question about the drug graph (type 'exit' to quit):")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, ">> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if isExit(line) {
			return nil
		}
		if line == "" {
			continue
		}
		if err := ask(ctx, asker, out, line, verbose); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		fmt.Fprintln(out)
	}
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	}
	return false
}
