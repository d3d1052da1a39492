// Package main provides the MedWise command line tool.
//
// Usage:
//
//	medwise [--verbose] <command> [args]
//
// Commands:
//
//	ask      - Answer a question, or start an interactive prompt
//	batch    - Ask for the cheapest generic of the reference brands
//	drug     - Print the brand / generic comparison for a brand name
//	indices  - Create the graph indexes
package main

import (
	"fmt"
	"os"

	"github.com/agenthands/medwise/cmd/medwise/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
