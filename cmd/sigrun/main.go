// Command sigrun runs a JavaScript file with the reactive signal module
// available through require('signal').
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sigrun",
		Short: "Run scripts against a fine-grained reactive graph",
		Long: `sigrun evaluates JavaScript files in an embedded runtime where
require('signal') exposes signals, memos, computations and scopes.

Examples:
  sigrun run counter.js
  sigrun run --equality=strict --metrics counter.js
  sigrun run --config sigrun.yaml counter.js`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
