// Package cli implements the aeonisd command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aeonisd",
	Short: "aeonisd — deterministic planetary tick simulation",
	Long: `aeonisd runs a fixed, sequential kernel pipeline over a seeded world —
astronomy, geodynamics, atmosphere, cryosphere, coupler, climate diagnostics,
classification and ecology — and emits one NDJSON frame per tick.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
