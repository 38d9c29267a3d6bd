// Package main runs a synthetic education platform for local development.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fake-platform",
	Short: "Synthetic education platform for learnboard",
	Long: `fake-platform serves the sign-in and GraphQL endpoints learnboard reads
from, answering from a deterministic dataset generated from a seed.`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
