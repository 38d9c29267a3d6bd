package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/okian/learnboard/internal/fakeplatform"
)

var dumpFlags datasetFlags

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the generated dataset as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d := fakeplatform.Generate(dumpFlags.config())
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	},
}

func init() {
	dumpFlags.bind(dumpCmd)
	rootCmd.AddCommand(dumpCmd)
}
