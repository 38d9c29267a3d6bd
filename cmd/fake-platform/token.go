package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/learnboard/internal/fakeplatform"
)

var tokenFlags datasetFlags

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a token the serve command would accept",
	RunE: func(cmd *cobra.Command, _ []string) error {
		token, err := fakeplatform.New(tokenFlags.config()).Mint()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenFlags.bind(tokenCmd)
	rootCmd.AddCommand(tokenCmd)
}
