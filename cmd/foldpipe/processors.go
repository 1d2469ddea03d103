package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foldpipe/foldpipe"
)

var processorsCmd = &cobra.Command{
	Use:   "processors",
	Short: "List all registered processors",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Registered processors:")
		fmt.Fprintln(cmd.OutOrStdout())
		for _, name := range foldpipe.NewDefault().Names() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
	},
}
