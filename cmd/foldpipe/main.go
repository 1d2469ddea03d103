package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "foldpipe",
		Short: "Registry-driven text and matrix processing pipelines",
		Long: `foldpipe runs text and matrix processing pipelines declared in TOML files.

A pipeline file holds one or more named pipelines, each a list of registered
processor steps. Pipelines that should read from disk start with a file
processor step (text_file, csv_file, ...) and receive the input path as their
first value.`,
		Version: version,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(processorsCmd)
}
