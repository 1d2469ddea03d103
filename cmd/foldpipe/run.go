package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foldpipe/foldpipe"
)

var (
	runPipelineFile string
	runPipelineName string
	runText         string
	runInputPath    string
	runLogging      bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline from a TOML pipeline file",
		Long: `Run one pipeline declared in a TOML pipeline file.

The input value is either inline text (--text) or a file path (--input); a
path is handed to the pipeline's first step as-is, so pipelines consuming
files should begin with a file processor such as text_file or csv_file.`,
		RunE: runPipeline,
	}
)

func init() {
	runCmd.Flags().StringVarP(&runPipelineFile, "pipelines", "p", "", "TOML pipeline file (required)")
	runCmd.Flags().StringVarP(&runPipelineName, "name", "n", "", "pipeline to run (defaults to the only one declared)")
	runCmd.Flags().StringVarP(&runText, "text", "t", "", "inline text input")
	runCmd.Flags().StringVarP(&runInputPath, "input", "i", "", "input file path, passed to the pipeline's first step")
	runCmd.Flags().BoolVar(&runLogging, "log", false, "emit per-stage log records for pipelines with logging enabled")
	_ = runCmd.MarkFlagRequired("pipelines")
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	if runText == "" && runInputPath == "" {
		return fmt.Errorf("either --text or --input is required")
	}

	var cfg *foldpipe.LogConfig
	if runLogging {
		cfg = foldpipe.NewLogConfig(os.Stderr)
		cfg.SetEnabled(true)
	}

	reg := foldpipe.NewDefault()
	pipelines, err := foldpipe.LoadPipelines(runPipelineFile, reg, cfg)
	if err != nil {
		return err
	}

	name := runPipelineName
	if name == "" {
		if len(pipelines) != 1 {
			return fmt.Errorf("%s declares %d pipelines, pick one with --name", runPipelineFile, len(pipelines))
		}
		for n := range pipelines {
			name = n
		}
	}
	pipe, ok := pipelines[name]
	if !ok {
		return fmt.Errorf("no pipeline named %q in %s", name, runPipelineFile)
	}

	var input any
	if runInputPath != "" {
		input = runInputPath
	} else {
		input = runText
	}

	result, err := pipe.Process(context.Background(), input)
	if err != nil {
		return err
	}

	switch v := result.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case foldpipe.Matrix:
		out, err := foldpipe.MatrixToCSV(v, ',')
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", v)
	}
	return nil
}
