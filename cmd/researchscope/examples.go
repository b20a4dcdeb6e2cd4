package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/researchscope/internal/prompts"
)

var examplesFull bool

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the bundled example projects",
	RunE:  runExamples,
}

func init() {
	examplesCmd.Flags().BoolVar(&examplesFull, "full", false, "Print each example's full description")
	rootCmd.AddCommand(examplesCmd)
}

func runExamples(cmd *cobra.Command, _ []string) error {
	examples, err := prompts.Examples()
	if err != nil {
		return fmt.Errorf("failed to load examples: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, ex := range examples {
		fmt.Fprintln(out, ex.Name) //nolint:errcheck
		if examplesFull {
			fmt.Fprintf(out, "%s\n\n", ex.Description) //nolint:errcheck
		}
	}
	return nil
}
