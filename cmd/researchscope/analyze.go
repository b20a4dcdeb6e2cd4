package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/researchscope/internal/pipeline"
	"github.com/jonathan/researchscope/internal/prompts"
	"github.com/jonathan/researchscope/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [description]",
	Short: "Analyze a project description from the command line",
	Long: `Run the four analysis stages on a project description and print the final
validation. The description comes from the arguments, --file (use "-" for stdin)
or --example.`,
	RunE: runAnalyze,
}

var (
	analyzeFile    string
	analyzeExample string
	analyzeOutput  string
	analyzeFormat  string
	analyzeModel   string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Read the description from a file (\"-\" for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeExample, "example", "e", "", "Analyze a bundled example project (see 'researchscope examples')")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "Report format: txt or md (default from --output extension, else txt)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Use this Gemini model for every stage")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	description, err := readDescription(args, analyzeFile, analyzeExample, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if strings.TrimSpace(description) == "" {
		return pipeline.ErrEmptyDescription
	}

	format, err := outputFormat(analyzeFormat, analyzeOutput)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(analyzeModel)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	searcher, err := newSearcher(ctx, cfg)
	if err != nil {
		return err
	}

	runner, err := pipeline.New(client, searcher, pipeline.Options{
		MaxQueryTerms: cfg.MaxQueryTerms,
		Verbose:       cfg.Verbose,
		Out:           cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	rep, err := runner.Run(ctx, description)
	if err != nil {
		return err
	}

	if analyzeOutput == "" {
		return report.Write(cmd.OutOrStdout(), rep, format)
	}
	if err := writeReportFile(analyzeOutput, rep, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", analyzeOutput) //nolint:errcheck
	return nil
}

// readDescription picks the description source. Arguments win over --file,
// which wins over --example.
func readDescription(args []string, file, example string, stdin io.Reader) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read description file: %w", err)
		}
		return string(data), nil
	case example != "":
		ex, ok := prompts.FindExample(example)
		if !ok {
			return "", fmt.Errorf("unknown example %q (see 'researchscope examples')", example)
		}
		return ex.Description, nil
	default:
		return "", nil
	}
}

// outputFormat resolves --format, falling back to the --output extension.
func outputFormat(format, output string) (report.Format, error) {
	if format == "" && output != "" {
		format = strings.TrimPrefix(filepath.Ext(output), ".")
		if format != "md" && format != "markdown" {
			format = ""
		}
	}
	return report.ParseFormat(format)
}

func writeReportFile(path string, rep *pipeline.Report, format report.Format) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := report.Write(f, rep, format); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

