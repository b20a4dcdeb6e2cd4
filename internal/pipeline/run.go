// Package pipeline runs the four-stage project analysis: keyword extraction,
// literature search, summarization and validation, strictly in that order.
// Each stage takes the typed result of the one before it.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/researchscope/internal/agents"
	"github.com/jonathan/researchscope/internal/llm"
	"github.com/jonathan/researchscope/internal/observability"
	"github.com/jonathan/researchscope/internal/prompts"
	"github.com/jonathan/researchscope/internal/search"
)

// Options holds configuration for running the pipeline
type Options struct {
	MaxQueryTerms int
	Verbose       bool
	// Out receives the step lines and verbose output. Defaults to os.Stdout.
	Out        io.Writer
	OnProgress ProgressCallback
}

// Runner executes the analysis stages against a model client and a searcher.
type Runner struct {
	client   llm.Client
	searcher search.Searcher
	crew     *agents.Crew
	opts     Options
	out      io.Writer
	printer  *observability.Printer
}

// New creates a Runner. A nil searcher falls back to the Scholar scraper.
func New(client llm.Client, searcher search.Searcher, opts Options) (*Runner, error) {
	if client == nil {
		return nil, ErrMissingCredential
	}
	if searcher == nil {
		searcher = search.NewScholarSearcher(search.ScholarOptions{})
	}

	crew, err := agents.DefaultCrew()
	if err != nil {
		return nil, fmt.Errorf("failed to load agents: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.MaxQueryTerms <= 0 {
		opts.MaxQueryTerms = DefaultMaxQueryTerms
	}

	return &Runner{
		client:   client,
		searcher: searcher,
		crew:     crew,
		opts:     opts,
		out:      out,
		printer:  observability.NewPrinter(out),
	}, nil
}

// Run analyzes a project description and returns the full report.
// The report's Final text is the validation stage output.
func (r *Runner) Run(ctx context.Context, description string) (*Report, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	start := time.Now()
	report := &Report{
		ID:          uuid.New(),
		Description: description,
		CreatedAt:   start.UTC(),
	}

	kw, err := r.extractKeywords(ctx, report)
	if err != nil {
		return nil, err
	}

	research, err := r.research(ctx, report, kw)
	if err != nil {
		return nil, err
	}

	summary, err := r.summarize(ctx, report, kw, research)
	if err != nil {
		return nil, err
	}

	final, err := r.validate(ctx, report, summary)
	if err != nil {
		return nil, err
	}

	report.Final = final
	report.Duration = time.Since(start)
	fmt.Fprintf(r.out, "Analysis complete in %s.\n", report.Duration.Round(time.Millisecond)) //nolint:errcheck
	return report, nil
}

func (r *Runner) extractKeywords(ctx context.Context, report *Report) (*KeywordResult, error) {
	task, err := prompts.Get(prompts.AgentsFile, "keyword-task")
	if err != nil {
		return nil, &StageError{Stage: StageKeywords, Cause: err}
	}
	agent := r.crew.KeywordExtractor
	prompt := agent.Prompt(llm.BuildExtractionPrompt(llm.KeywordSchema(task), report.Description))

	text, err := r.call(ctx, report, StageKeywords, agent, prompt, r.client.GenerateJSON)
	if err != nil {
		return nil, err
	}

	keywords, summary, ok := parseKeywords(text)
	if !ok {
		fmt.Fprintf(r.out, "  Warning: keyword response was not structured JSON, using raw text\n") //nolint:errcheck
	}
	kw := &KeywordResult{
		Text:     text,
		Keywords: keywords,
		Summary:  summary,
		Query:    buildQuery(keywords, text, r.opts.MaxQueryTerms),
	}
	report.Keywords = keywords
	report.Query = kw.Query

	if r.opts.Verbose {
		r.printer.PrintKeywords(kw.Keywords, kw.Query)
	}
	r.emit(StageKeywords, StatusCompleted, fmt.Sprintf("Extracted %d keywords", len(keywords)), keywords)
	return kw, nil
}

func (r *Runner) research(ctx context.Context, report *Report, kw *KeywordResult) (*ResearchResult, error) {
	r.begin(StageResearch)

	results, searchErr := r.searcher.Search(ctx, kw.Query)
	if searchErr != nil {
		fmt.Fprintf(r.out, "  Warning: search failed: %v\n", searchErr) //nolint:errcheck
		report.SearchError = searchErr.Error()
		results = nil
	} else {
		fmt.Fprintf(r.out, "  Found %d search results\n", len(results)) //nolint:errcheck
	}
	report.SearchResults = results

	if r.opts.Verbose {
		r.printer.PrintSearchResults(results, searchErr)
	}

	task, err := prompts.Get(prompts.AgentsFile, "research-task")
	if err != nil {
		return nil, &StageError{Stage: StageResearch, Cause: err}
	}
	formatted, err := formatSearchResults(results, searchErr)
	if err != nil {
		return nil, &StageError{Stage: StageResearch, Cause: err}
	}
	agent := r.crew.Researcher
	prompt := agent.Prompt(prompts.Format(task, map[string]string{
		"Description":   report.Description,
		"Keywords":      formatKeywords(kw),
		"Query":         kw.Query,
		"SearchResults": formatted,
	}))

	text, err := r.generate(ctx, report, StageResearch, agent, prompt, r.client.GenerateContent)
	if err != nil {
		return nil, err
	}

	r.emit(StageResearch, StatusCompleted, fmt.Sprintf("Analyzed %d search results", len(results)), results)
	return &ResearchResult{Text: text, Results: results, SearchErr: searchErr}, nil
}

func (r *Runner) summarize(ctx context.Context, report *Report, kw *KeywordResult, research *ResearchResult) (string, error) {
	task, err := prompts.Get(prompts.AgentsFile, "summary-task")
	if err != nil {
		return "", &StageError{Stage: StageSummary, Cause: err}
	}
	agent := r.crew.Summarizer
	prompt := agent.Prompt(prompts.Format(task, map[string]string{
		"Keywords": formatKeywords(kw),
		"Research": strings.TrimSpace(research.Text),
	}))

	text, err := r.call(ctx, report, StageSummary, agent, prompt, r.client.GenerateContent)
	if err != nil {
		return "", err
	}
	r.emit(StageSummary, StatusCompleted, "Summary generated", nil)
	return text, nil
}

func (r *Runner) validate(ctx context.Context, report *Report, summary string) (string, error) {
	task, err := prompts.Get(prompts.AgentsFile, "validation-task")
	if err != nil {
		return "", &StageError{Stage: StageValidation, Cause: err}
	}
	agent := r.crew.Validator
	prompt := agent.Prompt(prompts.Format(task, map[string]string{
		"Description": report.Description,
		"Summary":     strings.TrimSpace(summary),
	}))

	text, err := r.call(ctx, report, StageValidation, agent, prompt, r.client.GenerateContent)
	if err != nil {
		return "", err
	}
	r.emit(StageValidation, StatusCompleted, "Validation complete", nil)
	return text, nil
}

type generateFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)

// call announces the stage and then runs its model request.
func (r *Runner) call(ctx context.Context, report *Report, stage Stage, agent agents.Agent, prompt string, gen generateFunc) (string, error) {
	r.begin(stage)
	return r.generate(ctx, report, stage, agent, prompt, gen)
}

// generate runs one model request and records its output on the report.
func (r *Runner) generate(ctx context.Context, report *Report, stage Stage, agent agents.Agent, prompt string, gen generateFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		r.emit(stage, StatusFailed, err.Error(), nil)
		return "", &StageError{Stage: stage, Cause: err}
	}

	started := time.Now()
	text, err := gen(ctx, prompt, agent.Tier)
	if err != nil {
		r.emit(stage, StatusFailed, err.Error(), nil)
		return "", &StageError{Stage: stage, Cause: err}
	}

	report.Stages = append(report.Stages, StageOutput{
		Stage:    stage,
		Agent:    agent.Name,
		Prompt:   prompt,
		Text:     text,
		Duration: time.Since(started),
	})
	if r.opts.Verbose && stage != StageKeywords {
		r.printer.PrintStageText(stage.Title(), text)
	}
	return text, nil
}

// begin prints the step line and emits the started event.
func (r *Runner) begin(stage Stage) {
	fmt.Fprintf(r.out, "Stage %d/%d: %s...\n", stage.Index(), len(Stages), stage.Title()) //nolint:errcheck
	r.emit(stage, StatusStarted, stage.Title(), nil)
}

// emit calls the progress callback if configured
func (r *Runner) emit(stage Stage, status, message string, content any) {
	if r.opts.OnProgress == nil {
		return
	}
	r.opts.OnProgress(ProgressEvent{
		Stage:   stage,
		Index:   stage.Index(),
		Total:   len(Stages),
		Status:  status,
		Message: message,
		Content: content,
	})
}

// formatSearchResults renders search hits for the research prompt.
func formatSearchResults(results []search.Result, searchErr error) (string, error) {
	if searchErr != nil {
		tmpl, err := prompts.Get(prompts.AgentsFile, "search-failed")
		if err != nil {
			return "", err
		}
		return prompts.Format(tmpl, map[string]string{"Error": searchErr.Error()}), nil
	}
	if len(results) == 0 {
		return prompts.Get(prompts.AgentsFile, "no-search-results")
	}

	var sb strings.Builder
	for i, res := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s", i+1, res.Title, res.Snippet))
		if res.URL != "" {
			sb.WriteString(fmt.Sprintf("\n   %s", res.URL))
		}
	}
	return sb.String(), nil
}
