package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/researchscope/internal/search"
)

// Stage identifies one step of the analysis.
type Stage string

const (
	StageKeywords   Stage = "keywords"
	StageResearch   Stage = "research"
	StageSummary    Stage = "summary"
	StageValidation Stage = "validation"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageKeywords, StageResearch, StageSummary, StageValidation}

var stageTitles = map[Stage]string{
	StageKeywords:   "Extracting keywords",
	StageResearch:   "Researching papers",
	StageSummary:    "Summarizing findings",
	StageValidation: "Validating against requirements",
}

// Title returns the human-readable label for the stage.
func (s Stage) Title() string {
	if title, ok := stageTitles[s]; ok {
		return title
	}
	return string(s)
}

// Index returns the 1-based position of the stage, or 0 if unknown.
func (s Stage) Index() int {
	for i, stage := range Stages {
		if stage == s {
			return i + 1
		}
	}
	return 0
}

// Progress status values.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// StageOutput is the model response of one executed stage.
type StageOutput struct {
	Stage    Stage         `json:"stage"`
	Agent    string        `json:"agent"`
	Prompt   string        `json:"prompt"`
	Text     string        `json:"text"`
	Duration time.Duration `json:"duration"`
}

// KeywordResult is the output of the keyword stage.
// Keywords is empty when the model did not return the requested JSON.
type KeywordResult struct {
	Text     string
	Keywords []string
	Summary  string
	Query    string
}

// ResearchResult is the output of the research stage.
// SearchErr is set when the search failed; Text is still the model's analysis.
type ResearchResult struct {
	Text      string
	Results   []search.Result
	SearchErr error
}

// Report is the complete result of one analysis run.
type Report struct {
	ID            uuid.UUID       `json:"id"`
	Description   string          `json:"description"`
	Stages        []StageOutput   `json:"stages"`
	Keywords      []string        `json:"keywords"`
	Query         string          `json:"query"`
	SearchResults []search.Result `json:"search_results"`
	SearchError   string          `json:"search_error,omitempty"`
	Final         string          `json:"final"`
	CreatedAt     time.Time       `json:"created_at"`
	Duration      time.Duration   `json:"duration"`
}

// Output returns the output of the given stage, if it ran.
func (r *Report) Output(stage Stage) (StageOutput, bool) {
	for _, out := range r.Stages {
		if out.Stage == stage {
			return out, true
		}
	}
	return StageOutput{}, false
}
