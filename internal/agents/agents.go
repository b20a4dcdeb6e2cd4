// Package agents defines the four personas that drive the analysis stages.
// An agent is a role prompt (name, goal, backstory) plus the model tier it runs on;
// the role prompt is prefixed to every task handed to that agent.
package agents

import (
	"fmt"
	"strings"

	"github.com/jonathan/researchscope/internal/llm"
	"github.com/jonathan/researchscope/internal/prompts"
)

// Agent is one persona in the analysis pipeline.
type Agent struct {
	Key       string
	Name      string
	Goal      string
	Backstory string
	Tier      llm.ModelTier
}

// RolePrompt returns the instructional prefix identifying the agent.
func (a Agent) RolePrompt() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are the %s.\n", a.Name))
	sb.WriteString(fmt.Sprintf("Your goal: %s.\n", a.Goal))
	sb.WriteString(a.Backstory)
	sb.WriteString("\n\n")
	return sb.String()
}

// Prompt concatenates the role prompt with a task.
func (a Agent) Prompt(task string) string {
	return a.RolePrompt() + "Task:\n" + task
}

func load(key string, tier llm.ModelTier) (Agent, error) {
	agent := Agent{Key: key, Tier: tier}
	fields := []struct {
		suffix string
		dst    *string
	}{
		{"name", &agent.Name},
		{"goal", &agent.Goal},
		{"backstory", &agent.Backstory},
	}
	for _, f := range fields {
		value, err := prompts.Get(prompts.AgentsFile, key+"-"+f.suffix)
		if err != nil {
			return Agent{}, fmt.Errorf("loading agent %s: %w", key, err)
		}
		*f.dst = value
	}
	return agent, nil
}

// Crew holds one agent per stage.
type Crew struct {
	KeywordExtractor Agent
	Researcher       Agent
	Summarizer       Agent
	Validator        Agent
}

// DefaultCrew loads the four agents from the embedded prompt file.
func DefaultCrew() (*Crew, error) {
	var crew Crew
	members := []struct {
		key  string
		tier llm.ModelTier
		dst  *Agent
	}{
		{"keyword-extractor", llm.TierLite, &crew.KeywordExtractor},
		{"researcher", llm.TierStandard, &crew.Researcher},
		{"summarizer", llm.TierStandard, &crew.Summarizer},
		{"validator", llm.TierAdvanced, &crew.Validator},
	}
	for _, m := range members {
		agent, err := load(m.key, m.tier)
		if err != nil {
			return nil, err
		}
		*m.dst = agent
	}
	return &crew, nil
}
