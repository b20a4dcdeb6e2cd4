package main

import (
	"context"
	"fmt"

	"github.com/jonathan/researchscope/internal/config"
	"github.com/jonathan/researchscope/internal/fetch"
	"github.com/jonathan/researchscope/internal/llm"
	"github.com/jonathan/researchscope/internal/search"
)

// loadConfig resolves the configuration and applies command-line overrides.
func loadConfig(model string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if model != "" {
		cfg.Model = model
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newClient creates the model client. The API key is checked first so a
// missing credential stops the command before any network call.
func newClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	llmCfg := llm.DefaultConfig().WithTemperature(cfg.SamplingTemperature())
	if cfg.Model != "" {
		llmCfg = llmCfg.WithAllModels(cfg.Model)
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// newSearcher creates the search backend selected by cfg.
func newSearcher(ctx context.Context, cfg *config.Config) (search.Searcher, error) {
	switch cfg.Backend() {
	case config.BackendCustom:
		s, err := search.NewCustomSearcher(ctx, cfg.SearchAPIKey, cfg.SearchCX, cfg.MaxResults)
		if err != nil {
			return nil, fmt.Errorf("failed to create search client: %w", err)
		}
		return s, nil
	default:
		fetchOpts := fetch.DefaultOptions()
		fetchOpts.Timeout = cfg.Timeout
		return search.NewScholarSearcher(search.ScholarOptions{
			BaseURL:         cfg.SearchURL,
			MaxResults:      cfg.MaxResults,
			Fetch:           fetchOpts,
			UseBrowser:      cfg.UseBrowser,
			BrowserFallback: cfg.BrowserFallback,
			BrowserTimeout:  cfg.Timeout,
			Verbose:         cfg.Verbose,
		}), nil
	}
}
