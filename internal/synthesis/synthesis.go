// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis is the boundary to the generative AI capability. The
// engine uses it for three things: looking up an organization's official
// website URL, producing corrected inputs during dispatcher self-correction,
// and synthesizing the final structured report from gathered source
// results.
package synthesis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/company-research/pkg/types"
)

// Synthesizer abstracts the generative AI API so tests can supply a mock.
// Implementations return SynthesisUnavailable errors on backend failure.
type Synthesizer interface {
	// LookupWebsite returns the organization's official website URL as a
	// bare string.
	LookupWebsite(ctx context.Context, orgName string) (string, error)

	// CorrectInput asks for a corrected value for a field, given the
	// previous value and a hint describing the expected shape.
	CorrectInput(ctx context.Context, field, previous, hint string) (string, error)

	// Synthesize turns the request plus successful source results into a
	// structured research report.
	Synthesize(ctx context.Context, req types.ResearchRequest, results []types.SourceResult) (types.ResearchReport, error)
}

// New builds the configured Synthesizer backend.
func New(ctx context.Context, cfg types.SynthesisConfig) (Synthesizer, error) {
	switch cfg.Backend {
	case types.BackendClaude, "":
		return NewClaudeBackend(cfg), nil
	case types.BackendGemini:
		return NewGeminiBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown synthesis backend %q", cfg.Backend)
	}
}

// unavailable wraps a backend failure into the run-level error kind.
func unavailable(op string, err error) error {
	return types.NewError(types.KindSynthesisUnavailable, op+" failed", err)
}

// finalizeReport fills derived fields the model does not own.
func finalizeReport(report *types.ResearchReport, req types.ResearchRequest, results []types.SourceResult) {
	report.OrganizationName = req.OrganizationName
	report.GeneratedAt = time.Now()

	// Prefer URLs the fetchers actually verified over model output.
	for _, r := range results {
		if !r.OK() || r.URL == "" {
			continue
		}
		switch r.Source {
		case types.SourceWebsite:
			report.Website = r.URL
		case types.SourceDirectory:
			report.Directory = r.URL
		}
	}
}

// cleanLine reduces a model completion to one trimmed line, guarding
// against chatty responses to single-value prompts.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.Trim(s, "`"))
}
