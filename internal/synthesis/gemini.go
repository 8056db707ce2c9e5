// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/company-research/pkg/types"
)

// GeminiBackend calls the Gemini API with structured output for report
// synthesis.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend builds a Gemini synthesis backend from cfg.
func NewGeminiBackend(ctx context.Context, cfg types.SynthesisConfig) (*GeminiBackend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini backend requires an API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiBackend{client: client, model: cfg.Model}, nil
}

// mediaItemSchema mirrors types.MediaItem.
var mediaItemSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":  {Type: genai.TypeString},
		"url":    {Type: genai.TypeString},
		"date":   {Type: genai.TypeString},
		"source": {Type: genai.TypeString},
	},
	Required: []string{"title", "url"},
}

// reportSchema is the structured-output schema for the research report.
var reportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"website":   {Type: genai.TypeString},
		"directory": {Type: genai.TypeString},
		"summary":   {Type: genai.TypeString},
		"purpose":   {Type: genai.TypeString},
		"products": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"competitors": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"funding_info": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"round":  {Type: genai.TypeString},
				"amount": {Type: genai.TypeString},
			},
		},
		"news":   {Type: genai.TypeArray, Items: mediaItemSchema},
		"videos": {Type: genai.TypeArray, Items: mediaItemSchema},
		"follow_up_questions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"interview_questions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{
		"website", "directory", "summary", "purpose",
		"products", "competitors", "follow_up_questions", "interview_questions",
	},
}

// LookupWebsite asks for the organization's official URL.
func (g *GeminiBackend) LookupWebsite(ctx context.Context, orgName string) (string, error) {
	prompt, err := renderWebsitePrompt(orgName)
	if err != nil {
		return "", unavailable("website lookup", err)
	}
	text, err := g.generateText(ctx, prompt)
	if err != nil {
		return "", unavailable("website lookup", err)
	}
	return cleanLine(text), nil
}

// CorrectInput asks for a corrected field value during self-correction.
func (g *GeminiBackend) CorrectInput(ctx context.Context, field, previous, hint string) (string, error) {
	prompt, err := renderCorrectionPrompt(field, previous, hint)
	if err != nil {
		return "", unavailable("input correction", err)
	}
	text, err := g.generateText(ctx, prompt)
	if err != nil {
		return "", unavailable("input correction", err)
	}
	return cleanLine(text), nil
}

// Synthesize produces the structured research report via Gemini structured
// output.
func (g *GeminiBackend) Synthesize(ctx context.Context, req types.ResearchRequest, results []types.SourceResult) (types.ResearchReport, error) {
	prompt, err := renderReportPrompt(req, results)
	if err != nil {
		return types.ResearchReport{}, unavailable("report synthesis", err)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			CandidateCount:   1,
			ResponseMIMEType: "application/json",
			ResponseSchema:   reportSchema,
		})
	if err != nil {
		return types.ResearchReport{}, unavailable("report synthesis", err)
	}

	var report types.ResearchReport
	if err := json.Unmarshal([]byte(resp.Text()), &report); err != nil {
		return types.ResearchReport{}, unavailable("report synthesis",
			fmt.Errorf("parsing structured response: %w", err))
	}

	finalizeReport(&report, req, results)
	return report, nil
}

// generateText runs a plain text generation call.
func (g *GeminiBackend) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{CandidateCount: 1})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
