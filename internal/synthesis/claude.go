// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/company-research/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test
// substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude Messages API.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// NewClaudeBackend builds a Claude synthesis backend from cfg.
func NewClaudeBackend(cfg types.SynthesisConfig) *ClaudeBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ClaudeBackend{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Client: &http.Client{Timeout: timeout},
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// LookupWebsite asks for the organization's official URL.
func (c *ClaudeBackend) LookupWebsite(ctx context.Context, orgName string) (string, error) {
	prompt, err := renderWebsitePrompt(orgName)
	if err != nil {
		return "", unavailable("website lookup", err)
	}
	text, err := c.complete(ctx, prompt)
	if err != nil {
		return "", unavailable("website lookup", err)
	}
	return cleanLine(text), nil
}

// CorrectInput asks for a corrected field value during self-correction.
func (c *ClaudeBackend) CorrectInput(ctx context.Context, field, previous, hint string) (string, error) {
	prompt, err := renderCorrectionPrompt(field, previous, hint)
	if err != nil {
		return "", unavailable("input correction", err)
	}
	text, err := c.complete(ctx, prompt)
	if err != nil {
		return "", unavailable("input correction", err)
	}
	return cleanLine(text), nil
}

// Synthesize produces the structured research report.
func (c *ClaudeBackend) Synthesize(ctx context.Context, req types.ResearchRequest, results []types.SourceResult) (types.ResearchReport, error) {
	prompt, err := renderReportPrompt(req, results)
	if err != nil {
		return types.ResearchReport{}, unavailable("report synthesis", err)
	}

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return types.ResearchReport{}, unavailable("report synthesis", err)
	}

	var report types.ResearchReport
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &report); err != nil {
		return types.ResearchReport{}, unavailable("report synthesis",
			fmt.Errorf("parsing report JSON: %w", err))
	}

	finalizeReport(&report, req, results)
	return report, nil
}

// complete sends one user prompt and returns the first text block of the
// response.
func (c *ClaudeBackend) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 4096,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude API response")
}
