// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/company-research/internal/httputil"
	"github.com/pdiddy/company-research/pkg/types"
)

// notionAPIURL is a package variable so tests can point the sink at a
// local server.
var notionAPIURL = "https://api.notion.com/v1/pages"

const notionVersion = "2022-06-28"

// NotionSink exports reports as pages in a Notion database.
type NotionSink struct {
	apiKey     string
	databaseID string
	client     *http.Client
}

// NewNotionSink builds a Notion sink from config. Credentials are checked
// at export time so an unconfigured sink can still be constructed.
func NewNotionSink(cfg types.SinkConfig) *NotionSink {
	return &NotionSink{
		apiKey:     cfg.NotionAPIKey,
		databaseID: cfg.NotionDatabaseID,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *NotionSink) Name() string { return "notion" }

// Export creates one database page per report and returns the page ID.
func (s *NotionSink) Export(ctx context.Context, report types.ResearchReport) (string, error) {
	if s.apiKey == "" || s.databaseID == "" {
		return "", unavailable("notion integration not configured", nil)
	}

	payload := map[string]any{
		"parent":     map[string]any{"database_id": s.databaseID},
		"properties": pageProperties(report),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", unavailable("encoding notion page", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notionAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", unavailable("building notion request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return "", unavailable("notion request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", unavailable(fmt.Sprintf("notion returned HTTP %d: %s",
			resp.StatusCode, bytes.TrimSpace(data)), nil)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", unavailable("decoding notion response", err)
	}
	return created.ID, nil
}

// pageProperties maps a report onto the target database's columns.
func pageProperties(report types.ResearchReport) map[string]any {
	props := map[string]any{
		"Company Name":   titleProp(report.OrganizationName),
		"Summary":        richTextProp(report.Summary),
		"Purpose":        richTextProp(report.Purpose),
		"Products":       multiSelectProp(report.Products),
		"Competitors":    multiSelectProp(report.Competitors),
		"Funding Round":  selectProp(report.FundingInfo["round"]),
		"Funding Amount": richTextProp(report.FundingInfo["amount"]),
	}
	if report.Website != "" {
		props["Website"] = urlProp(report.Website)
	}
	if report.Directory != "" {
		props["Directory"] = urlProp(report.Directory)
	}
	return props
}

func titleProp(s string) map[string]any {
	return map[string]any{"title": []any{textChunk(s)}}
}

func richTextProp(s string) map[string]any {
	return map[string]any{"rich_text": []any{textChunk(s)}}
}

func urlProp(s string) map[string]any {
	return map[string]any{"url": s}
}

func selectProp(s string) map[string]any {
	if s == "" {
		s = "unknown"
	}
	return map[string]any{"select": map[string]any{"name": s}}
}

func multiSelectProp(names []string) map[string]any {
	opts := make([]any, 0, len(names))
	for _, n := range names {
		opts = append(opts, map[string]any{"name": n})
	}
	return map[string]any{"multi_select": opts}
}

func textChunk(s string) map[string]any {
	return map[string]any{"text": map[string]any{"content": s}}
}
