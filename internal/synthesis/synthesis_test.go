// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-research/pkg/types"
)

// claudeServer fakes the Claude Messages API, returning text as the single
// content block.
func claudeServer(t *testing.T, text string, status int) *ClaudeBackend {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
		})
	}))
	orig := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() {
		claudeAPIURL = orig
		ts.Close()
	})
	return NewClaudeBackend(types.SynthesisConfig{APIKey: "test-key", Model: "claude-sonnet-4-5-20250929"})
}

func TestLookupWebsiteTrimsResponse(t *testing.T) {
	c := claudeServer(t, "  https://acme.com \nextra chatter", http.StatusOK)

	url, err := c.LookupWebsite(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com", url)
}

func TestLookupWebsiteBackendDown(t *testing.T) {
	c := claudeServer(t, "", http.StatusInternalServerError)

	_, err := c.LookupWebsite(context.Background(), "Acme")
	assert.Equal(t, types.KindSynthesisUnavailable, types.KindOf(err))
}

func TestCorrectInput(t *testing.T) {
	c := claudeServer(t, "Acme Corporation", http.StatusOK)

	got, err := c.CorrectInput(context.Background(), "organization name", "Acme",
		"The directory expects the full registered name.")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", got)
}

func TestSynthesizeParsesReport(t *testing.T) {
	reportJSON := `{
		"website": "https://model-said.example.com",
		"directory": "",
		"summary": "Acme builds tools.",
		"purpose": "Tools for everyone.",
		"products": ["Anvils"],
		"competitors": ["Globex"],
		"funding_info": {"round": "B", "amount": "$40M"},
		"follow_up_questions": ["Who are their customers?"],
		"interview_questions": ["Why anvils?"]
	}`
	c := claudeServer(t, reportJSON, http.StatusOK)

	req := types.ResearchRequest{OrganizationName: "Acme"}
	results := []types.SourceResult{
		{Source: types.SourceWebsite, Status: types.StatusSuccess, URL: "https://acme.com", Content: "Acme builds tools"},
		{Source: types.SourceDirectory, Status: types.StatusSuccess, URL: "https://www.linkedin.com/company/acme", Fields: map[string]string{"industry": "Software"}},
	}

	report, err := c.Synthesize(context.Background(), req, results)
	require.NoError(t, err)

	assert.Equal(t, "Acme", report.OrganizationName)
	assert.Equal(t, "Acme builds tools.", report.Summary)
	assert.Equal(t, []string{"Anvils"}, report.Products)
	assert.Equal(t, "$40M", report.FundingInfo["amount"])
	assert.False(t, report.GeneratedAt.IsZero())

	// Verified fetcher URLs win over whatever the model emitted.
	assert.Equal(t, "https://acme.com", report.Website)
	assert.Equal(t, "https://www.linkedin.com/company/acme", report.Directory)
}

func TestSynthesizeRejectsNonJSON(t *testing.T) {
	c := claudeServer(t, "I could not produce a report today.", http.StatusOK)

	_, err := c.Synthesize(context.Background(), types.ResearchRequest{OrganizationName: "Acme"}, nil)
	assert.Equal(t, types.KindSynthesisUnavailable, types.KindOf(err))
}

func TestRenderSourcesSkipsFailures(t *testing.T) {
	out := renderSources([]types.SourceResult{
		{Source: types.SourceWebsite, Status: types.StatusSuccess, URL: "https://acme.com", Content: "Acme builds tools"},
		{Source: types.SourceDirectory, Status: types.StatusError, ErrorDetail: "organization not found"},
	})

	assert.Contains(t, out, "Acme builds tools")
	assert.NotContains(t, out, "organization not found")
}

func TestRenderSourcesEmpty(t *testing.T) {
	assert.Equal(t, "(no source material gathered)", renderSources(nil))
}

func TestRenderCorrectionPromptHidesNothingNeeded(t *testing.T) {
	prompt, err := renderCorrectionPrompt("organization name", "Acme", "Use the registered legal name.")
	require.NoError(t, err)
	assert.Contains(t, prompt, `"Acme"`)
	assert.Contains(t, prompt, "Use the registered legal name.")
}

func TestNewSelectsBackend(t *testing.T) {
	s, err := New(context.Background(), types.SynthesisConfig{Backend: types.BackendClaude})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeBackend{}, s)

	_, err = New(context.Background(), types.SynthesisConfig{Backend: "oracle"})
	assert.Error(t, err)
}

func TestCleanLine(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://acme.com", "https://acme.com"},
		{"  https://acme.com  \n", "https://acme.com"},
		{"`https://acme.com`", "https://acme.com"},
		{"https://acme.com\nSome explanation", "https://acme.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanLine(tt.in); got != tt.want {
			t.Errorf("cleanLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
