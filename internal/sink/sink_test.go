// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-research/pkg/types"
)

func sampleReport() types.ResearchReport {
	return types.ResearchReport{
		OrganizationName: "Acme Corporation",
		Website:          "https://acme.example.com",
		Directory:        "https://www.linkedin.com/company/acme",
		Summary:          "Makes everything.",
		Purpose:          "Sell anvils.",
		Products:         []string{"Anvils", "Rockets"},
		Competitors:      []string{"Globex"},
		FundingInfo:      map[string]string{"round": "Series B", "amount": "$50M"},
		GeneratedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func withNotionServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	old := notionAPIURL
	notionAPIURL = srv.URL
	t.Cleanup(func() { notionAPIURL = old })
}

func TestNotionExportCreatesPage(t *testing.T) {
	var got map[string]any
	withNotionServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, notionVersion, r.Header.Get("Notion-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"id": "page-123"})
	})

	s := NewNotionSink(types.SinkConfig{NotionAPIKey: "secret-token", NotionDatabaseID: "db-1"})
	ref, err := s.Export(context.Background(), sampleReport())

	require.NoError(t, err)
	assert.Equal(t, "page-123", ref)

	parent := got["parent"].(map[string]any)
	assert.Equal(t, "db-1", parent["database_id"])

	props := got["properties"].(map[string]any)
	title := props["Company Name"].(map[string]any)["title"].([]any)
	text := title[0].(map[string]any)["text"].(map[string]any)
	assert.Equal(t, "Acme Corporation", text["content"])
	assert.Equal(t, "https://acme.example.com",
		props["Website"].(map[string]any)["url"])
	products := props["Products"].(map[string]any)["multi_select"].([]any)
	assert.Len(t, products, 2)
	round := props["Funding Round"].(map[string]any)["select"].(map[string]any)
	assert.Equal(t, "Series B", round["name"])
}

func TestNotionExportUnconfigured(t *testing.T) {
	s := NewNotionSink(types.SinkConfig{})
	_, err := s.Export(context.Background(), sampleReport())

	require.Error(t, err)
	assert.Equal(t, types.KindSinkUnavailable, types.KindOf(err))
}

func TestNotionExportServerError(t *testing.T) {
	withNotionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"database not found"}`, http.StatusNotFound)
	})

	s := NewNotionSink(types.SinkConfig{NotionAPIKey: "k", NotionDatabaseID: "db"})
	_, err := s.Export(context.Background(), sampleReport())

	require.Error(t, err)
	assert.Equal(t, types.KindSinkUnavailable, types.KindOf(err))
	assert.Contains(t, err.Error(), "404")
}

func TestNotionOmitsEmptyURLs(t *testing.T) {
	var got map[string]any
	withNotionServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"id": "page-1"})
	})

	report := sampleReport()
	report.Website = ""
	report.Directory = ""

	s := NewNotionSink(types.SinkConfig{NotionAPIKey: "k", NotionDatabaseID: "db"})
	_, err := s.Export(context.Background(), report)
	require.NoError(t, err)

	props := got["properties"].(map[string]any)
	assert.NotContains(t, props, "Website")
	assert.NotContains(t, props, "Directory")
}

func TestSQLiteExportAndLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	s, err := NewSQLiteSink(path)
	require.NoError(t, err)
	defer s.Close()

	ref, err := s.Export(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "1", ref)

	// A second export for the same organization wins on Latest.
	updated := sampleReport()
	updated.Summary = "Makes even more."
	ref, err = s.Export(context.Background(), updated)
	require.NoError(t, err)
	assert.Equal(t, "2", ref)

	report, err := s.Latest(context.Background(), "Acme Corporation")
	require.NoError(t, err)
	assert.Equal(t, "Makes even more.", report.Summary)
	assert.Equal(t, []string{"Anvils", "Rockets"}, report.Products)
}

func TestSQLiteLatestUnknownOrganization(t *testing.T) {
	s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Latest(context.Background(), "Nobody Inc")
	assert.Error(t, err)
}

func TestSQLiteRequiresPath(t *testing.T) {
	_, err := NewSQLiteSink("")
	require.Error(t, err)
	assert.Equal(t, types.KindSinkUnavailable, types.KindOf(err))
}
