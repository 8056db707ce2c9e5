// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-research/pkg/types"
)

func testCfg() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: 2 * time.Second, UserAgent: "company-research-test/0.1"},
		MaxBodyBytes: 1 << 20,
	}
}

func TestGetSendsUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer ts.Close()

	c := NewClient(testCfg(), nil)
	defer c.Close()

	page, err := c.Get(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "company-research-test/0.1", gotUA)
}

func TestGetReturnsNon200WithoutError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(testCfg(), nil)
	page, err := c.Get(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, page.StatusCode)
}

func TestGetCapsBodySize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for i := 0; i < 1024; i++ {
			w.Write(make([]byte, 1024))
		}
	}))
	defer ts.Close()

	cfg := testCfg()
	cfg.MaxBodyBytes = 4096
	c := NewClient(cfg, nil)
	page, err := c.Get(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, page.Body, 4096)
}

func TestGetHonorsContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient(testCfg(), nil)
	_, err := c.Get(ctx, ts.URL)
	assert.Error(t, err)
}

func TestParseDocument(t *testing.T) {
	body := []byte(`<html><head>
		<title> Acme  Corp </title>
		<meta name="description" content="Acme builds  tools">
		<style>body { color: red }</style>
		<script>var hidden = "secret";</script>
	</head><body>
		<h1>Welcome to Acme</h1>
		<p>We   build
		tools for everyone.</p>
		<noscript>enable js</noscript>
	</body></html>`)

	doc, err := ParseDocument(body)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", doc.Title)
	assert.Equal(t, "Acme builds tools", doc.MetaDescription)
	assert.Contains(t, doc.Text, "Welcome to Acme")
	assert.Contains(t, doc.Text, "We build tools for everyone.")
	assert.NotContains(t, doc.Text, "secret")
	assert.NotContains(t, doc.Text, "color: red")
	assert.NotContains(t, doc.Text, "enable js")
}

func TestParseDocumentEmptyPage(t *testing.T) {
	doc, err := ParseDocument([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Title)
	assert.Empty(t, doc.Text)
}
