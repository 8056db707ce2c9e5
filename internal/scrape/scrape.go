// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches web pages politely (custom User-Agent, bounded
// timeout, client-side rate limit) and flattens HTML into visible text.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/company-research/internal/httputil"
	"github.com/pdiddy/company-research/pkg/types"
)

// Client fetches pages on behalf of the validator and the website fetcher.
type Client struct {
	http    *http.Client
	cfg     types.FetchConfig
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient builds a page-fetch client from cfg. A zero timeout falls back
// to 5 seconds; a zero rate disables the limiter.
func NewClient(cfg types.FetchConfig, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 2 << 20
	}
	if log == nil {
		log = zap.NewNop()
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: limiter,
		log:     log,
	}
}

// Page is one fetched HTTP page.
type Page struct {
	StatusCode int
	Body       []byte
}

// Get fetches url with the configured User-Agent, timeout, and rate limit.
// Non-2xx responses are returned to the caller, not treated as errors; the
// body is read up to MaxBodyBytes.
func (c *Client) Get(ctx context.Context, url string) (Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Page{}, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return Page{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("reading %s: %w", url, err)
	}

	c.log.Debug("fetched page",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	return Page{StatusCode: resp.StatusCode, Body: body}, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
