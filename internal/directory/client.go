// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package directory is the client for the identity-gated professional
// network API: authenticate, search organizations, fetch a profile.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/pdiddy/company-research/internal/httputil"
	"github.com/pdiddy/company-research/pkg/types"
)

// directoryAPIBase is the directory API endpoint. Declared as a var so
// tests can substitute an httptest server.
var directoryAPIBase = "https://api.directory.example.com/v2"

// profileURLTemplate builds the canonical public profile URL from an
// entity identifier.
var profileURLTemplate = "https://www.linkedin.com/company/%s"

// OrgHit is one search match.
type OrgHit struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
}

// Client talks to the directory API. A session token is held after a
// successful Authenticate and sent with every later call.
type Client struct {
	http *http.Client
	cfg  types.DirectoryConfig

	mu    sync.RWMutex
	token string
}

// NewClient builds a directory client from cfg.
func NewClient(cfg types.DirectoryConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// Authenticate exchanges identity and secret for a session token. A
// non-2xx response is an authentication failure.
func (c *Client) Authenticate(ctx context.Context, identity, secret string) error {
	body, err := json.Marshal(map[string]string{"identity": identity, "secret": secret})
	if err != nil {
		return fmt.Errorf("marshaling auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, directoryAPIBase+"/auth", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("directory auth returned HTTP %d", resp.StatusCode)
	}

	var ar struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return fmt.Errorf("parsing auth response: %w", err)
	}
	if ar.Token == "" {
		return fmt.Errorf("directory auth returned no token")
	}

	c.mu.Lock()
	c.token = ar.Token
	c.mu.Unlock()
	return nil
}

// SearchOrganizations queries the directory for organizations matching
// name and returns up to limit hits, best match first.
func (c *Client) SearchOrganizations(ctx context.Context, name string, limit int) ([]OrgHit, error) {
	if limit < 1 {
		limit = 1
	}

	params := url.Values{
		"q":     {name},
		"limit": {strconv.Itoa(limit)},
	}
	reqURL := directoryAPIBase + "/organizations?" + params.Encode()

	var sr struct {
		Hits []OrgHit `json:"hits"`
	}
	if err := c.getJSON(ctx, reqURL, &sr); err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}
	return sr.Hits, nil
}

// GetProfile fetches the full profile record for an entity.
func (c *Client) GetProfile(ctx context.Context, entityID string) (map[string]string, error) {
	reqURL := directoryAPIBase + "/organizations/" + url.PathEscape(entityID)

	var raw map[string]any
	if err := c.getJSON(ctx, reqURL, &raw); err != nil {
		return nil, fmt.Errorf("directory profile: %w", err)
	}

	profile := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			profile[k] = val
		case float64:
			profile[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			profile[k] = strconv.FormatBool(val)
		}
	}
	return profile, nil
}

// ProfileURL returns the canonical public URL for an entity.
func ProfileURL(entityID string) string {
	return fmt.Sprintf(profileURLTemplate, entityID)
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
