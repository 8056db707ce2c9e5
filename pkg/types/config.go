// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "company-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for page fetching and site validation.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxBodyBytes caps how much of a page body is read (default 2 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`

	// RequestsPerSecond rate-limits outbound page fetches. Zero disables
	// the limiter.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// DirectoryConfig holds settings for the professional-network directory
// source.
type DirectoryConfig struct {
	HTTPConfig `yaml:",inline"`

	// SearchLimit is the maximum number of search hits requested per query
	// (default 3; the first hit is used).
	SearchLimit int `json:"search_limit" yaml:"search_limit"`

	// CredentialTTL is how long an authenticated credential stays valid
	// in memory (default 30 days).
	CredentialTTL time.Duration `json:"credential_ttl" yaml:"credential_ttl"`
}

// SynthesisBackend identifies the generative AI backend.
type SynthesisBackend string

const (
	BackendClaude SynthesisBackend = "claude"
	BackendGemini SynthesisBackend = "gemini"
)

// SynthesisConfig holds settings for the synthesis backend.
type SynthesisConfig struct {
	// Backend selects the AI backend: claude or gemini.
	Backend SynthesisBackend `json:"backend" yaml:"backend"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds each synthesis call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// SinkConfig holds settings for report export sinks.
type SinkConfig struct {
	// NotionAPIKey authenticates against the Notion API. Empty disables
	// the Notion sink.
	NotionAPIKey string `json:"notion_api_key,omitempty" yaml:"notion_api_key,omitempty"`

	// NotionDatabaseID is the target Notion database.
	NotionDatabaseID string `json:"notion_database_id,omitempty" yaml:"notion_database_id,omitempty"`

	// SQLitePath is the local report database path. Empty disables the
	// local sink.
	SQLitePath string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
}

// DispatchConfig holds settings for the self-correcting tool dispatcher.
type DispatchConfig struct {
	// MaxAttempts bounds the total invocations per fetcher dispatch
	// (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// EngineConfig groups all component configurations for the research engine.
type EngineConfig struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Directory DirectoryConfig `json:"directory" yaml:"directory"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Dispatch  DispatchConfig  `json:"dispatch" yaml:"dispatch"`
	Sink      SinkConfig      `json:"sink" yaml:"sink"`
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Fetch: FetchConfig{
			HTTPConfig:        HTTPConfig{Timeout: 5 * time.Second, UserAgent: "company-research/0.1"},
			MaxBodyBytes:      2 << 20,
			RequestsPerSecond: 2,
		},
		Directory: DirectoryConfig{
			HTTPConfig:    HTTPConfig{Timeout: 10 * time.Second, UserAgent: "company-research/0.1"},
			SearchLimit:   3,
			CredentialTTL: 30 * 24 * time.Hour,
		},
		Synthesis: SynthesisConfig{
			Backend: BackendClaude,
			Timeout: 60 * time.Second,
		},
		Dispatch: DispatchConfig{MaxAttempts: 3},
	}
}
