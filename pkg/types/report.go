// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the company research
// engine: the research request, per-source results, the final report, and
// the engine configuration.
package types

import (
	"fmt"
	"strings"
	"time"
)

// ResearchRequest describes one organization to research. It is immutable
// once created and is the input to a single engine run.
type ResearchRequest struct {
	// OrganizationName is the name of the organization to research. Required.
	OrganizationName string `json:"organization_name" yaml:"organization_name"`

	// AdditionalContext carries optional caller guidance, e.g. specific
	// aspects to focus on.
	AdditionalContext string `json:"additional_context,omitempty" yaml:"additional_context,omitempty"`
}

// Validate reports whether the request is well formed.
func (r ResearchRequest) Validate() error {
	if strings.TrimSpace(r.OrganizationName) == "" {
		return &ResearchError{Kind: KindInvalidRequest, Detail: "organization name must not be empty"}
	}
	return nil
}

// SourceID identifies one external information source.
type SourceID string

const (
	SourceWebsite   SourceID = "website"
	SourceDirectory SourceID = "directory"
)

// SourceStatus is the outcome of one fetcher invocation.
type SourceStatus string

const (
	StatusSuccess SourceStatus = "success"
	StatusError   SourceStatus = "error"
)

// SourceResult is the outcome of gathering information from one source.
// Results are produced once per fetcher invocation and never mutated after
// creation; the orchestrator merges them by value.
type SourceResult struct {
	// Source identifies which fetcher produced this result.
	Source SourceID `json:"source" yaml:"source"`

	// Status is success or error.
	Status SourceStatus `json:"status" yaml:"status"`

	// URL is the page or profile the content came from, when known.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Content holds free-text content (e.g. flattened website text).
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Fields holds structured key/value content (e.g. a directory profile).
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`

	// ErrorDetail is a short human-readable failure description when
	// Status is error.
	ErrorDetail string `json:"error_detail,omitempty" yaml:"error_detail,omitempty"`
}

// OK reports whether the result carries usable content.
func (r SourceResult) OK() bool { return r.Status == StatusSuccess }

// MediaItem is one news article or video referenced by a report.
type MediaItem struct {
	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url" yaml:"url"`
	Date   string `json:"date,omitempty" yaml:"date,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// ResearchReport is the structured overview produced for one organization.
// It is built exactly once per request from the synthesis backend's output
// plus the merged source results, and is passed by value to export sinks.
type ResearchReport struct {
	// OrganizationName echoes the researched organization.
	OrganizationName string `json:"organization_name" yaml:"organization_name"`

	// Website is the organization's main website URL.
	Website string `json:"website" yaml:"website"`

	// Directory is the organization's directory profile URL.
	Directory string `json:"directory" yaml:"directory"`

	// Summary is a concise summary of the organization.
	Summary string `json:"summary" yaml:"summary"`

	// Purpose is the organization's main purpose and mission.
	Purpose string `json:"purpose" yaml:"purpose"`

	// Products lists key products and services, most significant first.
	Products []string `json:"products" yaml:"products"`

	// Competitors lists main competitors, most significant first.
	Competitors []string `json:"competitors" yaml:"competitors"`

	// FundingInfo maps funding attributes (e.g. round, amount) when known.
	FundingInfo map[string]string `json:"funding_info,omitempty" yaml:"funding_info,omitempty"`

	// News lists recent news articles when the synthesis backend supplies them.
	News []MediaItem `json:"news,omitempty" yaml:"news,omitempty"`

	// Videos lists relevant videos when the synthesis backend supplies them.
	Videos []MediaItem `json:"videos,omitempty" yaml:"videos,omitempty"`

	// FollowUpQuestions are recommended follow-up research questions.
	FollowUpQuestions []string `json:"follow_up_questions" yaml:"follow_up_questions"`

	// InterviewQuestions are recommended interview questions.
	InterviewQuestions []string `json:"interview_questions" yaml:"interview_questions"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Title returns a display heading for the report.
func (r ResearchReport) Title() string {
	return fmt.Sprintf("Company Research: %s", r.OrganizationName)
}
