// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink exports finished research reports to external destinations.
// Sinks own their persistence; the research engine hands a report over and
// keeps no state of its own.
package sink

import (
	"context"

	"github.com/pdiddy/company-research/pkg/types"
)

// Sink writes one report to a destination and returns an opaque reference
// to the created record (page ID, row ID).
type Sink interface {
	// Name identifies the destination in logs and CLI output.
	Name() string

	// Export writes the report. Failures come back as SinkUnavailable
	// errors.
	Export(ctx context.Context, report types.ResearchReport) (string, error)
}

// unavailable wraps a destination failure into the sink error kind.
func unavailable(detail string, err error) error {
	return types.NewError(types.KindSinkUnavailable, detail, err)
}
