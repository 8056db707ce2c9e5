// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source gathers information about an organization from one
// external source at a time. Each fetcher wraps a single source behind the
// same contract; the dispatcher drives them and owns retry policy.
package source

import (
	"context"

	"github.com/pdiddy/company-research/pkg/types"
)

// Fetcher gathers information from exactly one external source. A nil
// error means the returned result has status success. A non-nil error is a
// classified ResearchError (recoverable, fatal, or authentication) and the
// result carries whatever partial detail is safe to surface.
type Fetcher interface {
	// Source identifies the external source.
	Source() types.SourceID

	// Fetch gathers information for the requested organization.
	Fetch(ctx context.Context, req types.ResearchRequest) (types.SourceResult, error)

	// CorrectionHint describes the input shape this source expects, used
	// by the dispatcher when asking for a corrected identifier. The hint
	// is internal bookkeeping and never reaches the end user.
	CorrectionHint() string
}

// errorResult builds the error-status result for a failed fetch.
func errorResult(id types.SourceID, detail string) types.SourceResult {
	return types.SourceResult{
		Source:      id,
		Status:      types.StatusError,
		ErrorDetail: detail,
	}
}

// classify wraps err in kind unless it is already a ResearchError or the
// context ended, in which case cancellation wins.
func classify(ctx context.Context, kind types.ErrorKind, detail string, err error) error {
	if ctx.Err() != nil {
		return types.NewError(types.KindCancelled, "fetch interrupted", ctx.Err())
	}
	if types.KindOf(err) != "" {
		return err
	}
	return types.NewError(kind, detail, err)
}
