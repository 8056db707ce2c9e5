// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/company-research/internal/directory"
	"github.com/pdiddy/company-research/internal/vault"
	"github.com/pdiddy/company-research/pkg/types"
)

// profileFields is the fixed subset of directory profile fields projected
// into the source result.
var profileFields = []string{
	"name",
	"description",
	"industry",
	"company_size",
	"headquarters",
	"website",
	"employee_count",
}

// CredentialSource supplies an authenticated directory credential. The
// vault implements it.
type CredentialSource interface {
	Acquire(ctx context.Context) (vault.Credential, error)
}

// DirectoryAPI is the subset of the directory client the fetcher consumes.
type DirectoryAPI interface {
	SearchOrganizations(ctx context.Context, name string, limit int) ([]directory.OrgHit, error)
	GetProfile(ctx context.Context, entityID string) (map[string]string, error)
}

// DirectoryFetcher gathers an organization's directory profile.
type DirectoryFetcher struct {
	creds CredentialSource
	api   DirectoryAPI
	limit int
	log   *zap.Logger
}

// NewDirectoryFetcher builds a directory fetcher. A limit below 1 falls
// back to 1.
func NewDirectoryFetcher(creds CredentialSource, api DirectoryAPI, limit int, log *zap.Logger) *DirectoryFetcher {
	if limit < 1 {
		limit = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectoryFetcher{creds: creds, api: api, limit: limit, log: log}
}

// Source identifies this fetcher.
func (f *DirectoryFetcher) Source() types.SourceID { return types.SourceDirectory }

// CorrectionHint describes the expected input shape for retries.
func (f *DirectoryFetcher) CorrectionHint() string {
	return "The directory search found no organization with this name. Provide " +
		"the organization's full registered name as it would appear in a " +
		"professional network directory."
}

// Fetch authenticates, searches the directory, and projects the best
// match's profile.
func (f *DirectoryFetcher) Fetch(ctx context.Context, req types.ResearchRequest) (types.SourceResult, error) {
	f.log.Debug("gathering directory information", zap.String("organization", req.OrganizationName))

	if _, err := f.creds.Acquire(ctx); err != nil {
		// AuthenticationFailed and Cancelled pass through untouched.
		return errorResult(types.SourceDirectory, "directory authentication failed"),
			classify(ctx, types.KindAuthenticationFailed, "directory authentication", err)
	}

	hits, err := f.api.SearchOrganizations(ctx, req.OrganizationName, f.limit)
	if err != nil {
		return errorResult(types.SourceDirectory, "directory search failed"),
			classify(ctx, types.KindFatalSource, "directory search", err)
	}

	if len(hits) == 0 {
		return errorResult(types.SourceDirectory, "organization not found"),
			types.NewError(types.KindRecoverableSource, "organization not found", nil)
	}

	// First hit is the best match.
	hit := hits[0]
	profile, err := f.api.GetProfile(ctx, hit.EntityID)
	if err != nil {
		return errorResult(types.SourceDirectory, "directory profile lookup failed"),
			classify(ctx, types.KindFatalSource, "directory profile", err)
	}

	fields := make(map[string]string, len(profileFields))
	for _, k := range profileFields {
		if v, ok := profile[k]; ok && v != "" {
			fields[k] = v
		}
	}
	// staff_count doubles for both size fields when the directory reports
	// it that way.
	if v := profile["staff_count"]; v != "" {
		if fields["company_size"] == "" {
			fields["company_size"] = v
		}
		if fields["employee_count"] == "" {
			fields["employee_count"] = v
		}
	}

	f.log.Info("directory profile gathered",
		zap.String("organization", req.OrganizationName),
		zap.String("entity_id", hit.EntityID))

	return types.SourceResult{
		Source: types.SourceDirectory,
		Status: types.StatusSuccess,
		URL:    directory.ProfileURL(hit.EntityID),
		Fields: fields,
	}, nil
}
