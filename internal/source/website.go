// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/company-research/internal/scrape"
	"github.com/pdiddy/company-research/pkg/types"
)

// URLLookup resolves an organization name to its official website URL.
// The synthesis backend implements it.
type URLLookup interface {
	LookupWebsite(ctx context.Context, orgName string) (string, error)
}

// SiteValidator decides whether a URL is plausibly the organization's
// official site.
type SiteValidator interface {
	ValidSite(ctx context.Context, rawURL, orgName string) bool
}

// PageGetter fetches one page.
type PageGetter interface {
	Get(ctx context.Context, url string) (scrape.Page, error)
}

// WebsiteFetcher finds and scrapes the organization's official website.
// Scraped content is only reported after the authenticity check accepts
// the site.
type WebsiteFetcher struct {
	lookup    URLLookup
	validator SiteValidator
	pages     PageGetter
	log       *zap.Logger
}

// NewWebsiteFetcher builds a website fetcher.
func NewWebsiteFetcher(lookup URLLookup, validator SiteValidator, pages PageGetter, log *zap.Logger) *WebsiteFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebsiteFetcher{lookup: lookup, validator: validator, pages: pages, log: log}
}

// Source identifies this fetcher.
func (f *WebsiteFetcher) Source() types.SourceID { return types.SourceWebsite }

// CorrectionHint describes the expected input shape for retries.
func (f *WebsiteFetcher) CorrectionHint() string {
	return "The official website found for this organization name could not be " +
		"verified. Provide the name the organization is best known by on the web, " +
		"without legal suffixes."
}

// Fetch resolves the official URL, verifies site authenticity, and returns
// the page's flattened visible text.
func (f *WebsiteFetcher) Fetch(ctx context.Context, req types.ResearchRequest) (types.SourceResult, error) {
	f.log.Debug("gathering website information", zap.String("organization", req.OrganizationName))

	url, err := f.lookup.LookupWebsite(ctx, req.OrganizationName)
	if err != nil {
		return errorResult(types.SourceWebsite, "could not look up website"),
			classify(ctx, types.KindFatalSource, "website lookup failed", err)
	}

	if url == "" || (!strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://")) {
		return errorResult(types.SourceWebsite, "invalid website URL"),
			types.NewError(types.KindRecoverableSource, "invalid website URL", nil)
	}

	// Hard stop on rejection: no second guess inside the fetcher. The
	// dispatcher may retry one layer up with a corrected name.
	if !f.validator.ValidSite(ctx, url, req.OrganizationName) {
		return errorResult(types.SourceWebsite, "website validation failed"),
			classify(ctx, types.KindRecoverableSource, "website validation failed", nil)
	}

	page, err := f.pages.Get(ctx, url)
	if err != nil {
		return errorResult(types.SourceWebsite, "could not fetch website"),
			classify(ctx, types.KindFatalSource, "fetching website", err)
	}
	if page.StatusCode != http.StatusOK {
		return errorResult(types.SourceWebsite, "could not fetch website"),
			types.NewError(types.KindFatalSource, "website fetch returned non-200", nil)
	}

	doc, err := scrape.ParseDocument(page.Body)
	if err != nil {
		return errorResult(types.SourceWebsite, "could not parse website"),
			types.NewError(types.KindFatalSource, "parsing website", err)
	}

	f.log.Info("website gathered",
		zap.String("organization", req.OrganizationName),
		zap.String("url", url),
		zap.Int("chars", len(doc.Text)))

	return types.SourceResult{
		Source:  types.SourceWebsite,
		Status:  types.StatusSuccess,
		URL:     url,
		Content: doc.Text,
	}, nil
}
