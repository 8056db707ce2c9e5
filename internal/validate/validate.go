// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate decides whether a fetched page plausibly belongs to a
// named organization. It is the trust gate in front of scraped content:
// fetchers must not report a page as authoritative unless this check
// accepts it. The heuristic is deterministic and fails closed — any
// network, parse, or timeout error rejects.
package validate

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/pdiddy/company-research/internal/scrape"
)

// textWindow is how many leading characters of visible page text are
// searched for the organization name.
const textWindow = 1000

// Validator checks candidate organization websites.
type Validator struct {
	client *scrape.Client
	log    *zap.Logger
}

// New builds a Validator on top of a shared page-fetch client.
func New(client *scrape.Client, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{client: client, log: log}
}

// ValidSite reports whether rawURL's page is plausibly orgName's official
// site:
//
//  1. the page responds 200 within the fetch timeout,
//  2. the URL has a host and that host contains the normalized name,
//  3. the name appears in the title, the meta description, or the first
//     1000 characters of visible text.
//
// All failures reject; ValidSite never returns an error.
func (v *Validator) ValidSite(ctx context.Context, rawURL, orgName string) bool {
	needle := Normalize(orgName)
	if needle == "" {
		return false
	}

	page, err := v.client.Get(ctx, rawURL)
	if err != nil {
		return false
	}
	if page.StatusCode != http.StatusOK {
		v.log.Debug("candidate site rejected by status",
			zap.String("url", rawURL), zap.Int("status", page.StatusCode))
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	if !strings.Contains(Normalize(parsed.Hostname()), needle) {
		v.log.Debug("host does not contain organization name",
			zap.String("host", parsed.Hostname()), zap.String("needle", needle))
		return false
	}

	doc, err := scrape.ParseDocument(page.Body)
	if err != nil {
		return false
	}

	text := strings.ToLower(doc.Text)
	if len(text) > textWindow {
		text = text[:textWindow]
	}

	return strings.Contains(Normalize(doc.Title), needle) ||
		strings.Contains(Normalize(doc.MetaDescription), needle) ||
		strings.Contains(Normalize(text), needle)
}

// Normalize lowercases s and strips every non-alphanumeric rune, so
// "Acme, Inc." matches host "acmeinc.com".
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
