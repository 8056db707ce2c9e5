// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch researches several organizations in one run with bounded
// parallelism. Each organization gets its own research pass; one failing
// never stops the rest.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/company-research/pkg/types"
)

// Researcher runs one research pass. The research engine implements it.
type Researcher interface {
	Research(ctx context.Context, req types.ResearchRequest) (types.ResearchReport, error)
}

// Item pairs one request with its outcome.
type Item struct {
	Request types.ResearchRequest
	Report  types.ResearchReport
	Err     error
}

// Run researches every request with at most parallel passes in flight.
// Results come back in request order; per-organization failures are
// captured in Item.Err rather than aborting the batch.
func Run(ctx context.Context, r Researcher, reqs []types.ResearchRequest, parallel int, log *zap.Logger) []Item {
	if log == nil {
		log = zap.NewNop()
	}
	if parallel < 1 {
		parallel = 1
	}

	items := make([]Item, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, req := range reqs {
		g.Go(func() error {
			report, err := r.Research(gctx, req)
			items[i] = Item{Request: req, Report: report, Err: err}
			if err != nil {
				log.Warn("organization research failed",
					zap.String("organization", req.OrganizationName),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait() // errors captured per item

	return items
}

// ReadRequestsFile loads research requests from a file with one
// organization name per line. Blank lines and #-comments are skipped.
func ReadRequestsFile(path string) ([]types.ResearchRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open organizations file: %w", err)
	}
	defer f.Close()

	var reqs []types.ResearchRequest
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reqs = append(reqs, types.ResearchRequest{OrganizationName: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read organizations file: %w", err)
	}
	return reqs, nil
}
