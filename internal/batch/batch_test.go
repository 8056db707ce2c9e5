// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-research/pkg/types"
)

type fakeResearcher struct {
	mu      sync.Mutex
	failFor map[string]error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (r *fakeResearcher) Research(ctx context.Context, req types.ResearchRequest) (types.ResearchReport, error) {
	cur := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		seen := r.maxInFlight.Load()
		if cur <= seen || r.maxInFlight.CompareAndSwap(seen, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	r.mu.Lock()
	err := r.failFor[req.OrganizationName]
	r.mu.Unlock()
	if err != nil {
		return types.ResearchReport{}, err
	}
	return types.ResearchReport{OrganizationName: req.OrganizationName, Summary: "ok"}, nil
}

func reqsFor(names ...string) []types.ResearchRequest {
	reqs := make([]types.ResearchRequest, len(names))
	for i, n := range names {
		reqs[i] = types.ResearchRequest{OrganizationName: n}
	}
	return reqs
}

func TestRunPreservesRequestOrder(t *testing.T) {
	r := &fakeResearcher{}
	items := Run(context.Background(), r, reqsFor("Acme", "Globex", "Initech"), 3, nil)

	require.Len(t, items, 3)
	assert.Equal(t, "Acme", items[0].Request.OrganizationName)
	assert.Equal(t, "Globex", items[1].Request.OrganizationName)
	assert.Equal(t, "Initech", items[2].Request.OrganizationName)
	for _, it := range items {
		require.NoError(t, it.Err)
		assert.Equal(t, it.Request.OrganizationName, it.Report.OrganizationName)
	}
}

func TestRunCapturesPerOrganizationFailures(t *testing.T) {
	r := &fakeResearcher{failFor: map[string]error{
		"Globex": types.NewError(types.KindNoSourcesAvailable, "no source produced usable material", nil),
	}}
	items := Run(context.Background(), r, reqsFor("Acme", "Globex", "Initech"), 2, nil)

	require.Len(t, items, 3)
	assert.NoError(t, items[0].Err)
	assert.Equal(t, types.KindNoSourcesAvailable, types.KindOf(items[1].Err))
	assert.NoError(t, items[2].Err)
	assert.Equal(t, "ok", items[2].Report.Summary)
}

func TestRunBoundsParallelism(t *testing.T) {
	r := &fakeResearcher{}
	Run(context.Background(), r, reqsFor("a", "b", "c", "d", "e", "f"), 2, nil)

	assert.LessOrEqual(t, r.maxInFlight.Load(), int32(2))
}

func TestRunParallelFloorIsOne(t *testing.T) {
	r := &fakeResearcher{}
	items := Run(context.Background(), r, reqsFor("Acme"), 0, nil)

	require.Len(t, items, 1)
	assert.NoError(t, items[0].Err)
}

func TestReadRequestsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgs.txt")
	content := "Acme Corporation\n\n# a comment\n  Globex  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reqs, err := ReadRequestsFile(path)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Acme Corporation", reqs[0].OrganizationName)
	assert.Equal(t, "Globex", reqs[1].OrganizationName)
}

func TestReadRequestsFileMissing(t *testing.T) {
	_, err := ReadRequestsFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
