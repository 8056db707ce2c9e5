// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research coordinates a full research run: validate the request,
// gather from every source concurrently, then synthesize the structured
// report. Sources are independent; one failing never aborts the others.
package research

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/company-research/internal/dispatch"
	"github.com/pdiddy/company-research/internal/source"
	"github.com/pdiddy/company-research/internal/synthesis"
	"github.com/pdiddy/company-research/pkg/types"
)

// state tracks where a run is in its lifecycle, for logging.
type state string

const (
	stateCreated      state = "created"
	stateGathering    state = "gathering"
	stateSynthesizing state = "synthesizing"
	stateDone         state = "done"
	stateFailed       state = "failed"
)

// Engine runs research for one organization at a time. It is safe for
// concurrent Research calls; per-run state lives on the stack.
type Engine struct {
	synth        synthesis.Synthesizer
	fetchers     []source.Fetcher
	dispatcher   *dispatch.Dispatcher
	synthTimeout time.Duration
	log          *zap.Logger

	closeOnce sync.Once
	cleanup   []func()
}

// New builds an Engine. The synthesizer doubles as the dispatcher's input
// corrector. Resource cleanup is registered separately via OnClose.
func New(cfg types.EngineConfig, synth synthesis.Synthesizer, fetchers []source.Fetcher, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		synth:        synth,
		fetchers:     fetchers,
		dispatcher:   dispatch.New(synth, cfg.Dispatch.MaxAttempts, log),
		synthTimeout: cfg.Synthesis.Timeout,
		log:          log,
	}
}

// Research runs one full research pass for the requested organization.
func (e *Engine) Research(ctx context.Context, req types.ResearchRequest) (types.ResearchReport, error) {
	e.log.Debug("run state", zap.String("state", string(stateCreated)),
		zap.String("organization", req.OrganizationName))
	if err := req.Validate(); err != nil {
		return types.ResearchReport{}, err
	}

	e.log.Debug("run state", zap.String("state", string(stateGathering)))
	results := e.gather(ctx, req)
	if ctx.Err() != nil {
		e.log.Debug("run state", zap.String("state", string(stateFailed)))
		return types.ResearchReport{}, types.NewError(types.KindCancelled,
			"research run interrupted", ctx.Err())
	}

	succeeded := 0
	for _, r := range results {
		if r.OK() {
			succeeded++
		}
	}
	if succeeded == 0 {
		e.log.Warn("all sources failed",
			zap.String("organization", req.OrganizationName))
		e.log.Debug("run state", zap.String("state", string(stateFailed)))
		return types.ResearchReport{}, types.NewError(types.KindNoSourcesAvailable,
			"no source produced usable material", nil)
	}

	e.log.Debug("run state", zap.String("state", string(stateSynthesizing)),
		zap.Int("sources_succeeded", succeeded),
		zap.Int("sources_total", len(results)))
	synthCtx := ctx
	if e.synthTimeout > 0 {
		var cancel context.CancelFunc
		synthCtx, cancel = context.WithTimeout(ctx, e.synthTimeout)
		defer cancel()
	}
	report, err := e.synth.Synthesize(synthCtx, req, results)
	if err != nil {
		e.log.Debug("run state", zap.String("state", string(stateFailed)))
		return types.ResearchReport{}, err
	}

	e.log.Debug("run state", zap.String("state", string(stateDone)))
	return report, nil
}

// gather fans the request out to every fetcher concurrently and collects
// one result per source, in fetcher order. Failed sources come back as
// error-status results, never as run errors.
func (e *Engine) gather(ctx context.Context, req types.ResearchRequest) []types.SourceResult {
	type gathered struct {
		idx int
		out dispatch.Outcome
	}

	ch := make(chan gathered, len(e.fetchers))
	var wg sync.WaitGroup

	for i, f := range e.fetchers {
		wg.Add(1)
		go func(i int, f source.Fetcher) {
			defer wg.Done()
			ch <- gathered{idx: i, out: e.dispatcher.Dispatch(ctx, f, req)}
		}(i, f)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	results := make([]types.SourceResult, len(e.fetchers))
	for g := range ch {
		results[g.idx] = g.out.Result
		e.log.Info("source gathered",
			zap.String("source", string(g.out.Result.Source)),
			zap.String("status", string(g.out.Result.Status)),
			zap.Int("attempts", g.out.Attempts))
	}
	return results
}

// OnClose registers a cleanup function to run when the engine closes.
func (e *Engine) OnClose(fn func()) {
	e.cleanup = append(e.cleanup, fn)
}

// Close releases held resources: stored credentials, idle connections.
// Safe to call more than once; cleanup runs only the first time.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		for _, fn := range e.cleanup {
			fn()
		}
		e.log.Debug("engine closed")
	})
	return nil
}
