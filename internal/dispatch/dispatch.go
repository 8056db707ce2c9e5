// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dispatch wraps fetcher invocations in a bounded self-correction
// loop. Recoverable failures are fed back to the synthesis capability as a
// corrective instruction and retried with the corrected input; everything
// else short-circuits. Correction is internal bookkeeping between the
// dispatcher and the synthesis capability — none of its vocabulary reaches
// the final report.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/company-research/internal/source"
	"github.com/pdiddy/company-research/pkg/types"
)

// Corrector produces a corrected input value from the previous value and a
// hint describing the expected shape. The synthesis backend implements it.
type Corrector interface {
	CorrectInput(ctx context.Context, field, previous, hint string) (string, error)
}

// Outcome is the result of one dispatch: the final source result and how
// many fetch attempts were consumed.
type Outcome struct {
	Result   types.SourceResult
	Attempts int
}

// Dispatcher drives fetchers with bounded self-correction.
type Dispatcher struct {
	corrector   Corrector
	maxAttempts int
	log         *zap.Logger
}

// New builds a Dispatcher. maxAttempts below 1 falls back to 3.
func New(corrector Corrector, maxAttempts int, log *zap.Logger) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{corrector: corrector, maxAttempts: maxAttempts, log: log}
}

// Dispatch invokes f, retrying recoverable failures with corrected input
// up to the attempt bound. Attempts are strictly sequential: each
// correction depends on the prior failure. Non-recoverable errors return
// immediately; exhaustion returns the last error result. Dispatch never
// returns an error — a failed source is a partial result, not a run
// failure.
func (d *Dispatcher) Dispatch(ctx context.Context, f source.Fetcher, req types.ResearchRequest) Outcome {
	input := req
	var last types.SourceResult

	for attempt := 1; ; attempt++ {
		res, err := f.Fetch(ctx, input)
		if err == nil {
			return Outcome{Result: res, Attempts: attempt}
		}
		last = res

		if !types.IsRecoverable(err) {
			d.log.Debug("source failed permanently",
				zap.String("source", string(f.Source())),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return Outcome{Result: last, Attempts: attempt}
		}

		if attempt >= d.maxAttempts {
			d.log.Debug("source retries exhausted",
				zap.String("source", string(f.Source())),
				zap.Int("attempts", attempt))
			return Outcome{Result: last, Attempts: attempt}
		}

		corrected, cerr := d.corrector.CorrectInput(ctx, "organization name",
			input.OrganizationName, f.CorrectionHint())
		if cerr != nil || corrected == "" {
			// No corrected input to retry with; stop early with the
			// last result.
			d.log.Debug("input correction unavailable",
				zap.String("source", string(f.Source())),
				zap.Error(cerr))
			return Outcome{Result: last, Attempts: attempt}
		}

		d.log.Debug("retrying source with corrected input",
			zap.String("source", string(f.Source())),
			zap.Int("attempt", attempt+1))
		input.OrganizationName = corrected
	}
}
