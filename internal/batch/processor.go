package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/logging"
)

// DefaultConcurrency bounds the number of scenarios priced at once.
const DefaultConcurrency = 4

// MaxConcurrency is the largest accepted concurrency.
const MaxConcurrency = 64

// ErrInvalidConcurrency is returned for a concurrency outside [1, MaxConcurrency].
var ErrInvalidConcurrency = fmt.Errorf("concurrency must be between 1 and %d", MaxConcurrency)

// ProgressCallback is invoked after each scenario finishes.
type ProgressCallback func(ProgressSnapshot)

// Row is the outcome of one scenario. Exactly one of Estimate and Err is set.
type Row struct {
	Index    int                 `json:"index"`
	Name     string              `json:"name"`
	Estimate *estimator.Estimate `json:"estimate,omitempty"`
	Err      error               `json:"-"`
}

// Failed reports whether the scenario could not be priced.
func (r Row) Failed() bool { return r.Err != nil }

// Report is the outcome of a whole batch, rows in input order.
type Report struct {
	Rows     []Row         `json:"rows"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Processor prices scenarios with bounded concurrency.
type Processor struct {
	svc         *estimator.Service
	concurrency int
	onProgress  ProgressCallback
}

// NewProcessor returns a processor running at most concurrency scenarios at once.
func NewProcessor(svc *estimator.Service, concurrency int) (*Processor, error) {
	if svc == nil {
		return nil, errors.New("batch processor needs an estimator service")
	}
	if concurrency < 1 || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	return &Processor{svc: svc, concurrency: concurrency}, nil
}

// WithProgressCallback sets a callback invoked after each scenario.
func (p *Processor) WithProgressCallback(cb ProgressCallback) *Processor {
	p.onProgress = cb
	return p
}

// Concurrency returns the configured limit.
func (p *Processor) Concurrency() int { return p.concurrency }

// Run prices every scenario. Per-scenario failures are recorded on their
// rows; Run itself only fails for an empty input or a cancelled context.
func (p *Processor) Run(ctx context.Context, scenarios []Scenario) (*Report, error) {
	if len(scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	log := logging.FromContext(ctx)
	start := time.Now()
	progress := NewProgress(len(scenarios))
	rows := make([]Row, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var (
				est *estimator.Estimate
				err = sc.Err
			)
			if err == nil {
				est, err = p.svc.Estimate(gctx, sc.Selection)
			}
			rows[i] = Row{Index: i, Name: sc.Name, Estimate: est, Err: err}
			if err != nil {
				log.Debug().
					Ctx(gctx).
					Str("component", "batch").
					Str("scenario", sc.Name).
					Err(err).
					Msg("scenario failed")
			}

			progress.Add(err != nil)
			if p.onProgress != nil {
				p.onProgress(progress.Snapshot())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	snap := progress.Snapshot()
	log.Info().
		Ctx(ctx).
		Str("component", "batch").
		Int("scenarios", snap.Total).
		Int("failed", snap.Failed).
		Int("concurrency", p.concurrency).
		Dur("duration", time.Since(start)).
		Msg("batch complete")

	return &Report{Rows: rows, Failed: snap.Failed, Duration: time.Since(start)}, nil
}
