package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/akozhin/epiboost/internal/dataset"
	"github.com/akozhin/epiboost/internal/model"
	"github.com/akozhin/epiboost/internal/worker"
)

// TrialResult is the outcome of one hyperparameter trial.
type TrialResult struct {
	Trial  model.TrialConfig
	Report *model.Report
	Err    error
}

// GetError implements worker.Result.
func (r TrialResult) GetError() error { return r.Err }

// trialJob runs one trial against the shared, already-parsed frame.
type trialJob struct {
	pipeline *Pipeline
	path     string
	frame    *dataset.Frame
	trial    model.TrialConfig
}

// Execute implements worker.Job.
func (j trialJob) Execute(ctx context.Context) worker.Result {
	report, err := j.pipeline.TrainFrame(ctx, j.path, j.frame, j.trial.Params)
	return TrialResult{Trial: j.trial, Report: report, Err: err}
}

// Tune runs the trial grid concurrently and returns results ordered by
// held-out error rate ascending (failed trials last).
func (p *Pipeline) Tune(ctx context.Context, path string, trials []model.TrialConfig, workers int) ([]TrialResult, error) {
	if len(trials) == 0 {
		trials = model.DefaultTrials()
	}

	// Load once; trials share the frame read-only.
	frame, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	jobs := make([]worker.Job, len(trials))
	for i, trial := range trials {
		jobs[i] = trialJob{pipeline: p, path: path, frame: frame, trial: trial}
	}

	pool := worker.NewPool(workers)
	raw := pool.Run(ctx, jobs)

	// A cancelled context can stop dispatch before any trial ran.
	if len(raw) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("tune cancelled: %w", err)
		}
		return nil, errors.New("no trial results")
	}

	results := make([]TrialResult, 0, len(raw))
	for _, r := range raw {
		results = append(results, r.(TrialResult))
	}
	sort.Slice(results, func(a, b int) bool {
		ra, rb := results[a], results[b]
		if (ra.Err == nil) != (rb.Err == nil) {
			return ra.Err == nil
		}
		if ra.Err != nil {
			return ra.Trial.Name < rb.Trial.Name
		}
		if ra.Report.Metrics.ErrorRate != rb.Report.Metrics.ErrorRate {
			return ra.Report.Metrics.ErrorRate < rb.Report.Metrics.ErrorRate
		}
		return ra.Trial.Name < rb.Trial.Name
	})
	return results, nil
}
