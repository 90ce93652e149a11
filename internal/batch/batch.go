// Package batch runs several independent sessions concurrently, one
// goroutine and one session per configuration.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/convergent/internal/config"
	"github.com/san-kum/convergent/internal/metrics"
	"github.com/san-kum/convergent/internal/session"
	"github.com/san-kum/convergent/internal/storage"
)

// Job is one named configuration to run.
type Job struct {
	Name   string
	Config *config.Config
	// Limit caps the number of convergents; 0 means Config.Compute.MaxSteps.
	Limit int
}

type Result struct {
	Name string
	Run  *storage.Run
}

type Runner struct {
	metrics func() []metrics.Metric
}

// NewRunner returns a runner scoring every job with fresh metrics from
// newMetrics, or with metrics.Default when it is nil.
func NewRunner(newMetrics func() []metrics.Metric) *Runner {
	if newMetrics == nil {
		newMetrics = metrics.Default
	}
	return &Runner{metrics: newMetrics}
}

// Run executes jobs in parallel and returns their results in job order. It
// stops early with ctx.Err() when ctx is cancelled, and otherwise returns the
// first job error.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = r.runOne(ctx, jobs[idx])
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", jobs[i].Name, err)
		}
	}

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, job Job) (Result, error) {
	s, err := session.New(job.Config)
	if err != nil {
		return Result{}, err
	}

	limit := job.Limit
	if limit < 1 {
		limit = s.Compute().MaxSteps
	}
	for !s.Finished() && s.NumOutputs() < limit {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		s.ComputeLines(min(s.Compute().BatchSize, limit-s.NumOutputs()))
	}

	run, err := storage.FromSession(s, r.metrics())
	if err != nil {
		return Result{}, err
	}
	return Result{Name: job.Name, Run: run}, nil
}

// PresetJobs builds one job per named preset.
func PresetJobs(names []string, limit int) ([]Job, error) {
	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		jobs = append(jobs, Job{Name: name, Config: cfg, Limit: limit})
	}
	return jobs, nil
}
