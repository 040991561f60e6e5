package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hepworks/histodriver/errors"
)

// Result records the outcome of one job.
type Result struct {
	Job      Job
	Err      error
	ExitCode int // 0 on success, -1 if the process never ran
	Duration time.Duration
	Skipped  bool // job was never started (run cancelled first)
}

// PoolConfig contains configuration for the worker pool
type PoolConfig struct {
	// Workers is the number of concurrent worker slots
	Workers int

	// Rate caps job launches per second across all workers; 0 = unlimited
	Rate float64
}

// DefaultPoolConfig returns the stock pool configuration
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{Workers: 4}
}

// Pool dispatches jobs across a fixed number of worker slots. Each slot
// pulls the next undispatched job and invokes it synchronously until the
// job list is exhausted. Jobs are independent; no state is shared between
// workers and no completion order is guaranteed.
type Pool struct {
	invoker Invoker
	cfg     PoolConfig
	logger  *zap.SugaredLogger
}

// NewPool creates a pool. cfg.Workers must be >= 1.
func NewPool(invoker Invoker, cfg PoolConfig, logger *zap.SugaredLogger) *Pool {
	return &Pool{invoker: invoker, cfg: cfg, logger: logger}
}

// Run dispatches every job and blocks until each dispatched job's process
// has terminated. Every job is attempted exactly once; a job's failure
// never stops the others. Cancelling ctx kills running invocations and
// marks undispatched jobs as skipped. Results are in completion order, one
// per input job.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	jobCh := make(chan Job)
	resultCh := make(chan Result, len(jobs))

	var limiter *rate.Limiter
	if p.cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(p.cfg.Rate), 1)
	}

	var wg sync.WaitGroup
	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				resultCh <- p.runOne(ctx, job, limiter)
			}
		}()
	}

	for _, job := range jobs {
		// Once cancelled, no further job may start even if a worker is free
		if ctx.Err() != nil {
			resultCh <- skippedResult(job, ctx.Err())
			continue
		}
		select {
		case jobCh <- job:
		case <-ctx.Done():
			resultCh <- skippedResult(job, ctx.Err())
		}
	}
	close(jobCh)

	wg.Wait()
	close(resultCh)

	results := make([]Result, 0, len(jobs))
	for res := range resultCh {
		results = append(results, res)
	}
	return results
}

func (p *Pool) runOne(ctx context.Context, job Job, limiter *rate.Limiter) Result {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return skippedResult(job, err)
		}
	}

	start := time.Now()
	err := p.invoker.Invoke(ctx, job)
	res := Result{
		Job:      job,
		Err:      err,
		ExitCode: exitCode(err),
		Duration: time.Since(start),
	}

	if err != nil {
		p.logger.Warnw("analyzer invocation failed",
			"sample", job.Sample,
			"exit_code", res.ExitCode,
			"error", err)
	} else {
		p.logger.Debugw("analyzer invocation finished",
			"sample", job.Sample,
			"duration", res.Duration)
	}
	return res
}

func skippedResult(job Job, cause error) Result {
	return Result{
		Job:      job,
		Err:      errors.Wrapf(cause, "job for sample %s not started", job.Sample),
		ExitCode: -1,
		Skipped:  true,
	}
}

// Failures filters results down to jobs that did not succeed.
func Failures(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
