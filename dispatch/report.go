package dispatch

import (
	"time"

	"github.com/pterm/pterm"
)

// Reporter brackets the dispatch phase with wall-clock timestamps and
// prints a per-job outcome summary. Purely observational.
type Reporter struct {
	startTime time.Time
	endTime   time.Time
}

// NewReporter creates a Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Start records the dispatch start time and announces the run.
func (r *Reporter) Start(jobs, workers int) {
	r.startTime = time.Now()
	pterm.Info.Printf("Dispatching %d job(s) across %d worker(s)\n", jobs, workers)
	pterm.Printf("Current time: %s\n", r.startTime.Format(time.DateTime))
}

// Finish records the dispatch end time and prints the run summary.
func (r *Reporter) Finish(results []Result) {
	r.endTime = time.Now()

	failed := Failures(results)
	for _, res := range failed {
		if res.Skipped {
			pterm.Warning.Printf("  %s: not started (%v)\n", res.Job.Sample, res.Err)
			continue
		}
		pterm.Warning.Printf("  %s: exit code %d\n", res.Job.Sample, res.ExitCode)
	}

	if len(failed) == 0 {
		pterm.Success.Printf("All %d job(s) completed\n", len(results))
	} else {
		pterm.Warning.Printf("%d of %d job(s) failed\n", len(failed), len(results))
	}

	pterm.Printf("Started on %s\n", r.startTime.Format(time.DateTime))
	pterm.Printf("Ended on %s\n", r.endTime.Format(time.DateTime))
	pterm.Printf("Elapsed: %s\n", r.endTime.Sub(r.startTime).Round(time.Millisecond))
}

// StartTime returns the recorded dispatch start time.
func (r *Reporter) StartTime() time.Time { return r.startTime }

// EndTime returns the recorded dispatch end time.
func (r *Reporter) EndTime() time.Time { return r.endTime }
