// Package dispatch fans analyzer invocations out across a bounded worker
// pool: one external process per sample, at most Workers running at once.
package dispatch

import (
	"os"

	"github.com/hepworks/histodriver/errors"
)

// Job describes one analyzer invocation for one sample. Immutable once
// built.
type Job struct {
	// Sample is the opaque sample name handed to the analyzer
	Sample string

	// Args is the argument list appended to the analyzer command:
	// ["-I", sample, "-D", outDir]
	Args []string
}

// BuildJobs constructs one Job per sample name, preserving input order.
// Order is not required for correctness (jobs are independent) but keeps
// logs reproducible.
func BuildJobs(samples []string, outDir string) []Job {
	jobs := make([]Job, 0, len(samples))
	for _, sample := range samples {
		jobs = append(jobs, Job{
			Sample: sample,
			Args:   []string{"-I", sample, "-D", outDir},
		})
	}
	return jobs
}

// EnsureOutputDir creates path if it does not exist. Non-recursive: the
// parent must already exist. Idempotent when the directory is already
// present; existing contents are never touched.
func EnsureOutputDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errors.Newf("output path %s exists but is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat output directory %s", path)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", path)
	}
	return nil
}
