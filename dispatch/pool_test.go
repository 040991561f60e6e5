package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingInvoker tracks in-flight invocations so tests can assert on the
// pool's concurrency bound.
type countingInvoker struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	invoked     []string
	hold        time.Duration
	failFor     map[string]error
}

func (c *countingInvoker) Invoke(ctx context.Context, job Job) error {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
	c.invoked = append(c.invoked, job.Sample)
	c.mu.Unlock()

	if c.hold > 0 {
		time.Sleep(c.hold)
	}

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()

	if err, ok := c.failFor[job.Sample]; ok {
		return err
	}
	return nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestPoolDispatchesEveryJobExactlyOnce(t *testing.T) {
	samples := []string{"TTbarNoHad", "Rare", "WJetsToLNu", "ZJetsToNuNu", "QCD"}
	jobs := BuildJobs(samples, "out")

	for _, workers := range []int{1, 2, 4, 8} {
		invoker := &countingInvoker{}
		pool := NewPool(invoker, PoolConfig{Workers: workers}, testLogger())

		results := pool.Run(context.Background(), jobs)

		require.Len(t, results, len(jobs), "workers=%d", workers)
		assert.ElementsMatch(t, samples, invoker.invoked, "workers=%d", workers)
		for _, res := range results {
			assert.NoError(t, res.Err)
			assert.Equal(t, 0, res.ExitCode)
			assert.False(t, res.Skipped)
		}
	}
}

func TestPoolSingleWorkerSerializes(t *testing.T) {
	jobs := BuildJobs([]string{"A", "B", "C", "D"}, "out")
	invoker := &countingInvoker{hold: 10 * time.Millisecond}
	pool := NewPool(invoker, PoolConfig{Workers: 1}, testLogger())

	pool.Run(context.Background(), jobs)

	assert.Equal(t, 1, invoker.maxInFlight, "no two invocations may overlap")
	assert.Equal(t, []string{"A", "B", "C", "D"}, invoker.invoked,
		"a single worker consumes the list in order")
}

func TestPoolBoundsConcurrency(t *testing.T) {
	jobs := BuildJobs([]string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}, "out")
	invoker := &countingInvoker{hold: 20 * time.Millisecond}
	pool := NewPool(invoker, PoolConfig{Workers: 3}, testLogger())

	pool.Run(context.Background(), jobs)

	assert.LessOrEqual(t, invoker.maxInFlight, 3)
	assert.GreaterOrEqual(t, invoker.maxInFlight, 1)
	assert.Len(t, invoker.invoked, len(jobs))
}

func TestPoolCollectsFailures(t *testing.T) {
	jobs := BuildJobs([]string{"A", "B", "C"}, "out")
	invoker := &countingInvoker{
		failFor: map[string]error{"B": assert.AnError},
	}
	pool := NewPool(invoker, PoolConfig{Workers: 2}, testLogger())

	results := pool.Run(context.Background(), jobs)
	require.Len(t, results, 3)

	failed := Failures(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "B", failed[0].Job.Sample)
	assert.Equal(t, -1, failed[0].ExitCode, "stub failure carries no process exit code")
}

// blockingInvoker parks every invocation until its context is cancelled.
type blockingInvoker struct{}

func (blockingInvoker) Invoke(ctx context.Context, job Job) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestPoolCancellationSkipsUndispatchedJobs(t *testing.T) {
	jobs := BuildJobs([]string{"A", "B", "C", "D", "E"}, "out")
	pool := NewPool(blockingInvoker{}, PoolConfig{Workers: 2}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []Result, 1)
	go func() {
		done <- pool.Run(ctx, jobs)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case results := <-done:
		require.Len(t, results, len(jobs), "every job gets a result even when cancelled")
		skipped := 0
		for _, res := range results {
			assert.Error(t, res.Err)
			if res.Skipped {
				skipped++
			}
		}
		assert.GreaterOrEqual(t, skipped, 1, "jobs beyond the worker slots are never started")
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not return after cancellation")
	}
}

func TestPoolRateLimitsLaunches(t *testing.T) {
	jobs := BuildJobs([]string{"A", "B", "C", "D", "E"}, "out")
	invoker := &countingInvoker{}
	pool := NewPool(invoker, PoolConfig{Workers: 5, Rate: 50}, testLogger())

	start := time.Now()
	results := pool.Run(context.Background(), jobs)
	elapsed := time.Since(start)

	require.Len(t, results, 5)
	// Burst 1 at 50 launches/s: four of the five launches wait ~20ms each
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestFailuresEmpty(t *testing.T) {
	results := []Result{{Job: Job{Sample: "A"}}, {Job: Job{Sample: "B"}}}
	assert.Empty(t, Failures(results))
}
