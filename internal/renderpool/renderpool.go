// Package renderpool bounds how many render requests the HTTP layer runs
// concurrently. Render itself is cheap per step, but an unbounded number of
// simultaneous large-N renders against a big Pen can still saturate CPU;
// the pool caps concurrency the way a connection pool caps concurrent
// queries.
package renderpool

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/token"
)

// Pool runs render jobs with at most Max concurrent in flight.
type Pool struct {
	max int

	mu      sync.Mutex
	pending int
}

// New returns a Pool allowing at most max concurrent renders. max <= 0 means
// unbounded.
func New(max int) *Pool {
	return &Pool{max: max}
}

// Job is one render request: render n tokens from p using pick.
type Job struct {
	Pen  *pen.Pen
	N    int
	Pick pen.Picker
}

// Result is a completed Job's output, indexed back to its position in the
// input slice so callers can match results to requests.
type Result struct {
	Index  int
	Tokens []token.Token
	Err    error
}

// RunAll runs every job, each bounded by p.max concurrent goroutines, and
// returns results in the same order jobs was given (not completion order).
// It stops launching new jobs once ctx is cancelled, but already-running
// jobs still finish and report their result or ctx's error.
func (p *Pool) RunAll(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))

	runner := pool.New()
	if p.max > 0 {
		runner = runner.WithMaxGoroutines(p.max)
	}

	for i, job := range jobs {
		i, job := i, job
		runner.Go(func() {
			p.trackStart()
			defer p.trackDone()

			select {
			case <-ctx.Done():
				results[i] = Result{Index: i, Err: ctx.Err()}
				return
			default:
			}

			var tokens []token.Token
			for tok := range job.Pen.Render(job.N, job.Pick) {
				tokens = append(tokens, tok)
			}
			results[i] = Result{Index: i, Tokens: tokens}
		})
	}
	runner.Wait()

	return results
}

func (p *Pool) trackStart() {
	p.mu.Lock()
	p.pending++
	p.mu.Unlock()
}

func (p *Pool) trackDone() {
	p.mu.Lock()
	p.pending--
	p.mu.Unlock()
}

// Pending reports how many jobs are currently running.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Shutdown waits for all pending jobs tracked via RunAll to drain, or
// returns ctx's error if it's cancelled first. It's a polling wait rather
// than a wired-in WaitGroup because RunAll jobs may belong to overlapping
// calls; Shutdown is for a server's graceful-stop path, not job-by-job
// synchronization.
func (p *Pool) Shutdown(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return waitUntilIdle(ctx, p)
	})
	return g.Wait()
}

func waitUntilIdle(ctx context.Context, p *Pool) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if p.Pending() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
