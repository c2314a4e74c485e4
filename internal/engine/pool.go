package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool runs at most jobs tasks at a time.
type Pool struct {
	jobs int
}

// NewPool returns a pool of the given size. Sizes below one run serially.
func NewPool(jobs int) *Pool {
	if jobs < 1 {
		jobs = 1
	}
	return &Pool{jobs: jobs}
}

// Jobs is the pool's concurrency limit.
func (p *Pool) Jobs() int { return p.jobs }

// Run calls fn for every index in [0, n) and waits for all of them. Tasks
// are started in index order; a failing task never stops the others.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	var g errgroup.Group
	g.SetLimit(p.jobs)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
