package exec

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"windratio/domain/core"
	"windratio/domain/ratio"
	"windratio/ports"
)

// Pool runs the resample passes on a bounded local worker pool. Each pass
// works on its own independently constructed resample table, so no
// locking is needed; the first failing pass cancels the rest and aborts
// the batch.
type Pool struct {
	maxWorkers int
}

// NewPool creates the worker-pool strategy. maxWorkers <= 0 means one
// worker per CPU core.
func NewPool(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &Pool{maxWorkers: maxWorkers}
}

func (p *Pool) Name() string { return "multiprocessing" }

func (p *Pool) RunMany(ctx context.Context, n int, job ports.ResampleJob) ([]ratio.Indexed, error) {
	tables := make([]*ratio.Table, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			t, err := job.Run(ctx, i)
			if err != nil {
				return core.NewExecutionError(i, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make([]ratio.Indexed, n)
	for i, t := range tables {
		out[i] = ratio.Indexed{Index: i, Table: t}
	}
	return out, nil
}
