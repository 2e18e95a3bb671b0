// Package exec provides the in-process execution strategies for bootstrap
// batches: a sequential loop and a bounded local worker pool.
package exec

import (
	"context"

	"windratio/domain/core"
	"windratio/domain/ratio"
	"windratio/ports"
)

// Serial runs the resample passes sequentially in the calling goroutine.
type Serial struct{}

// NewSerial creates the sequential strategy.
func NewSerial() *Serial { return &Serial{} }

func (s *Serial) Name() string { return "serial" }

func (s *Serial) RunMany(ctx context.Context, n int, job ports.ResampleJob) ([]ratio.Indexed, error) {
	out := make([]ratio.Indexed, 0, n)
	for i := 0; i < n; i++ {
		t, err := job.Run(ctx, i)
		if err != nil {
			return nil, core.NewExecutionError(i, err)
		}
		out = append(out, ratio.Indexed{Index: i, Table: t})
	}
	return out, nil
}
