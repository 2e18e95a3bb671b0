package ports

import (
	"context"

	"windratio/domain/ratio"
)

// ResampleJob is one bootstrap batch: N independent single-pass
// reductions, one per resample index. Local strategies call Run; network
// strategies ship Payload to a remote worker instead.
type ResampleJob interface {
	// Run executes the reduction for one resample index in-process.
	Run(ctx context.Context, index int) (*ratio.Table, error)

	// Payload returns the self-contained wire form of the work for one
	// resample index, for strategies that execute remotely.
	Payload(index int) ([]byte, error)
}

// ExecutionStrategy runs the N passes of a bootstrap batch. Results are
// tagged with their resample index; callers must not assume any ordering
// beyond the tags. A failure in any pass aborts the batch.
type ExecutionStrategy interface {
	Name() string
	RunMany(ctx context.Context, n int, job ResampleJob) ([]ratio.Indexed, error)
}
