package exec

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windratio/domain/core"
	"windratio/domain/ratio"
)

// fakeJob records one single-cell table per index.
type fakeJob struct {
	calls  atomic.Int64
	failAt int
}

func (j *fakeJob) Run(ctx context.Context, index int) (*ratio.Table, error) {
	j.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if j.failAt > 0 && index == j.failAt {
		return nil, errors.New("resample blew up")
	}
	t := ratio.NewTable()
	if err := t.AddColumn(ratio.WdBinCol, []float64{float64(index)}); err != nil {
		return nil, err
	}
	return t, nil
}

func (j *fakeJob) Payload(index int) ([]byte, error) { return nil, nil }

func TestSerial_IndexesInOrder(t *testing.T) {
	job := &fakeJob{}
	out, err := NewSerial().RunMany(context.Background(), 5, job)
	require.NoError(t, err)
	require.Len(t, out, 5)
	for i, r := range out {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, float64(i), r.Table.Cell(0, ratio.WdBinCol))
	}
}

func TestSerial_FailureAbortsBatch(t *testing.T) {
	job := &fakeJob{failAt: 2}
	_, err := NewSerial().RunMany(context.Background(), 5, job)
	require.Error(t, err)
	assert.True(t, core.IsExecutionError(err))
	assert.Equal(t, int64(3), job.calls.Load())
}

func TestPool_MatchesSerial(t *testing.T) {
	serialOut, err := NewSerial().RunMany(context.Background(), 20, &fakeJob{})
	require.NoError(t, err)
	poolOut, err := NewPool(4).RunMany(context.Background(), 20, &fakeJob{})
	require.NoError(t, err)

	require.Len(t, poolOut, len(serialOut))
	for i := range serialOut {
		assert.Equal(t, serialOut[i].Index, poolOut[i].Index)
		assert.Equal(t,
			serialOut[i].Table.Cell(0, ratio.WdBinCol),
			poolOut[i].Table.Cell(0, ratio.WdBinCol))
	}
}

func TestPool_FailureAbortsBatch(t *testing.T) {
	job := &fakeJob{failAt: 3}
	_, err := NewPool(2).RunMany(context.Background(), 10, job)
	require.Error(t, err)
	assert.True(t, core.IsExecutionError(err))
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPool(2).RunMany(ctx, 10, &fakeJob{})
	assert.Error(t, err)
}
