package ports

import (
	"windratio/domain/scada"
)

// TableHolder is the input collaborator: it owns the observation table and
// produces bootstrap resamples of it. Index 0 must be the identity
// resample; index i >= 1 must be an independent draw with replacement of
// the same row count and schema.
type TableHolder interface {
	Table() *scada.Table
	Resample(index int) *scada.Table
}
