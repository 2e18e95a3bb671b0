package ports

import (
	"context"

	"windratio/domain/ratio"
)

// ResultWriter persists or exports a result table. Serialization is the
// consumer's side of the boundary; the core never depends on a format.
type ResultWriter interface {
	WriteResult(ctx context.Context, t *ratio.Table) error
}
