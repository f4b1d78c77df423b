package ports

import (
	"context"

	"chartsense/domain/dataset"
)

// RowSource loads a rectangular dataset from somewhere outside the process.
// Sources are read-only; the analysis core never writes back.
type RowSource interface {
	Load(ctx context.Context) (dataset.Table, error)
	Name() string
}
