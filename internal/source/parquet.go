package source

import (
	"context"

	"github.com/huangsam/crewcast/internal/parquet"
	"github.com/huangsam/crewcast/schema"
)

// ParquetSource reads a Parquet file whose columns carry the canonical field names.
type ParquetSource struct {
	Path string
}

var _ reader = &ParquetSource{} // Compile-time check

// ReadEvents implements contract.EventSource.
func (s *ParquetSource) ReadEvents(ctx context.Context) ([]schema.EventRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parquet.ReadRows[schema.EventRow](s.Path)
}

// ReadTasks implements contract.TaskSource.
func (s *ParquetSource) ReadTasks(ctx context.Context) ([]schema.TaskRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parquet.ReadRows[schema.TaskRow](s.Path)
}
