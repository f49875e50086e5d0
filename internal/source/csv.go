package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/crewcast/schema"
)

// CSVSource reads a comma separated file with a header row.
type CSVSource struct {
	Path string
}

var _ reader = &CSVSource{} // Compile-time check

// ReadEvents implements contract.EventSource.
func (s *CSVSource) ReadEvents(ctx context.Context) ([]schema.EventRow, error) {
	var rows []schema.EventRow
	err := s.scan(ctx, eventFields, func(vals []string) {
		rows = append(rows, eventRowOf(vals))
	})
	return rows, err
}

// ReadTasks implements contract.TaskSource.
func (s *CSVSource) ReadTasks(ctx context.Context) ([]schema.TaskRow, error) {
	var rows []schema.TaskRow
	err := s.scan(ctx, taskFields, func(vals []string) {
		rows = append(rows, taskRowOf(vals))
	})
	return rows, err
}

func (s *CSVSource) scan(ctx context.Context, fields []fieldSpec, emit func([]string)) error {
	file, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", s.Path, err)
	}
	cols, err := resolveColumns(header, fields)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Path, err)
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s line %d: %w", s.Path, line, err)
		}
		if isBlank(record) {
			continue
		}
		emit(pick(record, cols))
	}
}

func isBlank(record []string) bool {
	for _, v := range record {
		if v != "" {
			return false
		}
	}
	return true
}
