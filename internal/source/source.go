// Package source reads operator events and tasks from files and database tables.
package source

import (
	"fmt"
	"strings"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
)

// fieldSpec names one logical column and the headers that may carry it.
type fieldSpec struct {
	name     string
	aliases  []string
	required bool
}

// eventFields accepts both the Portuguese export headers and English ones.
var eventFields = []fieldSpec{
	{name: "date", aliases: []string{"data", "date", "day"}, required: true},
	{name: "event", aliases: []string{"evento", "event", "kind"}, required: true},
	{name: "worker", aliases: []string{"usuario", "usuário", "user", "worker"}, required: true},
}

var taskFields = []fieldSpec{
	{name: "id", aliases: []string{"id"}},
	{name: "name", aliases: []string{"name", "nome"}},
	{name: "worker", aliases: []string{"worker", "usuario", "user", "s_1_execucao_usuario"}, required: true},
	{name: "start", aliases: []string{"start", "data_inicio", "s_1_execucao_data_inicio"}, required: true},
	{name: "end", aliases: []string{"end", "data_fim", "s_1_execucao_data_fim"}, required: true},
	{name: "status", aliases: []string{"status", "situacao", "s_1_execucao_situacao"}, required: true},
}

// resolveColumns maps each field to its header index, or -1 when an optional field is absent.
func resolveColumns(header []string, fields []fieldSpec) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	cols := make([]int, len(fields))
	for i, f := range fields {
		cols[i] = -1
		for _, alias := range f.aliases {
			if idx, ok := index[alias]; ok {
				cols[i] = idx
				break
			}
		}
		if cols[i] < 0 && f.required {
			return nil, fmt.Errorf("missing column %q (accepted headers: %s)", f.name, strings.Join(f.aliases, ", "))
		}
	}
	return cols, nil
}

// normalizeHeader lowercases a header and strips a UTF-8 byte order mark.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// pick returns the values of a record in field order.
func pick(record []string, cols []int) []string {
	vals := make([]string, len(cols))
	for i, c := range cols {
		if c >= 0 && c < len(record) {
			vals[i] = record[c]
		}
	}
	return vals
}

func eventRowOf(vals []string) schema.EventRow {
	return schema.EventRow{Date: vals[0], Event: vals[1], Worker: vals[2]}
}

func taskRowOf(vals []string) schema.TaskRow {
	return schema.TaskRow{ID: vals[0], Name: vals[1], Worker: vals[2], Start: vals[3], End: vals[4], Status: vals[5]}
}

// NewEventSource returns the reader for a configured event table.
func NewEventSource(cfg contract.SourceConfig) (contract.EventSource, error) {
	return newSource(cfg)
}

// NewTaskSource returns the reader for a configured task table.
func NewTaskSource(cfg contract.SourceConfig) (contract.TaskSource, error) {
	return newSource(cfg)
}

// reader is implemented by every source so one constructor serves both tables.
type reader interface {
	contract.EventSource
	contract.TaskSource
}

func newSource(cfg contract.SourceConfig) (reader, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("no input configured")
	}
	switch cfg.Format {
	case schema.CSVSource:
		return &CSVSource{Path: cfg.Path}, nil
	case schema.JSONSource:
		return &JSONSource{Path: cfg.Path}, nil
	case schema.ParquetSource:
		return &ParquetSource{Path: cfg.Path}, nil
	case schema.SQLSource:
		return NewSQLSource(cfg.Backend, cfg.DBConnect, cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported source format %q", cfg.Format)
	}
}
