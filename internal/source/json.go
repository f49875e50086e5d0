package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/crewcast/schema"
)

// JSONSource reads a JSON array of flat objects.
type JSONSource struct {
	Path string
}

var _ reader = &JSONSource{} // Compile-time check

// ReadEvents implements contract.EventSource.
func (s *JSONSource) ReadEvents(ctx context.Context) ([]schema.EventRow, error) {
	objects, err := s.load()
	if err != nil {
		return nil, err
	}
	return DecodeEventObjects(ctx, objects)
}

// ReadTasks implements contract.TaskSource.
func (s *JSONSource) ReadTasks(ctx context.Context) ([]schema.TaskRow, error) {
	objects, err := s.load()
	if err != nil {
		return nil, err
	}
	return DecodeTaskObjects(ctx, objects)
}

func (s *JSONSource) load() ([]map[string]any, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	objects, err := ParseJSONObjects(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return objects, nil
}

// ParseJSONObjects decodes a JSON array of objects keeping numbers verbatim.
func ParseJSONObjects(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("expected a JSON array of objects: %w", err)
	}
	return objects, nil
}

// DecodeEventObjects maps decoded JSON objects onto event rows.
func DecodeEventObjects(ctx context.Context, objects []map[string]any) ([]schema.EventRow, error) {
	rows := make([]schema.EventRow, 0, len(objects))
	err := decodeObjects(ctx, objects, eventFields, func(vals []string) {
		rows = append(rows, eventRowOf(vals))
	})
	return rows, err
}

// DecodeTaskObjects maps decoded JSON objects onto task rows.
func DecodeTaskObjects(ctx context.Context, objects []map[string]any) ([]schema.TaskRow, error) {
	rows := make([]schema.TaskRow, 0, len(objects))
	err := decodeObjects(ctx, objects, taskFields, func(vals []string) {
		rows = append(rows, taskRowOf(vals))
	})
	return rows, err
}

func decodeObjects(ctx context.Context, objects []map[string]any, fields []fieldSpec, emit func([]string)) error {
	for i, obj := range objects {
		if err := ctx.Err(); err != nil {
			return err
		}
		normalized := make(map[string]any, len(obj))
		for k, v := range obj {
			normalized[normalizeHeader(k)] = v
		}

		vals := make([]string, len(fields))
		for j, f := range fields {
			v, found := lookup(normalized, f.aliases)
			if !found && f.required {
				return fmt.Errorf("row %d: missing field %q", i+1, f.name)
			}
			vals[j] = stringify(v)
		}
		emit(vals)
	}
	return nil
}

func lookup(obj map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := obj[alias]; ok {
			return v, true
		}
	}
	return nil, false
}

// stringify renders a scalar JSON value the way it appeared in the document.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return strings.TrimSpace(string(b))
	}
}

// InlineJSONSource serves a JSON array held in memory, such as a tool argument.
type InlineJSONSource struct {
	Data []byte
}

var _ reader = &InlineJSONSource{} // Compile-time check

// ReadEvents implements contract.EventSource.
func (s *InlineJSONSource) ReadEvents(ctx context.Context) ([]schema.EventRow, error) {
	objects, err := ParseJSONObjects(s.Data)
	if err != nil {
		return nil, err
	}
	return DecodeEventObjects(ctx, objects)
}

// ReadTasks implements contract.TaskSource.
func (s *InlineJSONSource) ReadTasks(ctx context.Context) ([]schema.TaskRow, error) {
	objects, err := ParseJSONObjects(s.Data)
	if err != nil {
		return nil, err
	}
	return DecodeTaskObjects(ctx, objects)
}
