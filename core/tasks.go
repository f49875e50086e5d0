package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
)

// ParseTasks converts raw task rows. Blank timestamps become nil;
// a malformed one fails the batch with its row number.
func ParseTasks(rows []schema.TaskRow) ([]schema.Task, error) {
	tasks := make([]schema.Task, 0, len(rows))
	for i, row := range rows {
		start, err := contract.ParseOptionalTimestamp(row.Start)
		if err != nil {
			return nil, fmt.Errorf("row %d: start: %w: %v", i+1, ErrMalformedDate, err)
		}
		end, err := contract.ParseOptionalTimestamp(row.End)
		if err != nil {
			return nil, fmt.Errorf("row %d: end: %w: %v", i+1, ErrMalformedDate, err)
		}
		tasks = append(tasks, schema.Task{
			ID:     strings.TrimSpace(row.ID),
			Name:   row.Name,
			Worker: schema.WorkerOrUnknown(row.Worker),
			Start:  start,
			End:    end,
			Status: strings.TrimSpace(row.Status),
		})
	}
	return tasks, nil
}
