// Package outwriter has output and writer logic.
package outwriter

import (
	"strconv"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteIntervals prints reconstructed intervals using the configured output format.
func (ow *OutWriter) WriteIntervals(result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	return PrintIntervals(result, cfg, duration)
}

// WriteDaily prints the daily forecast using the configured output format.
func (ow *OutWriter) WriteDaily(result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	return PrintDaily(result, cfg, duration)
}

// WriteWorkerProgress prints per-worker progress curves using the configured output format.
func (ow *OutWriter) WriteWorkerProgress(progress []schema.WorkerProgress, cfg *contract.Config, duration time.Duration) error {
	return PrintWorkerProgress(progress, cfg, duration)
}

// WriteTeamProgress prints the team progress curve using the configured output format.
func (ow *OutWriter) WriteTeamProgress(team schema.TeamProgress, cfg *contract.Config, duration time.Duration) error {
	return PrintTeamProgress(team, cfg, duration)
}

// WriteTaskSummary prints the task summary using the configured output format.
func (ow *OutWriter) WriteTaskSummary(summary schema.TaskSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintTaskSummary(summary, cfg, duration)
}

// paceLabel renders a pace for tables, colored unless colors are disabled.
func paceLabel(p schema.Pace, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(p)
	}
	return schema.GetPaceLabel(p)
}

// formatGap renders a signed difference between actual and expected counts.
func formatGap(gap int) string {
	if gap > 0 {
		return "+" + strconv.Itoa(gap)
	}
	return strconv.Itoa(gap)
}
