// Package core reconstructs staffing intervals from operator events and projects
// them into daily and per-worker expectations.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/outwriter"
	"github.com/huangsam/crewcast/internal/source"
	"github.com/huangsam/crewcast/schema"
)

// ErrNoTasks is returned when a task-based command has no task source configured.
var ErrNoTasks = errors.New("no task source configured (use --tasks)")

// ExecutorFunc defines the function signature for executing the crewcast commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteIntervals reconstructs the staffing intervals and prints them.
func ExecuteIntervals(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := forecastFromConfig(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintIntervals(result, cfg, time.Since(start))
}

// ExecuteDaily reconstructs the intervals and prints the daily projection.
func ExecuteDaily(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := forecastFromConfig(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintDaily(result, cfg, time.Since(start))
}

// ExecuteProgress prints the business-day curves of every worker, or of cfg.Worker alone.
func ExecuteProgress(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	tasks, err := openTaskSource(cfg)
	if err != nil {
		return err
	}
	progress, err := GetWorkerProgressResults(ctx, cfg, tasks)
	if err != nil {
		return err
	}
	return outwriter.PrintWorkerProgress(progress, cfg, time.Since(start))
}

// ExecuteTeam compares the headcount-driven expectation with completed tasks.
func ExecuteTeam(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	events, err := source.NewEventSource(cfg.Events)
	if err != nil {
		return err
	}
	tasks, err := openTaskSource(cfg)
	if err != nil {
		return err
	}
	team, err := GetTeamProgressResults(ctx, cfg, events, tasks, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintTeamProgress(team, cfg, time.Since(start))
}

// ExecuteSummary prints status counts and per-worker task statistics.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	tasks, err := openTaskSource(cfg)
	if err != nil {
		return err
	}
	summary, err := GetTaskSummaryResults(ctx, cfg, tasks)
	if err != nil {
		return err
	}
	return outwriter.PrintTaskSummary(summary, cfg, time.Since(start))
}

// GetForecastResults loads the events, resolves the study end and returns the
// reconstructed intervals with their daily projection. When a history store is
// configured the run and its daily series are recorded.
func GetForecastResults(ctx context.Context, cfg *contract.Config, src contract.EventSource, mgr contract.CacheManager) (schema.ForecastResult, error) {
	startTime := time.Now()
	events, err := loadEvents(ctx, cfg, src)
	if err != nil {
		return schema.ForecastResult{}, err
	}
	studyEnd := ResolveStudyEnd(events, cfg.StudyEnd, nowOf(cfg))
	logForecastHeader(ctx, cfg, studyEnd, len(events))

	// --- Begin run tracking (if configured) ---
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	if history != nil {
		runID, err := history.BeginRun(startTime, cfg.RunParams())
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else {
			ctx = withRunID(ctx, runID)
		}
	}

	result := cachedForecast(events, studyEnd, mgr)

	// --- End run tracking ---
	if runID, ok := getRunID(ctx); ok && history != nil {
		if err := history.RecordDays(runID, result.Daily); err != nil {
			contract.LogWarn("Failed to record forecast days", err)
		}
		if err := history.EndRun(runID, time.Now(), result.StudyEnd, len(events), len(result.Daily)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}
	return result, nil
}

// GetWorkerProgressResults returns the progress curves up to cfg.Horizon.
// When cfg.Worker is set only that worker is projected.
func GetWorkerProgressResults(ctx context.Context, cfg *contract.Config, src contract.TaskSource) ([]schema.WorkerProgress, error) {
	tasks, err := loadTasks(ctx, cfg, src)
	if err != nil {
		return nil, err
	}
	horizon := horizonOf(cfg)
	if cfg.Worker != "" {
		return []schema.WorkerProgress{ProjectWorkerProgress(cfg.Worker, tasks, horizon, cfg.CompletedStatus)}, nil
	}
	return ProjectAllWorkers(tasks, horizon, cfg.CompletedStatus), nil
}

// GetTeamProgressResults projects the team curve from the daily headcount.
func GetTeamProgressResults(ctx context.Context, cfg *contract.Config, events contract.EventSource, tasks contract.TaskSource, mgr contract.CacheManager) (schema.TeamProgress, error) {
	forecast, err := GetForecastResults(ctx, cfg, events, mgr)
	if err != nil {
		return schema.TeamProgress{}, err
	}
	parsed, err := loadTasks(ctx, cfg, tasks)
	if err != nil {
		return schema.TeamProgress{}, err
	}
	return ProjectTeamProgress(parsed, forecast.Daily, cfg.CompletedStatus), nil
}

// GetTaskSummaryResults summarizes the task table.
func GetTaskSummaryResults(ctx context.Context, cfg *contract.Config, src contract.TaskSource) (schema.TaskSummary, error) {
	tasks, err := loadTasks(ctx, cfg, src)
	if err != nil {
		return schema.TaskSummary{}, err
	}
	return SummarizeTasks(tasks, cfg.CompletedStatus), nil
}

// forecastFromConfig opens the configured event source and runs the forecast.
func forecastFromConfig(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ForecastResult, error) {
	src, err := source.NewEventSource(cfg.Events)
	if err != nil {
		return schema.ForecastResult{}, err
	}
	return GetForecastResults(ctx, cfg, src, mgr)
}

// openTaskSource opens the configured task source.
func openTaskSource(cfg *contract.Config) (contract.TaskSource, error) {
	if cfg.Tasks.Path == "" {
		return nil, ErrNoTasks
	}
	return source.NewTaskSource(cfg.Tasks)
}

// loadEvents reads and parses the event rows. Unknown labels are reported once.
func loadEvents(ctx context.Context, cfg *contract.Config, src contract.EventSource) ([]schema.Event, error) {
	rows, err := src.ReadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	events, unknown, err := ParseEvents(rows, cfg.StrictKinds)
	if err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	if unknown > 0 {
		contract.LogWarn("Unrecognized event labels were counted as exits",
			fmt.Errorf("%d of %d rows (use --strict-kinds to reject them)", unknown, len(rows)))
	}
	return events, nil
}

// loadTasks reads and parses the task rows.
func loadTasks(ctx context.Context, cfg *contract.Config, src contract.TaskSource) ([]schema.Task, error) {
	rows, err := src.ReadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	tasks, err := ParseTasks(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tasks: %w", err)
	}
	logTasksHeader(ctx, cfg, len(tasks))
	return tasks, nil
}

// nowOf returns the reference time of the run.
func nowOf(cfg *contract.Config) time.Time {
	if cfg.Now.IsZero() {
		return time.Now()
	}
	return cfg.Now
}

// horizonOf returns the last day of the progress curves, defaulting to today.
func horizonOf(cfg *contract.Config) time.Time {
	if cfg.Horizon.IsZero() {
		return schema.DateOnly(nowOf(cfg))
	}
	return cfg.Horizon
}
