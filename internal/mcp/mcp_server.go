// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// eventsOptions are shared by the tools that read an event log.
func eventsOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("events_path", mcp.Description("Path to the event table (csv, json or parquet). Defaults to the configured source.")),
		mcp.WithString("events_json", mcp.Description("Inline JSON array of events with date, event and worker fields. Takes precedence over events_path.")),
		mcp.WithString("end", mcp.Description("Last day of the study window (YYYY-MM-DD or 'N days ago'). Defaults to the later of today and the last event.")),
		mcp.WithBoolean("strict_kinds", mcp.Description("Reject unrecognized event labels instead of counting them as exits.")),
	}
}

// tasksOptions are shared by the tools that read a task table.
func tasksOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("tasks_path", mcp.Description("Path to the task table (csv, json or parquet). Defaults to the configured source.")),
		mcp.WithString("tasks_json", mcp.Description("Inline JSON array of tasks with id, name, worker, start, end and status fields. Takes precedence over tasks_path.")),
		mcp.WithString("completed_status", mcp.Description("Status that marks a task as completed. Defaults to 'Finalizada'.")),
	}
}

func toolOptions(description string, groups ...[]mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, g := range groups {
		opts = append(opts, g...)
	}
	return opts
}

// Option customizes the tool handlers of NewMCPServer.
type Option func(*toolHandler)

// WithClock replaces the clock that every tool call is anchored to.
func WithClock(now func() time.Time) Option {
	return func(h *toolHandler) { h.now = now }
}

// NewMCPServer initializes and configures the crewcast MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, opts ...Option) *server.MCPServer {
	s := server.NewMCPServer(
		"Crewcast Forecast Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	// --- 1. Tool: reconstruct_intervals ---
	s.AddTool(mcp.NewTool("reconstruct_intervals", toolOptions(
		"Reconstruct the date intervals with a constant number of active operators from an entry/exit log.",
		eventsOptions(),
	)...), h.handleReconstructIntervals)

	// --- 2. Tool: project_daily ---
	s.AddTool(mcp.NewTool("project_daily", toolOptions(
		"Project the active operator count onto every calendar day with a cumulative expected total.",
		eventsOptions(),
	)...), h.handleProjectDaily)

	// --- 3. Tool: worker_progress ---
	s.AddTool(mcp.NewTool("worker_progress", toolOptions(
		"Compare expected (one task per business day) and completed tasks for each worker.",
		tasksOptions(),
		[]mcp.ToolOption{
			mcp.WithString("worker", mcp.Description("Restrict the result to one worker.")),
			mcp.WithString("horizon", mcp.Description("Last business day of the curves (YYYY-MM-DD or 'N days ago'). Defaults to today.")),
		},
	)...), h.handleWorkerProgress)

	// --- 4. Tool: team_progress ---
	s.AddTool(mcp.NewTool("team_progress", toolOptions(
		"Compare the headcount-driven expected total with the tasks completed by the whole team.",
		eventsOptions(),
		tasksOptions(),
	)...), h.handleTeamProgress)

	// --- 5. Tool: task_summary ---
	s.AddTool(mcp.NewTool("task_summary", toolOptions(
		"Summarize task statuses, completion rate and mean business-day duration per worker.",
		tasksOptions(),
	)...), h.handleTaskSummary)

	return s
}

// StartMCPServer starts the crewcast MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
