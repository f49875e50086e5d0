package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/crewcast/core"
	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/source"
	"github.com/huangsam/crewcast/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	now     func() time.Time
}

// callConfig anchors a copy of the base config to the time of the call.
func (h *toolHandler) callConfig() (*contract.Config, error) {
	return h.baseCfg.At(h.now())
}

func (h *toolHandler) handleReconstructIntervals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, events, err := h.eventsRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetForecastResults(core.WithSuppressHeader(ctx), cfg, events, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reconstruction failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"study_end": schema.FormatDay(result.StudyEnd),
		"intervals": schema.EnrichIntervals(result.Intervals),
	})
}

func (h *toolHandler) handleProjectDaily(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, events, err := h.eventsRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetForecastResults(core.WithSuppressHeader(ctx), cfg, events, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("projection failed: %v", err)), nil
	}
	return jsonResult(result.Daily)
}

func (h *toolHandler) handleWorkerProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.callConfig()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid configuration: %v", err)), nil
	}
	cfg, tasks, err := h.tasksRequest(request, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if w := strings.TrimSpace(request.GetString("worker", "")); w != "" {
		cfg.Worker = w
	}
	if s := request.GetString("horizon", ""); s != "" {
		horizon, err := contract.ParseDayOrRelative(s, cfg.Now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid horizon: %v", err)), nil
		}
		cfg.Horizon = horizon
	}

	progress, err := core.GetWorkerProgressResults(core.WithSuppressHeader(ctx), cfg, tasks)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("progress projection failed: %v", err)), nil
	}
	return jsonResult(schema.EnrichProgress(progress))
}

func (h *toolHandler) handleTeamProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, events, err := h.eventsRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg, tasks, err := h.tasksRequest(request, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	team, err := core.GetTeamProgressResults(core.WithSuppressHeader(ctx), cfg, events, tasks, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("team projection failed: %v", err)), nil
	}
	return jsonResult(team)
}

func (h *toolHandler) handleTaskSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.callConfig()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid configuration: %v", err)), nil
	}
	cfg, tasks, err := h.tasksRequest(request, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	summary, err := core.GetTaskSummaryResults(core.WithSuppressHeader(ctx), cfg, tasks)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}

// eventsRequest anchors the base config to the call and resolves its event source.
func (h *toolHandler) eventsRequest(request mcp.CallToolRequest) (*contract.Config, contract.EventSource, error) {
	cfg, err := h.callConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.StrictKinds = request.GetBool("strict_kinds", cfg.StrictKinds)
	if s := request.GetString("end", ""); s != "" {
		end, err := contract.ParseDayOrRelative(s, cfg.Now)
		if err != nil {
			return nil, nil, fmt.Errorf("end: %w", err)
		}
		cfg.StudyEnd = end
	}

	if data := request.GetString("events_json", ""); data != "" {
		return cfg, &source.InlineJSONSource{Data: []byte(data)}, nil
	}
	if p := request.GetString("events_path", ""); p != "" {
		cfg.Events = contract.SourceConfig{Path: p, Format: contract.FormatFromExtension(p)}
	}
	if cfg.Events.Path == "" {
		return nil, nil, errors.New("events_path or events_json is required")
	}
	events, err := source.NewEventSource(cfg.Events)
	if err != nil {
		return nil, nil, err
	}
	return cfg, events, nil
}

// tasksRequest resolves the task source of a call on top of cfg.
func (h *toolHandler) tasksRequest(request mcp.CallToolRequest, cfg *contract.Config) (*contract.Config, contract.TaskSource, error) {
	if s := strings.TrimSpace(request.GetString("completed_status", "")); s != "" {
		cfg.CompletedStatus = s
	}
	if cfg.CompletedStatus == "" {
		cfg.CompletedStatus = schema.DefaultCompletedStatus
	}

	if data := request.GetString("tasks_json", ""); data != "" {
		return cfg, &source.InlineJSONSource{Data: []byte(data)}, nil
	}
	if p := request.GetString("tasks_path", ""); p != "" {
		cfg.Tasks = contract.SourceConfig{Path: p, Format: contract.FormatFromExtension(p)}
	}
	if cfg.Tasks.Path == "" {
		return nil, nil, errors.New("tasks_path or tasks_json is required")
	}
	tasks, err := source.NewTaskSource(cfg.Tasks)
	if err != nil {
		return nil, nil, err
	}
	return cfg, tasks, nil
}
