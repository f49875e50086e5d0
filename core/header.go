package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
)

// sourceName returns a short label for a source, for headers.
func sourceName(src contract.SourceConfig) string {
	if src.Path == "" {
		return "none"
	}
	if src.Format == schema.SQLSource {
		return fmt.Sprintf("%s table %s", src.Backend, src.Path)
	}
	return filepath.Base(src.Path)
}

// logForecastHeader prints the run header to stderr so piped output stays clean.
func logForecastHeader(ctx context.Context, cfg *contract.Config, studyEnd time.Time, events int) {
	if shouldSuppressHeader(ctx) {
		return
	}
	if cfg.UseEmojis {
		fmt.Fprintf(os.Stderr, "🔎 Events: %s (%d rows)\n", sourceName(cfg.Events), events)
		fmt.Fprintf(os.Stderr, "📅 Study end: %s\n", schema.FormatDay(studyEnd))
		return
	}
	fmt.Fprintf(os.Stderr, "Events: %s (%d rows)\n", sourceName(cfg.Events), events)
	fmt.Fprintf(os.Stderr, "Study end: %s\n", schema.FormatDay(studyEnd))
}

// logTasksHeader prints the header of task-based commands.
func logTasksHeader(ctx context.Context, cfg *contract.Config, tasks int) {
	if shouldSuppressHeader(ctx) {
		return
	}
	prefix := ""
	if cfg.UseEmojis {
		prefix = "📋 "
	}
	fmt.Fprintf(os.Stderr, "%sTasks: %s (%d rows, completed status %q)\n", prefix, sourceName(cfg.Tasks), tasks, cfg.CompletedStatus)
}
