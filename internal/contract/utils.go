package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/crewcast/schema"
)

// Color variables for console output.
var (
	AheadColor   = color.New(color.FgGreen, color.Bold) // AheadColor marks work done beyond the plan.
	OnTrackColor = color.New(color.FgCyan)              // OnTrackColor marks work matching the plan.
	BehindColor  = color.New(color.FgRed, color.Bold)   // BehindColor marks a shortfall against the plan.
	NoDataColor  = color.New(color.FgHiBlack)           // NoDataColor marks curves without points.
)

// GetColorLabel returns a colored pace label for console output (table).
// It uses schema.GetPaceLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(p schema.Pace) string {
	text := schema.GetPaceLabel(p)

	switch p {
	case schema.AheadPace:
		return AheadColor.Sprint(text)
	case schema.OnTrackPace:
		return OnTrackColor.Sprint(text)
	case schema.BehindPace:
		return BehindColor.Sprint(text)
	default:
		return NoDataColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal prints an error message to stderr and exits.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn prints a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".crewcast_cache.db"
	}
	return filepath.Join(homeDir, ".crewcast_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for forecast history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".crewcast_history.db"
	}
	return filepath.Join(homeDir, ".crewcast_history.db")
}

// TruncateWorker shortens a worker id to maxWidth runes, adding "..." when cut.
func TruncateWorker(worker string, maxWidth int) string {
	runes := []rune(worker)
	if maxWidth <= 3 || len(runes) <= maxWidth {
		return worker
	}
	return string(runes[:maxWidth-3]) + "..."
}

// ParseBoolString parses a string into a boolean value.
// Accepts: yes/no, true/false, 1/0 (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
