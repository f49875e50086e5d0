package outwriter

import (
	"os"

	"github.com/huangsam/crewcast/internal/contract"
	"golang.org/x/term"
)

// getMaxTableWorkerWidth calculates the maximum width for worker ids in table output
// based on terminal width and the fixed columns of the widest table.
func getMaxTableWorkerWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Start + Days + Expected + Actual + Gap + Pace with borders/padding
	baseWidth := 70

	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}
