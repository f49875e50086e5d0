package cmd

import (
	"github.com/huangsam/crewcast/core"
	"github.com/huangsam/crewcast/internal/contract"
	"github.com/spf13/cobra"
)

// forecastSetup runs the shared setup and checks that events are configured.
func forecastSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetupWrapper(cmd, args); err != nil {
		return err
	}
	return requireEvents()
}

// intervalsCmd reconstructs the staffing intervals.
var intervalsCmd = &cobra.Command{
	Use:   "intervals [events-file]",
	Short: "Show the date ranges with a constant number of active operators.",
	Long: `Rebuild the staffing timeline from an entry/exit log.

Each interval is a maximal range of days during which the same number of
operators was on duty. Intervals are ordered, disjoint and cover every day
from the first event through the study end.

Event labels are matched case-insensitively: entrada/entry count as entries,
saida/saída/exit as exits. Other labels are counted as exits unless
--strict-kinds is set.

Examples:
  # Reconstruct from a CSV export
  crewcast intervals eventos.csv

  # Stop the study window at a fixed day
  crewcast intervals eventos.csv --end 2025-06-30

  # Read from PostgreSQL
  CREWCAST_SOURCE_DB_CONNECT="host=db dbname=ops" crewcast intervals --source-backend postgresql`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: forecastSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIntervals(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot reconstruct intervals", err)
		}
	},
}

// dailyCmd projects the intervals onto every calendar day.
var dailyCmd = &cobra.Command{
	Use:   "daily [events-file]",
	Short: "Show the active operator count and cumulative expected total per day.",
	Long: `Expand the reconstructed intervals into one row per calendar day.

Every operator on duty is expected to complete one unit of work per day,
so the cumulative column is the expected total up to and including that day.

When a history backend is configured, every run and its daily series are
recorded for later export.

Examples:
  # Daily forecast as CSV
  crewcast daily eventos.csv --output csv --output-file daily.csv

  # Record the run in a SQLite history database
  crewcast daily eventos.csv --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: forecastSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDaily(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot project daily forecast", err)
		}
	},
}

// watchCmd keeps the daily forecast current.
var watchCmd = &cobra.Command{
	Use:   "watch [events-file]",
	Short: "Re-run the daily forecast whenever the inputs change.",
	Long: `Print the daily forecast, then refresh it each time an input changes.

File sources are watched on disk. PostgreSQL sources are watched with
LISTEN on --notify-channel, so a trigger that calls pg_notify keeps the
forecast current. Bursts of changes are coalesced with --debounce.

Examples:
  # Follow a CSV export
  crewcast watch eventos.csv

  # Follow a PostgreSQL table
  crewcast watch --source-backend postgresql --source-db-connect "host=db dbname=ops"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: forecastSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWatch(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Watch stopped", err)
		}
	},
}
