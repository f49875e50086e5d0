package cmd

import (
	"github.com/huangsam/crewcast/core"
	"github.com/huangsam/crewcast/internal/contract"
	"github.com/spf13/cobra"
)

// progressCmd shows per-worker expected vs actual output.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Compare expected and completed tasks per worker over business days.",
	Long: `Build a business-day curve for each worker.

Expected output grows by one task per weekday, starting at the worker's
first task start and ending at --horizon. Actual output counts the worker's
tasks with --completed-status that ended on or before each day.

Examples:
  # All workers up to today
  crewcast progress --tasks tarefas.csv

  # One worker, as JSON
  crewcast progress --tasks tarefas.csv --worker ana --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProgress(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot project worker progress", err)
		}
	},
}

// teamCmd compares the headcount-driven expectation with the team's output.
var teamCmd = &cobra.Command{
	Use:   "team [events-file]",
	Short: "Compare the headcount-driven expected total with completed tasks.",
	Long: `Project team progress from the daily headcount.

Starting at the earliest task start, the expected total grows on each
business day by the number of operators on duty, capped at the number of
tasks. Actual progress is reported up to the last completion.

Examples:
  crewcast team eventos.csv --tasks tarefas.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: forecastSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTeam(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot project team progress", err)
		}
	},
}

// summaryCmd summarizes the task table.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize task statuses and per-worker durations.",
	Long: `Show status counts, the completion rate and, for each worker, the number
of tasks and their mean duration in business days.

Examples:
  crewcast summary --tasks tarefas.json
  crewcast summary --source-backend mysql --source-db-connect "u:p@tcp(db:3306)/ops" --tasks s_1_execucao`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot summarize tasks", err)
		}
	},
}
