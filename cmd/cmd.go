// Package cmd defines the command-line interface for crewcast.
package cmd

import (
	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(intervalsCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("events", "", "Event table: a csv, json or parquet file, or a table name with --source-backend")
	rootCmd.PersistentFlags().String("events-format", "", "Event table format: csv or json or parquet or sql (default: from extension)")
	rootCmd.PersistentFlags().String("tasks", "", "Task table: a csv, json or parquet file, or a table name with --source-backend")
	rootCmd.PersistentFlags().String("tasks-format", "", "Task table format: csv or json or parquet or sql (default: from extension)")
	rootCmd.PersistentFlags().String("source-backend", "", "Read events and tasks from a database: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("source-db-connect", "", "Database connection string of the source tables")
	rootCmd.PersistentFlags().String("end", "", "Last day of the study window in ISO8601 or time ago (default: later of today and last event)")
	rootCmd.PersistentFlags().String("horizon", "", "Last day of the progress curves in ISO8601 or time ago (default: today)")
	rootCmd.PersistentFlags().String("worker", "", "Restrict progress to a single worker")
	rootCmd.PersistentFlags().String("completed-status", schema.DefaultCompletedStatus, "Task status that counts as completed")
	rootCmd.PersistentFlags().Bool("strict-kinds", false, "Reject unrecognized event labels instead of treating them as exits")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of watchCmd to Viper
	watchCmd.Flags().String("notify-channel", schema.DefaultNotifyChannel, "PostgreSQL channel to LISTEN on when the source is postgresql")
	watchCmd.Flags().String("debounce", contract.DefaultDebounce.String(), "Quiet period before a burst of changes triggers a refresh")
	if err := viper.BindPFlags(watchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding watch flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
