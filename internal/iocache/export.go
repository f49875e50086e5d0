package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/parquet"
)

// ExecuteHistoryExport exports the recorded forecast history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	return exportHistory(Manager.GetHistoryStore(), outputFile)
}

func exportHistory(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. set --history-backend to export runs")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no forecast history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total forecast runs: %d\n", status.TotalRuns)
	fmt.Printf("Total forecast days: %d\n", status.TotalDays)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve forecast runs: %w", err)
	}
	days, err := store.GetAllDays()
	if err != nil {
		return fmt.Errorf("failed to retrieve forecast days: %w", err)
	}

	runsFile := outputFile + ".forecast_runs.parquet"
	parquetRuns := parquet.ConvertForecastRunRecords(runs)
	if err := parquet.WriteRows(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write forecast runs: %w", err)
	}
	fmt.Printf("Exported %d forecast runs to: %s\n", len(parquetRuns), runsFile)

	daysFile := outputFile + ".forecast_days.parquet"
	parquetDays := parquet.ConvertForecastDayRecords(days)
	if err := parquet.WriteRows(parquetDays, daysFile); err != nil {
		return fmt.Errorf("failed to write forecast days: %w", err)
	}
	fmt.Printf("Exported %d forecast days to: %s\n", len(parquetDays), daysFile)

	fmt.Println("\nExport complete! The Parquet files can be read with DuckDB, pandas or Spark.")
	return nil
}
