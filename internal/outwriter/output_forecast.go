package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/parquet"
	"github.com/huangsam/crewcast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintIntervals outputs the reconstructed intervals, dispatching based on the output format configured.
func PrintIntervals(result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichIntervals(result.Intervals))
		}, "Wrote JSON intervals"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVIntervals(w, result.Intervals)
		}, "Wrote CSV intervals"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, parquet.ConvertIntervals(result.Intervals), "Wrote Parquet intervals"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIntervalsTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVIntervals writes one row per interval.
func writeCSVIntervals(w io.Writer, intervals []schema.Interval) error {
	header := []string{"start", "end", "days", "active_count"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, iv := range intervals {
			row := []string{
				schema.FormatDay(iv.Start),
				schema.FormatDay(iv.End),
				strconv.Itoa(iv.Days()),
				strconv.Itoa(iv.ActiveCount),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeIntervalsTable generates and writes the human-readable interval table.
func writeIntervalsTable(writer io.Writer, result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"#", "Start", "End", "Days", "Active"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, iv := range schema.EnrichIntervals(result.Intervals) {
		data = append(data, []string{
			strconv.Itoa(iv.Index),
			schema.FormatDay(iv.Start),
			schema.FormatDay(iv.End),
			strconv.Itoa(iv.Days),
			strconv.Itoa(iv.ActiveCount),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d intervals through %s\n", len(result.Intervals), schema.FormatDay(result.StudyEnd)); err != nil {
		return err
	}
	return writeFooter(writer, cfg, duration)
}

// PrintDaily outputs the daily forecast, dispatching based on the output format configured.
func PrintDaily(result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result.Daily)
		}, "Wrote JSON daily forecast"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVDaily(w, result.Daily)
		}, "Wrote CSV daily forecast"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, parquet.ConvertDaily(result.Daily), "Wrote Parquet daily forecast"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDailyTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVDaily writes one row per projected day.
func writeCSVDaily(w io.Writer, daily []schema.DailyRecord) error {
	header := []string{"date", "active_count", "cumulative"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range daily {
			row := []string{
				schema.FormatDay(d.Date),
				strconv.Itoa(d.ActiveCount),
				strconv.Itoa(d.Cumulative),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDailyTable generates and writes the human-readable daily table.
func writeDailyTable(writer io.Writer, result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Date", "Weekday", "Active", "Cumulative"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range result.Daily {
		data = append(data, []string{
			schema.FormatDay(d.Date),
			d.Date.Weekday().String()[:3],
			strconv.Itoa(d.ActiveCount),
			strconv.Itoa(d.Cumulative),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	total := 0
	if n := len(result.Daily); n > 0 {
		total = result.Daily[n-1].Cumulative
	}
	if _, err := fmt.Fprintf(writer, "Showing %d days (expected total: %d)\n", len(result.Daily), total); err != nil {
		return err
	}
	return writeFooter(writer, cfg, duration)
}

// writeFooter prints the timing line shared by all tables.
func writeFooter(writer io.Writer, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(writer, "Forecast completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}
