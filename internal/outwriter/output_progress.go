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

// teamWorker labels team rows in flat outputs.
const teamWorker = "team"

// PrintWorkerProgress outputs per-worker curves, dispatching based on the output format configured.
func PrintWorkerProgress(progress []schema.WorkerProgress, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichProgress(progress))
		}, "Wrote JSON progress"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWorkerProgress(w, progress)
		}, "Wrote CSV progress"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		var rows []parquet.ProgressRow
		for _, p := range progress {
			rows = append(rows, parquet.ConvertProgress(p.Worker, p.Points, -1, p.Pace)...)
		}
		if err := writeParquet(cfg.OutputFile, rows, "Wrote Parquet progress"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWorkerProgressTable(w, progress, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVWorkerProgress writes one row per worker and business day.
func writeCSVWorkerProgress(w io.Writer, progress []schema.WorkerProgress) error {
	header := []string{"worker", "date", "expected", "actual", "pace"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range progress {
			for _, pt := range p.Points {
				row := []string{
					p.Worker,
					schema.FormatDay(pt.Date),
					strconv.Itoa(pt.Expected),
					strconv.Itoa(pt.Actual),
					string(p.Pace),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeWorkerProgressTable prints one summary row per worker, plus the daily curve
// when a single worker is shown.
func writeWorkerProgressTable(writer io.Writer, progress []schema.WorkerProgress, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Worker", "Start", "Days", "Expected", "Actual", "Gap", "Pace"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxTableWorkerWidth(cfg)
	var data [][]string
	for _, p := range schema.EnrichProgress(progress) {
		start, expected, actual := "-", "-", "-"
		if len(p.Points) > 0 {
			last := p.Points[len(p.Points)-1]
			start = schema.FormatDay(p.Start)
			expected = strconv.Itoa(last.Expected)
			actual = strconv.Itoa(last.Actual)
		}
		data = append(data, []string{
			contract.TruncateWorker(p.Worker, maxWidth),
			start,
			strconv.Itoa(len(p.Points)),
			expected,
			actual,
			formatGap(p.Gap),
			paceLabel(p.Pace, cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(progress) == 1 && len(progress[0].Points) > 0 {
		if err := writePointsTable(writer, progress[0].Points, len(progress[0].Points)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Showing %d workers through %s\n", len(progress), schema.FormatDay(cfg.Horizon)); err != nil {
		return err
	}
	return writeFooter(writer, cfg, duration)
}

// writePointsTable prints a curve day by day. Actual values past actualPoints are left blank.
func writePointsTable(writer io.Writer, points []schema.ProgressPoint, actualPoints int) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Date", "Expected", "Actual"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, pt := range points {
		actual := ""
		if i < actualPoints {
			actual = strconv.Itoa(pt.Actual)
		}
		data = append(data, []string{schema.FormatDay(pt.Date), strconv.Itoa(pt.Expected), actual})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintTeamProgress outputs the team curve, dispatching based on the output format configured.
func PrintTeamProgress(team schema.TeamProgress, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, team)
		}, "Wrote JSON team progress"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVTeamProgress(w, team)
		}, "Wrote CSV team progress"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertProgress(teamWorker, team.Points, team.ActualPoints, team.Pace)
		if err := writeParquet(cfg.OutputFile, rows, "Wrote Parquet team progress"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTeamProgressTable(w, team, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVTeamProgress writes one row per business day; actual is empty past the last completion.
func writeCSVTeamProgress(w io.Writer, team schema.TeamProgress) error {
	header := []string{"date", "expected", "actual"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, pt := range team.Points {
			actual := ""
			if i < team.ActualPoints {
				actual = strconv.Itoa(pt.Actual)
			}
			if err := cw.Write([]string{schema.FormatDay(pt.Date), strconv.Itoa(pt.Expected), actual}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeTeamProgressTable prints the team curve and its totals.
func writeTeamProgressTable(writer io.Writer, team schema.TeamProgress, cfg *contract.Config, duration time.Duration) error {
	if err := writePointsTable(writer, team.Points, team.ActualPoints); err != nil {
		return err
	}

	last := "none"
	if team.LastCompletion != nil {
		last = schema.FormatDay(*team.LastCompletion)
	}
	if _, err := fmt.Fprintf(writer, "Completed %d of %d tasks (last completion: %s). Pace: %s\n",
		team.Completed, team.TotalTasks, last, paceLabel(team.Pace, cfg)); err != nil {
		return err
	}
	return writeFooter(writer, cfg, duration)
}
