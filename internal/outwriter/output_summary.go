package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/parquet"
	"github.com/huangsam/crewcast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTaskSummary outputs the task summary, dispatching based on the output format configured.
func PrintTaskSummary(summary schema.TaskSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON summary"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSummary(w, summary, fmtFloat, intFmt)
		}, "Wrote CSV summary"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, parquet.ConvertWorkerSummaries(summary.Workers), "Wrote Parquet summary"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTables(w, summary, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVSummary writes the per-worker breakdown.
func writeCSVSummary(w io.Writer, summary schema.TaskSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"worker", "tasks", "completed", "timed_tasks", "mean_business_days"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, ws := range summary.Workers {
			row := []string{
				ws.Worker,
				fmt.Sprintf(intFmt, ws.Tasks),
				fmt.Sprintf(intFmt, ws.Completed),
				fmt.Sprintf(intFmt, ws.TimedTasks),
				fmtFloat(ws.MeanBusinessDay),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// sortedStatuses orders statuses by count, then name.
func sortedStatuses(counts map[string]int) []string {
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool {
		if counts[statuses[i]] != counts[statuses[j]] {
			return counts[statuses[i]] > counts[statuses[j]]
		}
		return statuses[i] < statuses[j]
	})
	return statuses
}

// writeSummaryTables prints the status counts followed by the worker breakdown.
func writeSummaryTables(writer io.Writer, summary schema.TaskSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	statusTable := tablewriter.NewWriter(writer)
	statusTable.Header([]string{"Status", "Tasks"})
	statusTable.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var statusRows [][]string
	for _, s := range sortedStatuses(summary.StatusCounts) {
		statusRows = append(statusRows, []string{s, strconv.Itoa(summary.StatusCounts[s])})
	}
	if err := statusTable.Bulk(statusRows); err != nil {
		return err
	}
	if err := statusTable.Render(); err != nil {
		return err
	}

	workerTable := tablewriter.NewWriter(writer)
	workerTable.Header([]string{"Worker", "Tasks", "Completed", "Timed", "Mean Days"})
	workerTable.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	maxWidth := getMaxTableWorkerWidth(cfg)
	var workerRows [][]string
	for _, ws := range summary.Workers {
		workerRows = append(workerRows, []string{
			contract.TruncateWorker(ws.Worker, maxWidth),
			fmt.Sprintf(intFmt, ws.Tasks),
			fmt.Sprintf(intFmt, ws.Completed),
			fmt.Sprintf(intFmt, ws.TimedTasks),
			fmtFloat(ws.MeanBusinessDay),
		})
	}
	if err := workerTable.Bulk(workerRows); err != nil {
		return err
	}
	if err := workerTable.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Completed %d of %d tasks (%s%%)\n",
		summary.Completed, summary.TotalTasks, fmtFloat(summary.CompletionRate*100)); err != nil {
		return err
	}
	return writeFooter(writer, cfg, duration)
}
