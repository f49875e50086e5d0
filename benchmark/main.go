// Package main provides a performance benchmarking tool for the crewcast CLI.
// It generates synthetic operator event and task exports of increasing size,
// runs each forecast command multiple times, treating the first successful
// cached run as cold and averaging the rest as warm, and writes the timings
// to a CSV file for performance analysis and documentation.
//
// Prerequisites:
// - crewcast binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic datasets are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// Dataset describes one synthetic crew.
type Dataset struct {
	Name    string
	Workers int
	Days    int
	Tasks   int // Per worker
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Datasets    []Dataset
	Start       time.Time
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets: []Dataset{
			{Name: "small", Workers: 10, Days: 90, Tasks: 5},
			{Name: "medium", Workers: 200, Days: 365, Tasks: 20},
			{Name: "large", Workers: 2000, Days: 730, Tasks: 40},
		},
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using crewcast cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("crewcast", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the crewcast binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("crewcast"); err != nil {
		return fmt.Errorf("crewcast binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks generates every dataset and times each command against it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, ds := range config.Datasets {
		fmt.Printf("Generating %s (%d workers, %d days)\n", ds.Name, ds.Workers, ds.Days)

		eventsPath, tasksPath, err := generateDataset(config, ds)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", ds.Name, err)
		}
		end := config.Start.AddDate(0, 0, ds.Days-1).Format("2006-01-02")

		results = append(results,
			runBenchmarkSuite(config, ds.Name, "intervals", []string{eventsPath, "--end", end}),
			runBenchmarkSuite(config, ds.Name, "daily", []string{eventsPath, "--end", end}),
			runBenchmarkSuite(config, ds.Name, "team", []string{eventsPath, "--tasks", tasksPath, "--end", end}),
		)
	}

	return results, nil
}

// generateDataset writes a deterministic events CSV and tasks CSV for a dataset
func generateDataset(config BenchmarkConfig, ds Dataset) (eventsPath, tasksPath string, err error) {
	rng := rand.New(rand.NewPCG(uint64(ds.Workers), uint64(ds.Days)))

	eventsPath = filepath.Join(config.WorkDir, ds.Name+"_events.csv")
	err = writeCSV(eventsPath, []string{"data", "evento", "usuario"}, func(emit func([]string) error) error {
		for w := range ds.Workers {
			worker := "worker-" + strconv.Itoa(w)
			day := rng.IntN(ds.Days / 4)
			for day < ds.Days {
				if err := emit([]string{dayString(config.Start, day), "Entrada", worker}); err != nil {
					return err
				}
				day += 1 + rng.IntN(60)
				if day >= ds.Days {
					break
				}
				if err := emit([]string{dayString(config.Start, day), "Saida", worker}); err != nil {
					return err
				}
				day += 1 + rng.IntN(30)
			}
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	tasksPath = filepath.Join(config.WorkDir, ds.Name+"_tasks.csv")
	err = writeCSV(tasksPath, []string{"id", "nome", "usuario", "data_inicio", "data_fim", "situacao"}, func(emit func([]string) error) error {
		id := 0
		for w := range ds.Workers {
			worker := "worker-" + strconv.Itoa(w)
			for range ds.Tasks {
				id++
				start := rng.IntN(ds.Days)
				finish, status := "", "Em execução"
				if rng.IntN(4) > 0 {
					finish = dayString(config.Start, start+rng.IntN(10)) + " 17:00:00"
					status = "Finalizada"
				}
				row := []string{strconv.Itoa(id), "task " + strconv.Itoa(id), worker, dayString(config.Start, start) + " 08:00:00", finish, status}
				if err := emit(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return eventsPath, tasksPath, err
}

func dayString(start time.Time, offset int) string {
	return start.AddDate(0, 0, offset).Format("2006-01-02")
}

// writeCSV creates path and streams rows produced by fill into it
func writeCSV(path string, header []string, fill func(emit func([]string) error) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := fill(writer.Write); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset, command string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a crewcast command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command string, extraArgs []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command, "--cache-backend", cacheBackend}, extraArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("crewcast", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Forecast completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("crewcast_benchmark_%s.csv", timestamp))

	return writeCSV(filename, []string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}, func(emit func([]string) error) error {
		for _, result := range results {
			if err := emit([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		fmt.Printf("Results saved to %s\n", filename)
		return nil
	})
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "intervals", "Intervals:")
	printCommandSummary(results, "daily", "Daily Projection:")
	printCommandSummary(results, "team", "Team Progress:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
