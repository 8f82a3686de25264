// Package main provides a performance benchmarking tool for the genviz CLI.
// It measures dashboard build times across a set of manifests, running each
// manifest multiple times, treating the first successful run as cold and
// averaging the rest as warm, and generates CSV output for performance analysis.
//
// Prerequisites:
// - genviz binary installed and available in PATH
// - A directory of dashboard manifests (*.yaml or *.json), ideally pointing at remote exports
//
// Usage: go run benchmark/main.go [manifest-dir]
//
//	manifest-dir: Directory containing dashboard manifests
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Manifest    string
	Workers     int
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ManifestDir string
	Timeout     time.Duration
	Workers     []int
	NoCacheRuns int
	CacheRuns   int
	Manifests   []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [manifest-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		ManifestDir: os.Args[1],
		Timeout:     2 * time.Minute,
		Workers:     []int{1, 4, 8},
		NoCacheRuns: 3,
		CacheRuns:   4,
	}

	manifests, err := findManifests(config.ManifestDir)
	if err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}
	config.Manifests = manifests

	if _, err := exec.LookPath("genviz"); err != nil {
		fmt.Printf("Prerequisites check failed: genviz binary not found in PATH\n")
		os.Exit(1)
	}

	// Start from an empty source cache
	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("genviz", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// findManifests lists the dashboard manifests of dir in name order.
func findManifests(dir string) ([]string, error) {
	var manifests []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, matches...)
	}
	if len(manifests) == 0 {
		return nil, fmt.Errorf("no manifests found in %s", dir)
	}
	slices.Sort(manifests)
	return manifests, nil
}

// runBenchmarks executes the benchmark suite for every manifest and worker count.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d manifests, %v timeout, workers %v, no-cache: %d runs, cache: %d runs\n",
		len(config.Manifests), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, manifest := range config.Manifests {
		for _, workers := range config.Workers {
			results = append(results, runBenchmarkSuite(config, manifest, workers))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for one manifest.
func runBenchmarkSuite(config BenchmarkConfig, manifest string, workers int) BenchmarkResult {
	name := filepath.Base(manifest)
	fmt.Printf("Running %s with %d workers\n", name, workers)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, manifest, workers, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
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
		Manifest:    name,
		Workers:     workers,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark runs a dashboard numRuns times and returns the cold time and the warm times.
func runBenchmark(config BenchmarkConfig, manifest string, workers int, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		"dashboard",
		"--manifest", manifest,
		"--workers", fmt.Sprint(workers),
		"--cache-backend", cacheBackend,
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "genviz", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates a complete dashboard run.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Dashboard run") && strings.Contains(outputStr, "(0 failed)")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/genviz_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"manifest", "workers", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{result.Manifest, fmt.Sprint(result.Workers), result.NoCacheTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-24s w=%-2d: No-cache: %s, Cold: %s, Warm: %s\n",
			result.Manifest, result.Workers, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}
