package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Report contains comprehensive benchmark results, grounded on
// qc/benchmark.BenchmarkReport.
type Report struct {
	Timestamp time.Time         `json:"timestamp"`
	Results   []BenchmarkResult `json:"results"`
	Summary   Summary           `json:"summary"`
}

// Summary provides aggregated statistics, grounded on
// qc/benchmark.BenchmarkSummary — ByRunner/ByCircuit/ByScenario there
// become ByStrategy/ByDeps/ByTopologySize here.
type Summary struct {
	TotalRuns       int                      `json:"total_runs"`
	SuccessfulRuns  int                      `json:"successful_runs"`
	FailedRuns      int                      `json:"failed_runs"`
	AverageDuration time.Duration            `json:"average_duration"`
	ByStrategy      map[string]StrategyStats `json:"by_strategy"`
	ByDeps          map[string]DepsStats     `json:"by_deps"`
	ByTopologySize  map[int]SizeStats        `json:"by_topology_size"`
}

// StrategyStats aggregates results for one allocator strategy.
type StrategyStats struct {
	Name            string        `json:"name"`
	TotalRuns       int           `json:"total_runs"`
	SuccessfulRuns  int           `json:"successful_runs"`
	AverageDuration time.Duration `json:"average_duration"`
	AverageCost     float64       `json:"average_cost"`
	AverageSwaps    float64       `json:"average_swaps"`
}

// DepsStats aggregates results for one dependency shape.
type DepsStats struct {
	Type            DepsType      `json:"type"`
	TotalRuns       int           `json:"total_runs"`
	SuccessfulRuns  int           `json:"successful_runs"`
	AverageDuration time.Duration `json:"average_duration"`
}

// SizeStats aggregates results for one topology size, the axis that
// replaces qc/benchmark's execution-scenario axis: for an allocator, how
// the strategy scales with coupling-graph size is the more meaningful
// dimension than serial/parallel/batch execution mode.
type SizeStats struct {
	Size            int           `json:"size"`
	TotalRuns       int           `json:"total_runs"`
	SuccessfulRuns  int           `json:"successful_runs"`
	AverageDuration time.Duration `json:"average_duration"`
	AverageCost     float64       `json:"average_cost"`
}

// Reporter collects results and builds a Report, grounded on
// qc/benchmark.BenchmarkReporter.
type Reporter struct {
	results []BenchmarkResult
}

func NewReporter() *Reporter {
	return &Reporter{results: make([]BenchmarkResult, 0)}
}

func (r *Reporter) AddResult(result BenchmarkResult) {
	r.results = append(r.results, result)
}

func (r *Reporter) AddResults(results []BenchmarkResult) {
	r.results = append(r.results, results...)
}

func (r *Reporter) GenerateReport() Report {
	return Report{
		Timestamp: time.Now(),
		Results:   r.results,
		Summary:   r.generateSummary(),
	}
}

func (r *Reporter) generateSummary() Summary {
	summary := Summary{
		ByStrategy:     make(map[string]StrategyStats),
		ByDeps:         make(map[string]DepsStats),
		ByTopologySize: make(map[int]SizeStats),
	}

	var totalDuration time.Duration
	strategyStats := make(map[string]*StrategyStats)
	strategyCost := make(map[string]int)
	strategySwaps := make(map[string]int)
	depsStats := make(map[string]*DepsStats)
	sizeStats := make(map[int]*SizeStats)
	sizeCost := make(map[int]int)
	strategyDuration := make(map[string]time.Duration)
	depsDuration := make(map[string]time.Duration)
	sizeDuration := make(map[int]time.Duration)

	for _, res := range r.results {
		summary.TotalRuns++
		totalDuration += res.Duration
		if res.Success {
			summary.SuccessfulRuns++
		} else {
			summary.FailedRuns++
		}

		if _, ok := strategyStats[res.Strategy]; !ok {
			strategyStats[res.Strategy] = &StrategyStats{Name: res.Strategy}
		}
		ss := strategyStats[res.Strategy]
		ss.TotalRuns++
		strategyDuration[res.Strategy] += res.Duration
		if res.Success {
			ss.SuccessfulRuns++
			strategyCost[res.Strategy] += res.Cost
			strategySwaps[res.Strategy] += res.SwapCount
		}

		depsKey := string(res.Deps)
		if _, ok := depsStats[depsKey]; !ok {
			depsStats[depsKey] = &DepsStats{Type: res.Deps}
		}
		ds := depsStats[depsKey]
		ds.TotalRuns++
		depsDuration[depsKey] += res.Duration
		if res.Success {
			ds.SuccessfulRuns++
		}

		if _, ok := sizeStats[res.TopologySize]; !ok {
			sizeStats[res.TopologySize] = &SizeStats{Size: res.TopologySize}
		}
		sz := sizeStats[res.TopologySize]
		sz.TotalRuns++
		sizeDuration[res.TopologySize] += res.Duration
		if res.Success {
			sz.SuccessfulRuns++
			sizeCost[res.TopologySize] += res.Cost
		}
	}

	if summary.TotalRuns > 0 {
		summary.AverageDuration = totalDuration / time.Duration(summary.TotalRuns)
	}

	for name, stat := range strategyStats {
		if stat.SuccessfulRuns > 0 {
			stat.AverageCost = float64(strategyCost[name]) / float64(stat.SuccessfulRuns)
			stat.AverageSwaps = float64(strategySwaps[name]) / float64(stat.SuccessfulRuns)
		}
		if stat.TotalRuns > 0 {
			stat.AverageDuration = strategyDuration[name] / time.Duration(stat.TotalRuns)
		}
		summary.ByStrategy[name] = *stat
	}
	for name, stat := range depsStats {
		if stat.TotalRuns > 0 {
			stat.AverageDuration = depsDuration[name] / time.Duration(stat.TotalRuns)
		}
		summary.ByDeps[name] = *stat
	}
	for size, stat := range sizeStats {
		if stat.SuccessfulRuns > 0 {
			stat.AverageCost = float64(sizeCost[size]) / float64(stat.SuccessfulRuns)
		}
		if stat.TotalRuns > 0 {
			stat.AverageDuration = sizeDuration[size] / time.Duration(stat.TotalRuns)
		}
		summary.ByTopologySize[size] = *stat
	}

	return summary
}

// WriteJSON writes the report as JSON, grounded on
// qc/benchmark.BenchmarkReporter.WriteJSON.
func (r *Reporter) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.GenerateReport())
}

// PrintSummary prints a human-readable summary, grounded on
// qc/benchmark.BenchmarkReporter.PrintSummary.
func (r *Reporter) PrintSummary(w io.Writer) {
	report := r.GenerateReport()
	fmt.Fprintf(w, "Allocator Strategy Benchmark Report\n")
	fmt.Fprintf(w, "====================================\n")
	fmt.Fprintf(w, "Total runs: %d (%d successful, %d failed)\n",
		report.Summary.TotalRuns, report.Summary.SuccessfulRuns, report.Summary.FailedRuns)
	fmt.Fprintf(w, "Average duration: %v\n\n", report.Summary.AverageDuration)

	fmt.Fprintf(w, "By strategy:\n")
	for name, stat := range report.Summary.ByStrategy {
		fmt.Fprintf(w, "  %-12s runs=%-4d avg_cost=%.1f avg_swaps=%.1f avg_duration=%v\n",
			name, stat.TotalRuns, stat.AverageCost, stat.AverageSwaps, stat.AverageDuration)
	}

	fmt.Fprintf(w, "By dependency shape:\n")
	for name, stat := range report.Summary.ByDeps {
		fmt.Fprintf(w, "  %-12s runs=%-4d avg_duration=%v\n", name, stat.TotalRuns, stat.AverageDuration)
	}

	fmt.Fprintf(w, "By topology size:\n")
	for size, stat := range report.Summary.ByTopologySize {
		fmt.Fprintf(w, "  size=%-4d runs=%-4d avg_cost=%.1f avg_duration=%v\n",
			size, stat.TotalRuns, stat.AverageCost, stat.AverageDuration)
	}
}
