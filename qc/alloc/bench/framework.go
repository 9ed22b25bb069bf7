package bench

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"testing"
	"time"

	"github.com/kegliz/qalloc/qc/alloc/driver"
	"github.com/kegliz/qalloc/qc/alloc/finder"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
)

// ResourceLimits bounds a single benchmark run, grounded on
// qc/benchmark.ResourceLimits. MaxCircuitDepth there becomes MaxDeps here:
// the allocator has no notion of circuit depth, only a dependency count.
type ResourceLimits struct {
	MaxMemoryMB int64
	MaxDuration time.Duration
	MaxDeps     int
	MaxQubits   int
}

// DefaultResourceLimits mirrors qc/benchmark.DefaultResourceLimits, scaled
// to allocator-sized inputs rather than simulator-sized ones.
var DefaultResourceLimits = ResourceLimits{
	MaxMemoryMB: 500,
	MaxDuration: 30 * time.Second,
	MaxDeps:     200,
	MaxQubits:   64,
}

// BenchmarkConfig holds one point in the strategy x topology x deps-shape
// sweep, the bench-domain analogue of qc/benchmark.BenchmarkConfig.
type BenchmarkConfig struct {
	Strategy     string
	Topology     TopologyType
	TopologySize int
	Deps         DepsType
	Qubits       int
	Limits       ResourceLimits
}

// ResourceUsage tracks resource consumption during a run, grounded on
// qc/benchmark.ResourceUsage.
type ResourceUsage struct {
	StartMemory uint64        `json:"start_memory"`
	EndMemory   uint64        `json:"end_memory"`
	MemoryDelta int64         `json:"memory_delta"`
	GCCount     uint32        `json:"gc_count"`
	Duration    time.Duration `json:"duration"`
	DepsCount   int           `json:"deps_count"`
	Qubits      int           `json:"qubits"`
}

// BenchmarkResult contains the results and metadata from one run, grounded
// on qc/benchmark.BenchmarkResult.
type BenchmarkResult struct {
	Strategy       string        `json:"strategy"`
	Topology       TopologyType  `json:"topology"`
	TopologySize   int           `json:"topology_size"`
	Deps           DepsType      `json:"deps"`
	Success        bool          `json:"success"`
	Error          string        `json:"error,omitempty"`
	Duration       time.Duration `json:"duration"`
	Cost           int           `json:"cost"`
	SwapCount      int           `json:"swap_count"`
	ResourceUsage  ResourceUsage `json:"resource_usage"`
	LimitsExceeded []string      `json:"limits_exceeded,omitempty"`
}

// Suite configures and runs a sweep over strategies, topologies and deps
// shapes, a builder-pattern suite grounded on
// qc/benchmark.PluginBenchmarkSuite.
type Suite struct {
	strategies []string
	topologies []TopologyType
	deps       []DepsType
	sizes      []int
	limits     ResourceLimits
}

// NewSuite creates a Suite with default configuration: both registered
// allocator strategies, every topology, every deps shape, a small set of
// representative sizes.
func NewSuite() *Suite {
	return &Suite{
		strategies: driver.DefaultRegistry().List(),
		topologies: AllTopologies,
		deps:       []DepsType{ChainDeps, StarDeps, BrickDeps, AllToAllDeps},
		sizes:      []int{4, 8, 16},
		limits:     DefaultResourceLimits,
	}
}

func (s *Suite) WithStrategies(strategies ...string) *Suite {
	s.strategies = strategies
	return s
}

func (s *Suite) WithTopologies(topologies ...TopologyType) *Suite {
	s.topologies = topologies
	return s
}

func (s *Suite) WithDeps(deps ...DepsType) *Suite {
	s.deps = deps
	return s
}

func (s *Suite) WithSizes(sizes ...int) *Suite {
	s.sizes = sizes
	return s
}

func (s *Suite) WithLimits(limits ResourceLimits) *Suite {
	s.limits = limits
	return s
}

// Configs expands the Suite into the full cartesian product of benchmark
// points, each using its topology size as the program qubit count too, so
// every point allocates a full mapping; WithDeps selects dependency shapes
// only and does not set a separate program qubit count.
func (s *Suite) Configs() []BenchmarkConfig {
	var out []BenchmarkConfig
	for _, strat := range s.strategies {
		for _, topo := range s.topologies {
			for _, size := range s.sizes {
				for _, d := range s.deps {
					out = append(out, BenchmarkConfig{
						Strategy:     strat,
						Topology:     topo,
						TopologySize: size,
						Deps:         d,
						Qubits:       size,
						Limits:       s.limits,
					})
				}
			}
		}
	}
	return out
}

// validateComplexity checks a prepared run against its ResourceLimits,
// grounded on qc/benchmark.validateCircuitComplexity.
func validateComplexity(qubits int, deps mapping.DepsSet, limits ResourceLimits) []string {
	var violations []string
	if qubits > limits.MaxQubits {
		violations = append(violations, fmt.Sprintf("topology has %d qubits, limit is %d", qubits, limits.MaxQubits))
	}
	if len(deps) > limits.MaxDeps {
		violations = append(violations, fmt.Sprintf("dependency set has %d entries, limit is %d", len(deps), limits.MaxDeps))
	}
	return violations
}

// getMemoryUsage returns current memory statistics, grounded on
// qc/benchmark.getMemoryUsage.
func getMemoryUsage() (uint64, uint32) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.NumGC
}

// RunSingle executes one BenchmarkConfig against the real allocator driver
// and reports its cost and resource usage, grounded on
// qc/benchmark.RunSingleBenchmark's shape (memory baseline, GC before
// timing, b.ReportAllocs/ResetTimer) retargeted from a simulator Runner to
// an allocator driver.Runner.
func RunSingle(b *testing.B, cfg BenchmarkConfig) BenchmarkResult {
	result := BenchmarkResult{
		Strategy:     cfg.Strategy,
		Topology:     cfg.Topology,
		TopologySize: cfg.TopologySize,
		Deps:         cfg.Deps,
	}

	startMem, _ := getMemoryUsage()
	result.ResourceUsage.StartMemory = startMem
	runtime.GC()
	debug.FreeOSMemory()

	g := BuildTopology(cfg.Topology, cfg.TopologySize)
	deps, err := BuildDeps(cfg.Deps, cfg.Qubits)
	if err != nil {
		result.Error = fmt.Sprintf("failed to build dependency set: %v", err)
		return result
	}

	if violations := validateComplexity(cfg.Qubits, deps, cfg.Limits); len(violations) > 0 {
		result.LimitsExceeded = violations
		result.Error = fmt.Sprintf("run exceeds resource limits: %v", violations)
		return result
	}

	result.ResourceUsage.Qubits = cfg.Qubits
	result.ResourceUsage.DepsCount = len(deps)

	run, err := driver.DefaultRegistry().Create(cfg.Strategy, g, driver.Options{})
	if err != nil {
		result.Error = fmt.Sprintf("failed to create strategy %q: %v", cfg.Strategy, err)
		return result
	}

	mf := finder.NewRandomFinder(nil)
	seed, err := mf.Find(g, cfg.Qubits, nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to seed mapping: %v", err)
		return result
	}

	if b != nil {
		b.ReportAllocs()
		b.ResetTimer()
	}

	start := time.Now()
	sol, err := run.Run(g, seed, deps)
	result.Duration = time.Since(start)
	result.ResourceUsage.Duration = result.Duration

	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Cost = sol.Cost
	for _, path := range sol.PerDepSwaps {
		result.SwapCount += len(path)
	}

	endMem, gcCount := getMemoryUsage()
	result.ResourceUsage.EndMemory = endMem
	result.ResourceUsage.GCCount = gcCount
	result.ResourceUsage.MemoryDelta = int64(endMem) - int64(startMem)

	return result
}

// Run executes every config in the Suite and returns one BenchmarkResult
// per point, skipping the *testing.B allocation/timer hooks RunSingle uses
// when driven from an actual benchmark.
func (s *Suite) Run() []BenchmarkResult {
	configs := s.Configs()
	results := make([]BenchmarkResult, 0, len(configs))
	for _, cfg := range configs {
		results = append(results, RunSingle(nil, cfg))
	}
	return results
}
