package bench

import (
	"bytes"
	"testing"

	"github.com/kegliz/qalloc/qc/alloc/driver"
)

func TestDepsBuilders(t *testing.T) {
	for depsType := range StandardDeps {
		t.Run(string(depsType), func(t *testing.T) {
			deps, err := BuildDeps(depsType, 6)
			if err != nil {
				t.Fatalf("failed to build %s deps: %v", depsType, err)
			}
			if len(deps) == 0 {
				t.Errorf("%s deps produced no dependencies for 6 qubits", depsType)
			}
		})
	}
}

func TestBuildTopologySizes(t *testing.T) {
	for _, topo := range AllTopologies {
		g := BuildTopology(topo, 8)
		if g.Size() < 8 {
			t.Errorf("%s topology: got size %d, want >= 8", topo, g.Size())
		}
	}
}

func TestGridDimsCoversRequestedSize(t *testing.T) {
	for _, size := range []int{1, 4, 6, 7, 16} {
		rows, cols := gridDims(size)
		if rows*cols < size {
			t.Errorf("gridDims(%d) = (%d, %d), product %d < requested size", size, rows, cols, rows*cols)
		}
		if rows > cols {
			t.Errorf("gridDims(%d) = (%d, %d), expected rows <= cols", size, rows, cols)
		}
	}
}

func TestRunSingleBothStrategies(t *testing.T) {
	for _, strategy := range driver.DefaultRegistry().List() {
		t.Run(strategy, func(t *testing.T) {
			cfg := BenchmarkConfig{
				Strategy:     strategy,
				Topology:     LineTopology,
				TopologySize: 6,
				Deps:         ChainDeps,
				Qubits:       6,
				Limits:       DefaultResourceLimits,
			}
			res := RunSingle(nil, cfg)
			if !res.Success {
				t.Fatalf("run failed: %s", res.Error)
			}
			if res.ResourceUsage.Qubits != 6 {
				t.Errorf("got qubits %d, want 6", res.ResourceUsage.Qubits)
			}
		})
	}
}

func TestRunSingleRejectsOverLimitQubits(t *testing.T) {
	cfg := BenchmarkConfig{
		Strategy:     "dp",
		Topology:     LineTopology,
		TopologySize: 4,
		Deps:         ChainDeps,
		Qubits:       4,
		Limits:       ResourceLimits{MaxQubits: 2, MaxDeps: 100},
	}
	res := RunSingle(nil, cfg)
	if res.Success {
		t.Fatal("expected run to fail resource limits, got success")
	}
	if len(res.LimitsExceeded) == 0 {
		t.Error("expected LimitsExceeded to be populated")
	}
}

func TestRunSingleUnknownStrategy(t *testing.T) {
	cfg := BenchmarkConfig{
		Strategy:     "nonexistent",
		Topology:     LineTopology,
		TopologySize: 4,
		Deps:         ChainDeps,
		Qubits:       4,
		Limits:       DefaultResourceLimits,
	}
	res := RunSingle(nil, cfg)
	if res.Success {
		t.Fatal("expected run to fail for unknown strategy")
	}
}

func TestSuiteRunAndReport(t *testing.T) {
	suite := NewSuite().
		WithStrategies("dp", "bounded-si").
		WithTopologies(LineTopology, RingTopology).
		WithDeps(ChainDeps, StarDeps).
		WithSizes(4, 6)

	results := suite.Run()
	wantConfigs := len(suite.Configs())
	if len(results) != wantConfigs {
		t.Fatalf("got %d results, want %d", len(results), wantConfigs)
	}

	reporter := NewReporter()
	reporter.AddResults(results)
	report := reporter.GenerateReport()

	if report.Summary.TotalRuns != wantConfigs {
		t.Errorf("summary TotalRuns = %d, want %d", report.Summary.TotalRuns, wantConfigs)
	}
	if _, ok := report.Summary.ByStrategy["dp"]; !ok {
		t.Error("expected ByStrategy to include dp")
	}
	if _, ok := report.Summary.ByStrategy["bounded-si"]; !ok {
		t.Error("expected ByStrategy to include bounded-si")
	}

	var buf bytes.Buffer
	if err := reporter.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty JSON report")
	}

	var summaryBuf bytes.Buffer
	reporter.PrintSummary(&summaryBuf)
	if summaryBuf.Len() == 0 {
		t.Error("expected non-empty human-readable summary")
	}
}

func BenchmarkDPAllocatorLineChain(b *testing.B) {
	cfg := BenchmarkConfig{
		Strategy:     "dp",
		Topology:     LineTopology,
		TopologySize: 6,
		Deps:         ChainDeps,
		Qubits:       6,
		Limits:       DefaultResourceLimits,
	}
	for i := 0; i < b.N; i++ {
		RunSingle(b, cfg)
	}
}

func BenchmarkBoundedSIGridAllToAll(b *testing.B) {
	cfg := BenchmarkConfig{
		Strategy:     "bounded-si",
		Topology:     GridTopology,
		TopologySize: 9,
		Deps:         AllToAllDeps,
		Qubits:       9,
		Limits:       DefaultResourceLimits,
	}
	for i := 0; i < b.N; i++ {
		RunSingle(b, cfg)
	}
}
