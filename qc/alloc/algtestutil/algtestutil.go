// Package algtestutil provides testing utilities and constants shared by
// the qc/alloc/... test suites, mirroring qc/testutil's role for the
// simulator-facing packages: centralize common fixtures and configuration
// so each allocator package's tests don't redeclare the same chain-deps
// literal or line-graph construction.
package algtestutil

import (
	"context"
	"testing"
	"time"

	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
	"github.com/stretchr/testify/require"
)

// Test constants for consistent allocator test configuration, mirroring
// qc/testutil's const block.
const (
	DefaultTestTimeout = 10 * time.Second
	LongTestTimeout    = 30 * time.Second

	// DefaultQubits/SmallQubits/LargeQubits size fixture programs.
	DefaultQubits = 4
	SmallQubits   = 2
	LargeQubits   = 10

	// DefaultNMax/DefaultBeamWidth reproduce the packages' own defaults so
	// tests exercising a specific strategy boundary can express it in
	// terms of this constant rather than a magic number.
	DefaultNMax      = 8
	DefaultBeamWidth = 16

	// DefaultSeed seeds a reproducible *rand.Rand for RandomFinder fixtures.
	DefaultSeed = 42
)

// AllocTestConfig holds configuration for an allocator test scenario,
// mirroring qc/testutil.TestConfig.
type AllocTestConfig struct {
	Qubits    int
	NMax      int
	BeamWidth int
	Seed      int64
	Timeout   time.Duration
}

// Predefined test configurations, mirroring qc/testutil's predefined
// TestConfig values.
var (
	QuickAllocConfig = AllocTestConfig{
		Qubits:    SmallQubits,
		NMax:      DefaultNMax,
		BeamWidth: DefaultBeamWidth,
		Seed:      DefaultSeed,
		Timeout:   DefaultTestTimeout,
	}

	StandardAllocConfig = AllocTestConfig{
		Qubits:    DefaultQubits,
		NMax:      DefaultNMax,
		BeamWidth: DefaultBeamWidth,
		Seed:      DefaultSeed,
		Timeout:   DefaultTestTimeout,
	}

	StressAllocConfig = AllocTestConfig{
		Qubits:    LargeQubits,
		NMax:      DefaultNMax, // deliberately below LargeQubits to force bounded-si
		BeamWidth: DefaultBeamWidth,
		Seed:      DefaultSeed,
		Timeout:   LongTestTimeout,
	}
)

// ChainDeps returns a dependency set linking program qubit i to i+1 in
// sequence for n qubits, the fixture most allocator tests reach for (see
// qc/alloc/bsi, qc/alloc/dp, qc/alloc/tokenswap test files).
func ChainDeps(n int) mapping.DepsSet {
	if n < 2 {
		n = 2
	}
	deps := make(mapping.DepsSet, 0, n-1)
	for i := 0; i < n-1; i++ {
		deps = append(deps, mapping.Dep{From: i, To: i + 1})
	}
	return deps
}

// StarDeps returns a dependency set routing every other qubit through
// qubit 0.
func StarDeps(n int) mapping.DepsSet {
	if n < 2 {
		n = 2
	}
	deps := make(mapping.DepsSet, 0, n-1)
	for i := 1; i < n; i++ {
		deps = append(deps, mapping.Dep{From: 0, To: i})
	}
	return deps
}

// BellDeps returns the single dependency a 2-qubit Bell-state program
// needs: H(0) then CNOT(0,1), so only the CNOT imposes a coupling
// requirement.
func BellDeps() mapping.DepsSet {
	return mapping.DepsSet{{From: 0, To: 1}}
}

// LineGraph builds an n-qubit line coupling graph, a thin alias over
// arch.Line kept here so allocator test files can import one package for
// both the topology and the matching dependency fixture.
func LineGraph(n int) *arch.Graph { return arch.Line(n) }

// IdentityAssign returns the Assign {0, 1, ..., n-1}: program qubit i
// starts on physical qubit i, the seed most dp/bsi tests use when they
// don't care about the MappingFinder's choice.
func IdentityAssign(n int) mapping.Assign {
	a := make(mapping.Assign, n)
	for i := range a {
		a[i] = i
	}
	return a
}

// RequireFullInjectiveMapping asserts m is both Full and Injective, the
// pair of invariants every allocator Solve result must satisfy end to end.
func RequireFullInjectiveMapping(t *testing.T, m mapping.Mapping) {
	t.Helper()
	require.True(t, m.Full(), "mapping must be full (every program qubit assigned)")
	require.True(t, m.Injective(), "mapping must be injective (no two program qubits share a physical qubit)")
}

// WithTimeout mirrors qc/testutil.WithTimeout for allocator tests that need
// a bounded context (e.g. driving a Runner via a goroutine with a deadline).
func WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
