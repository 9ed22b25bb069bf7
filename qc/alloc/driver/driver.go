// Package driver implements the allocator driver of spec §4.7: pure
// orchestration over a chosen MappingFinder and a chosen allocator
// strategy (the exact DP allocator or the bounded subgraph-isomorphism
// solver), plus a Registry for strategy selection mirroring
// qc/alloc/finder's name->factory registry.
package driver

import (
	"fmt"
	"sync"

	"github.com/kegliz/qalloc/internal/config"
	"github.com/kegliz/qalloc/qc/alloc"
	"github.com/kegliz/qalloc/qc/alloc/bsi"
	"github.com/kegliz/qalloc/qc/alloc/dp"
	"github.com/kegliz/qalloc/qc/alloc/finder"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
	"github.com/kegliz/qalloc/qc/wgraph"
)

// Solution is the driver's unified output across both allocator
// strategies: the seed Mapping for prologue emission (spec §6
// `Solution.initial`), the per-dependency program-qubit swaps to insert
// via `insertSwapBefore`, the total cost, and the final layout.
type Solution struct {
	Initial      mapping.Mapping `json:"initial"`
	FinalMapping mapping.Mapping `json:"final_mapping"`
	PerDepSwaps  [][]mapping.Dep `json:"per_dep_swaps"`
	Cost         int             `json:"cost"`
	Strategy     string          `json:"strategy"`
}

// Runner is the common contract a registered allocator strategy
// implements. initial is the MappingFinder's seed; bounded-SI does not
// consume it (§4.6 step 1 fixes its own empty starting state by
// construction) but still receives it for interface uniformity and so a
// future strategy can use it.
type Runner interface {
	Name() string
	Run(g *arch.Graph, initial mapping.Mapping, deps mapping.DepsSet) (*Solution, error)
}

// Options configures strategy construction and auto-selection.
type Options struct {
	// NMax bounds the DP allocator's permutation space, spec §5. <=0
	// selects dp.DefaultNMax.
	NMax int
	// BeamWidth is the bounded-SI beam width K, spec §4.6. <=0 selects
	// bsi.DefaultBeamWidth.
	BeamWidth int
	// SwapCost/RevCost override the DP allocator's per-swap and
	// per-reversal costs, spec §4.5. <=0 selects the package defaults.
	SwapCost int
	RevCost  int
}

// OptionsFromConfig reads driver Options from an internal/config.Config,
// the production wiring path for the overrides spec §4.5/§4.6 leave
// implementation-defined.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		NMax:      c.NMax(),
		BeamWidth: c.BeamWidth(),
		SwapCost:  c.SwapCost(),
		RevCost:   c.RevCost(),
	}
}

func (o Options) nMax() int {
	if o.NMax <= 0 {
		return dp.DefaultNMax
	}
	return o.NMax
}

// --- dp strategy ---

type dpRunner struct{ nMax, swapCost, revCost int }

func (dpRunner) Name() string { return "dp" }

func (r dpRunner) Run(g *arch.Graph, initial mapping.Mapping, deps mapping.DepsSet) (*Solution, error) {
	a, err := dp.NewAllocatorWithCosts(g, r.nMax, r.swapCost, r.revCost)
	if err != nil {
		return nil, err
	}
	sol, err := a.Solve(initial.Inverse(g.Size()), deps)
	if err != nil {
		return nil, err
	}
	return &Solution{
		Initial:      initial,
		FinalMapping: sol.FinalMapping,
		PerDepSwaps:  sol.PerDepSwaps,
		Cost:         sol.Cost,
		Strategy:     "dp",
	}, nil
}

// --- bounded-si strategy ---

type bsiRunner struct{ k int }

func (bsiRunner) Name() string { return "bounded-si" }

func (r bsiRunner) Run(g *arch.Graph, initial mapping.Mapping, deps mapping.DepsSet) (*Solution, error) {
	a := bsi.NewAllocator(g, r.k)
	sol, err := a.Solve(len(initial), deps)
	if err != nil {
		return nil, err
	}
	perDep := translateSwaps(sol.Initial.Inverse(g.Size()), sol.PerDepSwaps)
	return &Solution{
		Initial:      sol.Initial,
		FinalMapping: sol.FinalMapping,
		PerDepSwaps:  perDep,
		Cost:         sol.Cost,
		Strategy:     "bounded-si",
	}, nil
}

// translateSwaps replays a per-dependency physical swap path against an
// evolving Phys->Prog assignment, emitting the program-qubit pairs
// insertSwapBefore expects — the same output-translation technique
// qc/alloc/dp.Solve uses for its own physical->program step, reused here
// so both strategies hand the host identically-shaped swap callbacks.
func translateSwaps(initial mapping.Assign, perDepPhysical [][]mapping.Swap) [][]mapping.Dep {
	cur := initial.Clone()
	out := make([][]mapping.Dep, len(perDepPhysical))
	for i, path := range perDepPhysical {
		ds := make([]mapping.Dep, len(path))
		for j, sw := range path {
			ds[j] = mapping.Dep{From: cur[sw.U], To: cur[sw.V]}
			cur.Swap(sw.U, sw.V)
		}
		out[i] = ds
	}
	return out
}

// --- Registry ---

// Factory creates a new Runner for the given Options.
type Factory func(g *arch.Graph, opts Options) Runner

// Registry manages registration and creation of named allocator
// strategies. Grounded on qc/alloc/finder.Registry, itself grounded on
// the teacher's qc/simulator.RunnerRegistry: thread-safe name->factory
// map, deterministic errors, package-level default registry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var defaultRegistry = NewRegistry()

func init() {
	defaultRegistry.MustRegister("dp", func(_ *arch.Graph, opts Options) Runner {
		return dpRunner{nMax: opts.nMax(), swapCost: opts.SwapCost, revCost: opts.RevCost}
	})
	defaultRegistry.MustRegister("bounded-si", func(_ *arch.Graph, opts Options) Runner {
		k := opts.BeamWidth
		if k <= 0 {
			k = bsi.DefaultBeamWidth
		}
		return bsiRunner{k: k}
	})
}

// NewRegistry creates a new, empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register registers a strategy factory under name. Thread-safe.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("driver: name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("driver: factory cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("driver: %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is like Register but panics on failure.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(fmt.Sprintf("driver: failed to register %q: %v", name, err))
	}
}

// Create instantiates the strategy registered under name.
func (r *Registry) Create(name string, g *arch.Graph, opts Options) (Runner, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("driver: unknown strategy %q", name)
	}
	run := factory(g, opts)
	if run == nil {
		return nil, fmt.Errorf("driver: factory for %q returned nil", name)
	}
	return run, nil
}

// List returns all registered strategy names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns the package-level default strategy registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Pick selects a strategy name per spec §4.7's sizing default: "dp" when
// g.Size() <= opts.nMax(), else "bounded-si", unless pinned overrides the
// decision.
func Pick(g *arch.Graph, pinned string, opts Options) string {
	if pinned != "" {
		return pinned
	}
	if g.Size() <= opts.nMax() {
		return "dp"
	}
	return "bounded-si"
}

// Solve runs the full spec §4.7 sequence: seed via mf, pick (or honor a
// pinned) strategy, run it, and return the unified Solution. h may be nil
// (degrades WeightedPMFinder to an arbitrary deterministic assignment; see
// qc/alloc/finder).
func Solve(g *arch.Graph, nProg int, deps mapping.DepsSet, mf finder.MappingFinder, h *wgraph.Graph, pinned string, opts Options) (*Solution, error) {
	if nProg <= 0 || nProg > g.Size() {
		return nil, alloc.ErrInvalidInput
	}
	seed, err := mf.Find(g, nProg, h)
	if err != nil {
		return nil, err
	}
	name := Pick(g, pinned, opts)
	run, err := defaultRegistry.Create(name, g, opts)
	if err != nil {
		return nil, err
	}
	return run.Run(g, seed, deps)
}
