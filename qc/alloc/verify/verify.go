// Package verify is a test-only helper grounding spec property 1
// (Feasibility) and a statevector-level sanity check on top of the
// teacher's itsubaki/q binding (qc/simulator/itsu). It is never imported
// by a runtime allocation path — only by allocator tests that want more
// confidence than a structural swap-sequence check gives.
package verify

import (
	"fmt"
	"sort"

	"github.com/kegliz/qalloc/qc/alloc/driver"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
	"github.com/kegliz/qalloc/qc/circuit"
	"github.com/kegliz/qalloc/qc/dag"
	"github.com/kegliz/qalloc/qc/simulator/itsu"
)

// DefaultShots is the sample count CompareHistograms uses when the
// caller doesn't specify one.
const DefaultShots = 2048

// CheckFeasible replays sol.Initial plus every inserted swap against the
// ArchGraph and confirms each dependency's two program qubits land on a
// physically coupled pair at the moment its gate executes — spec
// property 1, checked structurally rather than by simulation.
func CheckFeasible(g *arch.Graph, sol *driver.Solution, deps mapping.DepsSet) error {
	cur := sol.Initial.Clone()
	for i := 0; i < deps.Len(); i++ {
		for _, sw := range sol.PerDepSwaps[i] {
			// PerDepSwaps carries inserted-SWAP program-qubit pairs;
			// applying one exchanges which physical qubit each program
			// qubit currently occupies.
			pu, pv := cur[sw.From], cur[sw.To]
			cur[sw.From], cur[sw.To] = pv, pu
		}
		from, to := deps.At(i)
		u, v := cur[from], cur[to]
		if !g.HasEdgeUndirected(u, v) {
			return fmt.Errorf("verify: dependency %d (prog %d,%d) lands on non-adjacent physical qubits %d,%d", i, from, to, u, v)
		}
	}
	return nil
}

// CompareHistograms builds the logical circuit (c as given) and a
// program-qubit-indexed augmented circuit (c with sol.PerDepSwaps'
// SWAP gates inserted immediately before each two-qubit dependency gate,
// per spec §6 insertSwapBefore), simulates both with itsu over shots
// runs, and reports whether their measurement histograms agree. Since
// both circuits measure into classical bits indexed by program qubit,
// no relabeling is needed at comparison time — the whole point of
// tracking sol.Initial through the swap insertion is that the reported
// outcome stays addressed by program qubit regardless of how the
// program qubits were physically shuffled in between.
func CompareHistograms(c circuit.Circuit, sol *driver.Solution, deps mapping.DepsSet, shots int) (bool, map[string]int, map[string]int, error) {
	if shots <= 0 {
		shots = DefaultShots
	}

	logical, err := buildAugmented(c, nil, deps)
	if err != nil {
		return false, nil, nil, fmt.Errorf("verify: building logical circuit: %w", err)
	}
	augmented, err := buildAugmented(c, sol, deps)
	if err != nil {
		return false, nil, nil, fmt.Errorf("verify: building augmented circuit: %w", err)
	}

	logHist, err := histogram(logical, shots)
	if err != nil {
		return false, nil, nil, fmt.Errorf("verify: simulating logical circuit: %w", err)
	}
	augHist, err := histogram(augmented, shots)
	if err != nil {
		return false, nil, nil, fmt.Errorf("verify: simulating augmented circuit: %w", err)
	}

	return histogramsAgree(logHist, augHist, shots), logHist, augHist, nil
}

// buildAugmented replays c's operations into a fresh DAG. If sol is nil,
// it is a pure copy (the logical reference circuit). If sol is non-nil,
// the SWAP gates of sol.PerDepSwaps[i] are inserted immediately before
// the i-th two-qubit dependency gate, exactly as insertSwapBefore would.
// Every qubit keeps its original program-qubit index throughout — this
// build stays entirely in program-qubit space, spec §6's external view.
func buildAugmented(c circuit.Circuit, sol *driver.Solution, deps mapping.DepsSet) (circuit.Circuit, error) {
	d := dag.New(c.Qubits(), c.Clbits())
	depIdx := 0
	for _, op := range c.Operations() {
		if sol != nil && depIdx < deps.Len() && isDepGate(op, deps, depIdx) {
			for _, sw := range sol.PerDepSwaps[depIdx] {
				if err := d.AddGate(swapGate{}, []int{sw.From, sw.To}); err != nil {
					return nil, err
				}
			}
			depIdx++
		}
		if err := replay(d, op); err != nil {
			return nil, err
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return circuit.FromDAG(d), nil
}

func isDepGate(op circuit.Operation, deps mapping.DepsSet, depIdx int) bool {
	if len(op.Qubits) != 2 || op.G.Name() == "MEASURE" {
		return false
	}
	from, to := deps.At(depIdx)
	a, b := op.Qubits[0], op.Qubits[1]
	return (a == from && b == to) || (a == to && b == from)
}

func replay(d *dag.DAG, op circuit.Operation) error {
	if op.G.Name() == "MEASURE" {
		return d.AddMeasure(op.Qubits[0], op.Cbit)
	}
	return d.AddGate(op.G, op.Qubits)
}

// swapGate is a minimal gate.Gate implementation for inserted routing
// SWAPs, so verify doesn't need to depend on qc/gate's exact SWAP
// constructor shape beyond the Gate interface itself.
type swapGate struct{}

func (swapGate) Name() string       { return "SWAP" }
func (swapGate) QubitSpan() int     { return 2 }
func (swapGate) DrawSymbol() string { return "x" }
func (swapGate) Targets() []int     { return []int{0, 1} }
func (swapGate) Controls() []int    { return nil }

// histogram runs c for shots shots through the teacher's itsu backend
// (qc/simulator/itsu.ItsuOneShotRunner.RunBatch) and tallies the resulting
// classical bit-strings. Delegating to itsu rather than re-dispatching
// gates here means verify exercises the same simulator the rest of the
// module registers as a runnable backend, instead of carrying a second,
// parallel gate-dispatch switch.
func histogram(c circuit.Circuit, shots int) (map[string]int, error) {
	runner := itsu.NewItsuOneShotRunner()
	results, err := runner.RunBatch(c, shots)
	if err != nil {
		return nil, fmt.Errorf("verify: simulating circuit: %w", err)
	}
	hist := make(map[string]int, len(results))
	for _, r := range results {
		hist[r]++
	}
	return hist, nil
}

// histogramsAgree reports whether two histograms' per-key frequencies
// agree within a loose statistical tolerance (5 percentage points),
// treating a key missing from one side as frequency 0. shots scales the
// tolerance; both histograms are expected to have been sampled with the
// same shot count.
func histogramsAgree(a, b map[string]int, shots int) bool {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	const tolerance = 0.05
	for _, k := range sorted {
		fa := float64(a[k]) / float64(shots)
		fb := float64(b[k]) / float64(shots)
		if diff := fa - fb; diff > tolerance || diff < -tolerance {
			return false
		}
	}
	return true
}
