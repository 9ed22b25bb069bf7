// Package bench adapts the teacher's quantum-backend benchmark framework
// (qc/benchmark) to the allocator domain: instead of benchmarking simulator
// runners across circuit types and execution scenarios, it benchmarks
// allocator strategies (dp, bounded-si) across coupling-graph topologies and
// dependency-structure shapes.
package bench

import (
	"github.com/kegliz/qalloc/qc/alloc/depsbridge"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/builder"
	"github.com/kegliz/qalloc/qc/circuit"
)

// DepsType categorizes the shape of a program's two-qubit dependency chain,
// mirroring the role qc/benchmark.CircuitType played for simulator runners:
// a small, fixed vocabulary of representative shapes rather than arbitrary
// user circuits.
type DepsType string

const (
	// ChainDeps links qubit i to i+1 in sequence: under the identity mapping
	// every dependency is already adjacent on a line or ring, while a grid
	// breaks the chain at each row end.
	ChainDeps DepsType = "chain"
	// StarDeps routes every other qubit through qubit 0, forcing heavy
	// reuse of a single hub vertex regardless of topology.
	StarDeps DepsType = "star"
	// BrickDeps alternates pairings like a brickwork entangling layer
	// ((0,1),(2,3),... then (1,2),(3,4),...), the shape a hardware-efficient
	// ansatz produces.
	BrickDeps DepsType = "brick"
	// AllToAllDeps pairs every qubit with every other qubit once, the
	// densest dependency set a given qubit count can produce.
	AllToAllDeps DepsType = "all-to-all"
)

// DepsBuilder constructs a circuit of the given qubit count exercising a
// DepsType, the bench-domain analogue of qc/benchmark.CircuitBuilder.
type DepsBuilder func(qubits int) builder.Builder

// StandardDeps mirrors qc/benchmark.StandardCircuits: a fixed map from type
// to builder, so a benchmark config can select a shape by name.
var StandardDeps = map[DepsType]DepsBuilder{
	ChainDeps:    buildChain,
	StarDeps:     buildStar,
	BrickDeps:    buildBrick,
	AllToAllDeps: buildAllToAll,
}

func buildChain(qubits int) builder.Builder {
	if qubits < 2 {
		qubits = 2
	}
	b := builder.New(builder.Q(qubits))
	for i := 0; i < qubits-1; i++ {
		b.CNOT(i, i+1)
	}
	return b
}

func buildStar(qubits int) builder.Builder {
	if qubits < 2 {
		qubits = 2
	}
	b := builder.New(builder.Q(qubits))
	for i := 1; i < qubits; i++ {
		b.CNOT(0, i)
	}
	return b
}

func buildBrick(qubits int) builder.Builder {
	if qubits < 2 {
		qubits = 2
	}
	b := builder.New(builder.Q(qubits))
	for i := 0; i+1 < qubits; i += 2 {
		b.CNOT(i, i+1)
	}
	for i := 1; i+1 < qubits; i += 2 {
		b.CNOT(i, i+1)
	}
	return b
}

func buildAllToAll(qubits int) builder.Builder {
	if qubits < 2 {
		qubits = 2
	}
	b := builder.New(builder.Q(qubits))
	for i := 0; i < qubits; i++ {
		for j := i + 1; j < qubits; j++ {
			b.CNOT(i, j)
		}
	}
	return b
}

// BuildDeps runs the named builder and bridges its DAG into a DepsSet via
// depsbridge, the same translation qservice.buildDeps performs for
// user-submitted circuits.
func BuildDeps(t DepsType, qubits int) (mapping.DepsSet, error) {
	b, ok := StandardDeps[t]
	if !ok {
		b = buildChain
	}
	d, err := b(qubits).BuildDAG()
	if err != nil {
		return nil, err
	}
	return depsbridge.FromDAG(d)
}

// BuildCircuit runs the named builder and returns the resulting Circuit
// directly, for callers that want the circuit itself (e.g. to render a
// diagram) rather than its bridged DepsSet. Builder values are single-use
// (BuildDAG/BuildCircuit may each only be called once), so this constructs
// its own builder rather than sharing one with BuildDeps.
func BuildCircuit(t DepsType, qubits int) (circuit.Circuit, error) {
	b, ok := StandardDeps[t]
	if !ok {
		b = buildChain
	}
	return b(qubits).BuildCircuit()
}
