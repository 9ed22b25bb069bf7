// Package depsbridge produces the allocator's DepsSet from a validated
// circuit DAG — a real producer the distilled specification leaves as an
// opaque external input (see SPEC_FULL.md).
package depsbridge

import (
	"github.com/kegliz/qalloc/qc/alloc"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/dag"
)

// FromDAG walks d.Operations() in topological order and emits one Dep per
// two-qubit gate node. Measurement and single-qubit nodes are skipped
// (they impose no coupling requirement). A node spanning more than two
// qubits is rejected with ErrMultiQubitDep — the front end is expected to
// have decomposed any three-or-more-qubit gate (Toffoli, Fredkin) before
// it ever reaches the allocator.
func FromDAG(d dag.DAGReader) (mapping.DepsSet, error) {
	ops := d.Operations()
	deps := make(mapping.DepsSet, 0, len(ops))
	for _, n := range ops {
		switch n.G.QubitSpan() {
		case 0, 1:
			continue
		case 2:
			deps = append(deps, mapping.Dep{From: n.Qubits[0], To: n.Qubits[1]})
		default:
			return nil, alloc.ErrMultiQubitDep{Size: n.G.QubitSpan()}
		}
	}
	return deps, nil
}
