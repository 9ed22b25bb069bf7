// Package dp implements the exact dynamic-programming allocator of spec
// §4.5: an exhaustive search over the permutation space of InverseMaps
// (Phys->Prog), usable only for small physical qubit counts (n ≤ n_max).
// Larger n must route through qc/alloc/bsi instead.
package dp

import (
	"github.com/kegliz/qalloc/qc/alloc"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
)

// Cost constants, spec §4.5.
const (
	SwapCost = 7
	RevCost  = 4

	// DefaultNMax bounds the DP allocator to permutation spaces it can
	// feasibly enumerate; override via internal/config.
	DefaultNMax = 8
)

const infCost = 1 << 30

// Allocator precomputes, once per ArchGraph, the Cayley graph of
// permutations reachable from the identity under the ArchGraph's allowed
// adjacent swaps, along with the shortest swap path from identity to each.
type Allocator struct {
	g        *arch.Graph
	n        int
	nMax     int
	swapCost int
	revCost  int
	total    int
	edges    [][2]int

	// visited[idx] / swapsFromIdentity[idx] describe the BFS tree rooted
	// at the identity permutation: the subgroup H of permutations
	// reachable purely by adjacent-transposition swaps along ArchGraph
	// edges, and the shortest such swap sequence from identity to each
	// member. Any two permutations that are themselves mutually
	// reachable (same coset of H, not necessarily H itself) have their
	// connecting swap path recovered via swapsBetween's translation
	// trick — see spec §4.5 "by Cayley-graph symmetry".
	visited           []bool
	swapsFromIdentity [][]mapping.Swap
}

// NewAllocator precomputes the Cayley-graph BFS table for g using the
// default SwapCost/RevCost. Returns ErrCapacityExceeded if g.Size()
// exceeds nMax (nMax<=0 selects DefaultNMax).
func NewAllocator(g *arch.Graph, nMax int) (*Allocator, error) {
	return NewAllocatorWithCosts(g, nMax, SwapCost, RevCost)
}

// NewAllocatorWithCosts is NewAllocator with overridable per-swap and
// per-reversal costs, sourced from internal/config in production use.
// swapCost<=0 or revCost<=0 fall back to the spec §4.5 defaults.
func NewAllocatorWithCosts(g *arch.Graph, nMax, swapCost, revCost int) (*Allocator, error) {
	n := g.Size()
	if nMax <= 0 {
		nMax = DefaultNMax
	}
	if n > nMax {
		return nil, alloc.ErrCapacityExceeded
	}
	if swapCost <= 0 {
		swapCost = SwapCost
	}
	if revCost <= 0 {
		revCost = RevCost
	}

	a := &Allocator{g: g, n: n, nMax: nMax, swapCost: swapCost, revCost: revCost, total: factorial(n), edges: g.Edges()}
	a.visited = make([]bool, a.total)
	a.swapsFromIdentity = make([][]mapping.Swap, a.total)
	a.visited[0] = true

	queue := []int{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		perm := permAtIndex(cur, n)
		for _, e := range a.edges {
			u, v := e[0], e[1]
			next := append([]int(nil), perm...)
			next[u], next[v] = next[v], next[u]
			idx := indexOfPerm(next)
			if a.visited[idx] {
				continue
			}
			a.visited[idx] = true
			path := make([]mapping.Swap, len(a.swapsFromIdentity[cur])+1)
			copy(path, a.swapsFromIdentity[cur])
			path[len(path)-1] = mapping.Swap{U: u, V: v}
			a.swapsFromIdentity[idx] = path
			queue = append(queue, idx)
		}
	}
	return a, nil
}

// swapsBetween returns the shortest swap path transforming src into tgt
// (both full permutations of [0,n)), using the Cayley-graph translation
// identity of spec §4.5: swaps(src->tgt) = swaps(identity -> src⁻¹∘tgt).
func (a *Allocator) swapsBetween(src, tgt []int) ([]mapping.Swap, bool) {
	if len(src) == len(tgt) {
		equal := true
		for i := range src {
			if src[i] != tgt[i] {
				equal = false
				break
			}
		}
		if equal {
			return nil, true
		}
	}
	realTgt := composePerm(invertPerm(src), tgt)
	idx := indexOfPerm(realTgt)
	if !a.visited[idx] {
		return nil, false
	}
	return a.swapsFromIdentity[idx], true
}

// cosetIndices returns every permutation index mutually reachable with
// initIdx (the coset of H containing it), in ascending order.
func (a *Allocator) cosetIndices(initIdx int) []int {
	initPerm := permAtIndex(initIdx, a.n)
	out := make([]int, 0, a.total)
	for idx := 0; idx < a.total; idx++ {
		p := permAtIndex(idx, a.n)
		if _, ok := a.swapsBetween(initPerm, p); ok {
			out = append(out, idx)
		}
	}
	return out
}

type dpCell struct {
	cost   int
	parent int // permutation index at the previous layer, -1 at layer 0
}

// Solution is the output of a DP allocation run: the per-dependency
// program-qubit swaps to insert, and the physical layout reached at the
// end of the circuit.
type Solution struct {
	Cost            int
	PerDepSwaps     [][]mapping.Dep // program-qubit pairs to insert before deps[i]
	FinalAssign     mapping.Assign  // Phys -> Prog at the end of the circuit
	FinalMapping    mapping.Mapping // Prog -> Phys, inverse of FinalAssign
}

// Solve runs the exact DP allocator. initial is the InverseMap (Phys->Prog)
// produced by the mapping finder; deps is the program's gate dependency
// order. Returns ErrUnreachableLayout if some required target permutation
// is not reachable from initial via ArchGraph-allowed swaps.
func (a *Allocator) Solve(initial mapping.Assign, deps mapping.DepsSet) (*Solution, error) {
	if len(initial) != a.n {
		return nil, alloc.ErrInvalidInput
	}
	initPerm := []int(initial)
	if !isPermutation(initPerm) {
		return nil, alloc.ErrInvalidInput
	}
	initIdx := indexOfPerm(initPerm)
	candidates := a.cosetIndices(initIdx)

	D := deps.Len()
	layers := make([]map[int]dpCell, D+1)
	layers[0] = map[int]dpCell{initIdx: {cost: 0, parent: -1}}

	for i := 1; i <= D; i++ {
		from, to := deps.At(i - 1)
		prev := layers[i-1]
		next := make(map[int]dpCell, len(candidates))

		for _, tIdx := range candidates {
			tPerm := permAtIndex(tIdx, a.n)
			invT := invertPerm(tPerm)
			u, v := invT[from], invT[to]
			if !a.g.HasEdgeUndirected(u, v) {
				continue
			}
			rev := 0
			if a.g.IsReverseEdge(u, v) {
				rev = a.revCost
			}

			best := dpCell{cost: infCost, parent: -1}
			for sIdx, sc := range prev {
				var swapCost int
				if sIdx != tIdx {
					sPerm := permAtIndex(sIdx, a.n)
					path, ok := a.swapsBetween(sPerm, tPerm)
					if !ok {
						continue
					}
					swapCost = a.swapCost * len(path)
				}
				cost := sc.cost + swapCost + rev
				if cost < best.cost || (cost == best.cost && sIdx < best.parent) {
					best = dpCell{cost: cost, parent: sIdx}
				}
			}
			if best.cost < infCost {
				next[tIdx] = best
			}
		}
		layers[i] = next
		if len(next) == 0 {
			return nil, alloc.ErrUnreachableLayout
		}
	}

	// Pick the lowest-cost final permutation, lowest index breaks ties.
	finalIdx, bestCost := -1, infCost
	for idx, c := range layers[D] {
		if c.cost < bestCost || (c.cost == bestCost && idx < finalIdx) {
			finalIdx, bestCost = idx, c.cost
		}
	}

	// Walk parents back to layer 0, recording the physical swap path used
	// at each dependency step.
	perDepPhysical := make([][]mapping.Swap, D)
	tIdx := finalIdx
	for i := D; i >= 1; i-- {
		cell := layers[i][tIdx]
		sIdx := cell.parent
		sPerm := permAtIndex(sIdx, a.n)
		tPerm := permAtIndex(tIdx, a.n)
		path, _ := a.swapsBetween(sPerm, tPerm)
		perDepPhysical[i-1] = path
		tIdx = sIdx
	}

	// Output translation (spec §4.5): replay the recorded physical swaps
	// against the evolving Phys->Prog assignment, emitting program-qubit
	// pairs for each inserted SWAP gate.
	cur := initial.Clone()
	perDepProgram := make([][]mapping.Dep, D)
	for i, path := range perDepPhysical {
		progDeps := make([]mapping.Dep, 0, len(path))
		for _, sw := range path {
			progDeps = append(progDeps, mapping.Dep{From: cur[sw.U], To: cur[sw.V]})
			cur.Swap(sw.U, sw.V)
		}
		perDepProgram[i] = progDeps
	}

	return &Solution{
		Cost:         bestCost,
		PerDepSwaps:  perDepProgram,
		FinalAssign:  cur,
		FinalMapping: cur.Inverse(a.n),
	}, nil
}
