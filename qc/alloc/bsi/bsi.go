// Package bsi implements the bounded subgraph-isomorphism dependency
// solver of spec §4.6: a beam search over partial Mappings that scales to
// physical qubit counts beyond the exact DP allocator's reach.
package bsi

import (
	"sort"

	"github.com/kegliz/qalloc/qc/alloc"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/alloc/tokenswap"
	"github.com/kegliz/qalloc/qc/arch"
)

// DefaultBeamWidth bounds the candidate set kept after each dependency;
// override via internal/config.
const DefaultBeamWidth = 16

// CandPair is a partial candidate mapping carried through the beam search,
// spec §4.6.
type CandPair struct {
	M    mapping.Mapping
	Cost int
}

// Allocator runs the bounded-SI beam search against an ArchGraph.
type Allocator struct {
	g    *arch.Graph
	ts   *tokenswap.Finder
	k    int
	dist [][]int
}

// NewAllocator builds a bounded-SI allocator over g with beam width k
// (k<=0 selects DefaultBeamWidth).
func NewAllocator(g *arch.Graph, k int) *Allocator {
	if k <= 0 {
		k = DefaultBeamWidth
	}
	n := g.Size()
	dist := make([][]int, n)
	for u := 0; u < n; u++ {
		dist[u] = bfsDist(g, u)
	}
	return &Allocator{g: g, ts: tokenswap.NewFinder(g), k: k, dist: dist}
}

func bfsDist(g *arch.Graph, src int) []int {
	n := g.Size()
	d := make([]int, n)
	for i := range d {
		d[i] = -1
	}
	d[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Succ(u) {
			if d[v] != -1 {
				continue
			}
			d[v] = d[u] + 1
			queue = append(queue, v)
		}
	}
	return d
}

// getNearest returns the physical qubit nearest to u (by BFS distance)
// that is not yet used by any program qubit in m, spec §4.6 step 5.
func (a *Allocator) getNearest(u int, m mapping.Mapping) int {
	used := make(map[int]bool, len(m))
	for _, p := range m {
		if p != mapping.Unassigned {
			used[p] = true
		}
	}
	best, bestDist := -1, -1
	for phys, d := range a.dist[u] {
		if d < 0 || used[phys] {
			continue
		}
		if best == -1 || d < bestDist || (d == bestDist && phys < best) {
			best, bestDist = phys, d
		}
	}
	return best
}

// distanceWeight is the distance-induced penalty of spec §4.6 step 2: the
// extra BFS hops between the chosen free endpoint and the nearest free
// endpoint getNearest would have picked. Choosing the nearest endpoint
// itself costs nothing; choosing a farther one costs its detour distance,
// so candidates that strand an endpoint far from where a future swap would
// need to reach it are ranked worse at the same beam-width cut.
func (a *Allocator) distanceWeight(nearest, chosen int) int {
	if nearest < 0 || nearest == chosen {
		return 0
	}
	d := a.dist[nearest][chosen]
	if d < 0 {
		return 0
	}
	return d
}

// Solution is the bounded-SI solver's output: the per-dependency target
// intermediate Mappings plus the physical swaps routing between them
// (spec §4.6 steps 3-4), and the final Mapping reached.
type Solution struct {
	Cost         int
	Initial      mapping.Mapping   // the fully-filled starting mapping PerDepSwaps[0] routes from
	Intermediate []mapping.Mapping // one per dependency, the extension chosen
	PerDepSwaps  [][]mapping.Swap  // routing swaps transitioning intermediate[i-1]->intermediate[i]
	FinalMapping mapping.Mapping
}

// Solve runs extendCandidates over each dependency in turn, keeping the
// top-K candidates by cost, then materializes routing between consecutive
// selected intermediate mappings via the token-swap finder.
func (a *Allocator) Solve(nProg int, deps mapping.DepsSet) (*Solution, error) {
	candidates := []CandPair{{M: mapping.NewMapping(nProg), Cost: 0}}
	chosen := make([]mapping.Mapping, deps.Len())

	for i := 0; i < deps.Len(); i++ {
		from, to := deps.At(i)
		next := a.extendCandidates(from, to, candidates)
		if len(next) == 0 {
			return nil, alloc.ErrInfeasible
		}
		sort.SliceStable(next, func(x, y int) bool {
			if next[x].Cost != next[y].Cost {
				return next[x].Cost < next[y].Cost
			}
			return lexLess(next[x].M, next[y].M)
		})
		if len(next) > a.k {
			next = next[:a.k]
		}
		candidates = next
		chosen[i] = candidates[0].M.Clone()
	}

	// Fill any still-unmapped program qubits in the final candidate
	// deterministically, lowest free physical index first.
	final := candidates[0].M.Clone()
	fillUnmapped(final, a.g.Size())
	if deps.Len() > 0 {
		fillUnmapped(chosen[len(chosen)-1], a.g.Size())
	}

	perDepSwaps := make([][]mapping.Swap, deps.Len())
	last := mapping.NewMapping(nProg)
	fillUnmapped(last, a.g.Size())
	initial := last.Clone()
	for i, cur := range chosen {
		cur = cur.Clone()
		fillUnmapped(cur, a.g.Size())
		swaps, newLast, err := a.process(last, cur)
		if err != nil {
			return nil, err
		}
		perDepSwaps[i] = swaps
		last = newLast
		chosen[i] = cur
	}

	return &Solution{
		Cost:         candidates[0].Cost,
		Initial:      initial,
		Intermediate: chosen,
		PerDepSwaps:  perDepSwaps,
		FinalMapping: last,
	}, nil
}

// fillUnmapped assigns any Unassigned program qubit to the lowest free
// physical qubit, in ascending program-qubit order. Deterministic.
func fillUnmapped(m mapping.Mapping, nPhys int) {
	used := make([]bool, nPhys)
	for _, p := range m {
		if p != mapping.Unassigned {
			used[p] = true
		}
	}
	next := 0
	for prog, p := range m {
		if p != mapping.Unassigned {
			continue
		}
		for used[next] {
			next++
		}
		m[prog] = next
		used[next] = true
	}
}

func lexLess(a, b mapping.Mapping) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// process computes the routing transition between two full Mappings via
// the token-swap finder, spec §4.6 step 4.
func (a *Allocator) process(last, current mapping.Mapping) ([]mapping.Swap, mapping.Mapping, error) {
	n := a.g.Size()
	fromAssign := last.Inverse(n)
	toAssign := current.Inverse(n)
	seq, err := a.ts.Find(fromAssign, toAssign)
	if err != nil {
		return nil, nil, err
	}
	return []mapping.Swap(seq), current.Clone(), nil
}

// extendCandidates implements spec §4.6 step 2: for each existing
// candidate, try every ArchGraph edge as the physical placement of the
// dependency's two program qubits.
func (a *Allocator) extendCandidates(from, to int, candidates []CandPair) []CandPair {
	var out []CandPair
	edges := a.g.Edges()

	for _, c := range candidates {
		aAssigned := c.M[from] != mapping.Unassigned
		bAssigned := c.M[to] != mapping.Unassigned

		switch {
		case aAssigned && bAssigned:
			u, v := c.M[from], c.M[to]
			if a.g.HasEdgeUndirected(u, v) {
				cost := c.Cost
				if a.g.IsReverseEdge(u, v) {
					cost += 4
				}
				out = append(out, CandPair{M: c.M.Clone(), Cost: cost})
			}

		case aAssigned && !bAssigned:
			u := c.M[from]
			nearest := a.getNearest(u, c.M)
			for _, v := range a.g.Succ(u) {
				if occupied(c.M, v) {
					continue
				}
				m := c.M.Clone()
				m[to] = v
				cost := c.Cost + a.distanceWeight(nearest, v)
				if a.g.IsReverseEdge(u, v) {
					cost += 4
				}
				out = append(out, CandPair{M: m, Cost: cost})
			}

		case !aAssigned && bAssigned:
			v := c.M[to]
			nearest := a.getNearest(v, c.M)
			for _, u := range a.g.Succ(v) {
				if occupied(c.M, u) {
					continue
				}
				m := c.M.Clone()
				m[from] = u
				cost := c.Cost + a.distanceWeight(nearest, u)
				if a.g.IsReverseEdge(u, v) {
					cost += 4
				}
				out = append(out, CandPair{M: m, Cost: cost})
			}

		default:
			for _, e := range edges {
				u, v := e[0], e[1]
				if occupied(c.M, u) || occupied(c.M, v) {
					continue
				}
				fwd := c.M.Clone()
				fwd[from], fwd[to] = u, v
				out = append(out, CandPair{M: fwd, Cost: c.Cost})

				rev := c.M.Clone()
				rev[from], rev[to] = v, u
				out = append(out, CandPair{M: rev, Cost: c.Cost})
			}
		}
	}
	return out
}

func occupied(m mapping.Mapping, phys int) bool {
	for _, p := range m {
		if p == phys {
			return true
		}
	}
	return false
}
