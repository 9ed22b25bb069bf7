// Package finder implements the initial-mapping finders of spec §4.3/§4.2:
// a seeded random permutation finder and a greedy weighted-matching finder,
// plus a thread-safe name registry that selects one by name — grounded on
// the teacher's qc/simulator.RunnerRegistry. The driver, the CLI and the
// HTTP service construct their finders directly and do not use the
// registry.
package finder

import (
	"math/rand"
	"sort"

	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
	"github.com/kegliz/qalloc/qc/wgraph"
)

// MappingFinder seeds an allocator run with an initial Prog->Phys mapping.
type MappingFinder interface {
	// Find returns an injective Mapping of length nProg into
	// [0, g.Size()).
	Find(g *arch.Graph, nProg int, h *wgraph.Graph) (mapping.Mapping, error)
}

// RandomFinder returns a uniformly random injective mapping. The random
// source is injected so tests can pin the seed (spec §4.3 / §9 "Random
// finder reproducibility").
type RandomFinder struct {
	Rand *rand.Rand
}

// NewRandomFinder wraps a caller-supplied *rand.Rand. Passing nil falls
// back to a fixed default seed so the finder stays a pure function of its
// other inputs rather than silently reading ambient entropy.
func NewRandomFinder(r *rand.Rand) *RandomFinder {
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	return &RandomFinder{Rand: r}
}

// Find implements MappingFinder.
func (f *RandomFinder) Find(g *arch.Graph, nProg int, _ *wgraph.Graph) (mapping.Mapping, error) {
	perm := f.Rand.Perm(g.Size())[:nProg]
	m := mapping.Mapping(append([]int(nil), perm...))
	return m, nil
}

// WeightedPMFinder greedily matches the highest-interaction-weight program
// qubit pairs onto adjacent physical qubits, maximizing (heuristically)
// sum of weight(a,b) over pairs landing on coupling-graph edges.
//
// Grounded on katalvlaran/lvlath/tsp.greedyMatch's shape: repeatedly pop
// the best remaining candidate, deterministic tie-break by lower index,
// O(k^2)-ish for k = number of program qubits.
type WeightedPMFinder struct{}

// NewWeightedPMFinder returns a WeightedPMFinder.
func NewWeightedPMFinder() *WeightedPMFinder { return &WeightedPMFinder{} }

// Find implements MappingFinder. h may be nil (treated as all-zero
// weights, degrading to an arbitrary but deterministic assignment).
func (f *WeightedPMFinder) Find(g *arch.Graph, nProg int, h *wgraph.Graph) (mapping.Mapping, error) {
	physEdges := g.Edges() // sorted [{u,v}...]
	m := mapping.NewMapping(nProg)
	usedPhys := make(map[int]bool, nProg)
	usedProg := make(map[int]bool, nProg)

	type candidate struct {
		a, b, u, v, weight int
	}

	// Build the candidate list: every (program pair, physical edge)
	// combination, scored by interaction weight. Deterministic order
	// (program pairs ascending, then physical edges ascending) keeps the
	// subsequent stable sort's tie-break reproducible.
	var cands []candidate
	for a := 0; a < nProg; a++ {
		for b := a + 1; b < nProg; b++ {
			w := 0
			if h != nil {
				w = h.Weight(a, b)
			}
			for _, e := range physEdges {
				cands = append(cands, candidate{a: a, b: b, u: e[0], v: e[1], weight: w})
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].weight != cands[j].weight {
			return cands[i].weight > cands[j].weight // highest weight first
		}
		if cands[i].a != cands[j].a {
			return cands[i].a < cands[j].a
		}
		if cands[i].b != cands[j].b {
			return cands[i].b < cands[j].b
		}
		if cands[i].u != cands[j].u {
			return cands[i].u < cands[j].u
		}
		return cands[i].v < cands[j].v
	})

	assign := func(prog, phys int) {
		m[prog] = phys
		usedProg[prog] = true
		usedPhys[phys] = true
	}

	for _, c := range cands {
		if usedProg[c.a] || usedProg[c.b] {
			continue
		}
		// a goes to u and b to v (u < v), so the lower program index of
		// the pair lands on the lower physical index; the other
		// orientation is not tried.
		if !usedPhys[c.u] && !usedPhys[c.v] {
			assign(c.a, c.u)
			assign(c.b, c.v)
		}
	}

	// Remaining (unmatched) program/physical qubits: assign
	// deterministically in ascending order.
	var freePhys []int
	for p := 0; p < g.Size(); p++ {
		if !usedPhys[p] {
			freePhys = append(freePhys, p)
		}
	}
	sort.Ints(freePhys)
	fi := 0
	for prog := 0; prog < nProg; prog++ {
		if m[prog] != mapping.Unassigned {
			continue
		}
		m[prog] = freePhys[fi]
		fi++
	}

	return m, nil
}
