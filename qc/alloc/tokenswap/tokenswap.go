// Package tokenswap implements the 4-approximate token-swapping router of
// spec §4.4 (Miltzow et al., ESA 2016): given a source and target token
// placement (InverseMap = Phys->Prog) on a coupling graph, it produces a
// sequence of adjacent-vertex swaps transforming one into the other.
package tokenswap

import (
	"sort"

	"github.com/kegliz/qalloc/qc/alloc"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
)

// Finder precomputes, once per ArchGraph, the all-pairs BFS distance table
// and the "good vertices" matrix used to steer unhappy tokens toward their
// destinations. Both tables are immutable after construction and may be
// shared across many Find calls on the same ArchGraph (spec §5).
type Finder struct {
	g    *arch.Graph
	n    int
	dist [][]int // dist[u][v] = shortest-path length u->v, -1 if unreachable

	// good[u][v] = neighbours w of u, adjacent in g, with dist[w][v] <
	// dist[u][v], sorted ascending. This is the "good-vertices matrix" of
	// spec §4.4: a token sitting at u that needs to reach v may move
	// through any w in good[u][v] without increasing its own remaining
	// distance. Find does not consult this table: its fast path probes
	// every edge, and its guaranteed-progress fallback walks a BFS
	// shortest path.
	good [][][]int
}

// NewFinder precomputes the distance and good-vertices tables for g.
func NewFinder(g *arch.Graph) *Finder {
	n := g.Size()
	f := &Finder{g: g, n: n}
	f.dist = make([][]int, n)
	for u := 0; u < n; u++ {
		f.dist[u] = bfsDistances(g, u, nil)
	}
	f.good = make([][][]int, n)
	for u := 0; u < n; u++ {
		f.good[u] = make([][]int, n)
		neighbours := g.Succ(u)
		for v := 0; v < n; v++ {
			if f.dist[u][v] <= 0 {
				continue // u happy at v, or v unreachable
			}
			var gv []int
			for _, w := range neighbours {
				if f.dist[w][v] >= 0 && f.dist[w][v] < f.dist[u][v] {
					gv = append(gv, w)
				}
			}
			sort.Ints(gv)
			f.good[u][v] = gv
		}
	}
	return f
}

// bfsDistances runs a BFS from src over g, optionally skipping any vertex
// in excluded (used by the frozen-vertex-avoiding routing fallback).
func bfsDistances(g *arch.Graph, src int, excluded map[int]bool) []int {
	n := g.Size()
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	if excluded[src] {
		return dist
	}
	dist[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Succ(u) {
			if excluded[v] || dist[v] != -1 {
				continue
			}
			dist[v] = dist[u] + 1
			queue = append(queue, v)
		}
	}
	return dist
}

// shortestPath reconstructs a shortest path src->dst over g, optionally
// avoiding `excluded` vertices (dst itself is never excluded, even if
// present in the set). Returns nil if unreachable.
func shortestPath(g *arch.Graph, src, dst int, excluded map[int]bool) []int {
	eff := make(map[int]bool, len(excluded))
	for k, v := range excluded {
		if v && k != dst {
			eff[k] = true
		}
	}
	dist := bfsDistances(g, src, eff)
	if dist[dst] == -1 {
		return nil
	}
	// Walk backwards from dst to src, always stepping to a neighbour
	// exactly one hop closer to src (guaranteed to exist, BFS tree
	// property), then reverse.
	path := []int{dst}
	cur := dst
	for cur != src {
		moved := false
		for _, w := range g.Succ(cur) {
			if eff[w] {
				continue
			}
			if dist[w] == dist[cur]-1 {
				path = append(path, w)
				cur = w
				moved = true
				break
			}
		}
		if !moved {
			return nil // should not happen given dist[dst] != -1
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Find returns a swap sequence transforming `from` into `to`. Both are
// InverseMaps (Phys->Prog) over the same set of program-qubit tokens.
func (f *Finder) Find(from, to mapping.Assign) (mapping.SwapSeq, error) {
	if len(from) != f.n || len(to) != f.n {
		return nil, alloc.ErrInvalidInput
	}

	current := from.Clone()

	// destOf[token] = physical vertex where `to` wants that token.
	destOf := make(map[int]int, f.n)
	for phys, tok := range to {
		if tok != mapping.Unassigned {
			destOf[tok] = phys
		}
	}
	// pos[token] = current physical location, kept in sync on every swap.
	pos := make(map[int]int, f.n)
	for phys, tok := range current {
		if tok != mapping.Unassigned {
			pos[tok] = phys
		}
	}

	for tok, dest := range destOf {
		if f.dist[pos[tok]][dest] < 0 {
			return nil, alloc.ErrUnreachableLayout
		}
	}

	doSwap := func(u, v int) mapping.Swap {
		tu, tv := current[u], current[v]
		current.Swap(u, v)
		if tu != mapping.Unassigned {
			pos[tu] = v
		}
		if tv != mapping.Unassigned {
			pos[tv] = u
		}
		return mapping.Swap{U: u, V: v}
	}

	contrib := func(phys int) int {
		tok := current[phys]
		if tok == mapping.Unassigned {
			return 0
		}
		dest, ok := destOf[tok]
		if !ok {
			return 0
		}
		return f.dist[phys][dest]
	}

	happy := func(phys int) bool {
		return current[phys] == to[phys]
	}

	allHappy := func() bool {
		for phys := range current {
			if !happy(phys) {
				return false
			}
		}
		return true
	}

	edges := f.g.Edges()
	var swaps mapping.SwapSeq
	frozen := make(map[int]bool, f.n)

	maxOuter := f.n + 1
	for outer := 0; !allHappy(); outer++ {
		if outer > maxOuter {
			return nil, alloc.ErrUnreachableLayout
		}

		progressed := false
		// Fast path: any single coupling-edge swap that strictly
		// reduces the sum of remaining distances.
		for _, e := range edges {
			u, v := e[0], e[1]
			before := contrib(u) + contrib(v)
			sw := doSwap(u, v)
			after := contrib(u) + contrib(v)
			if after < before {
				swaps = append(swaps, sw)
				progressed = true
				break
			}
			doSwap(u, v) // undo probe
		}
		if progressed {
			continue
		}

		// Guaranteed-progress fallback: fully resolve one unhappy
		// destination vertex by bubbling its token home along a
		// shortest path that avoids already-frozen (permanently
		// correct) vertices where possible.
		target := -1
		for phys := range current {
			if !happy(phys) && !frozen[phys] {
				target = phys
				break
			}
		}
		if target == -1 {
			// Every unhappy vertex is frozen (forced re-open, rare
			// edge case on graphs with cut vertices): unfreeze all
			// and retry with the full graph.
			frozen = make(map[int]bool, f.n)
			for phys := range current {
				if !happy(phys) {
					target = phys
					break
				}
			}
		}

		tok := to[target]
		src := pos[tok]
		path := shortestPath(f.g, src, target, frozen)
		if path == nil {
			path = shortestPath(f.g, src, target, nil)
		}
		if path == nil {
			return nil, alloc.ErrUnreachableLayout
		}
		for i := 0; i+1 < len(path); i++ {
			swaps = append(swaps, doSwap(path[i], path[i+1]))
		}
		frozen[target] = true
	}

	return swaps, nil
}
