// Package arch models the hardware coupling graph a qubit allocator routes
// against: a directed graph over physical qubits where an edge (u,v) means a
// two-qubit gate can execute directly between u and v.
package arch

import "sort"

// Graph is an immutable directed coupling graph over physical qubit indices
// [0, Size()). It is built once via New/FromEdgeList and never mutated;
// finders and allocators may safely share a single instance across runs.
type Graph struct {
	n    int
	adj  []map[int]struct{} // adj[u] = set of v with edge (u,v)
	succ [][]int            // cached sorted adjacency for deterministic iteration
}

// New returns an empty coupling graph over n physical qubits.
func New(n int) *Graph {
	g := &Graph{
		n:   n,
		adj: make([]map[int]struct{}, n),
	}
	for i := range g.adj {
		g.adj[i] = make(map[int]struct{})
	}
	return g
}

// AddEdge adds a directed edge u->v. Call Freeze once all edges are added.
func (g *Graph) AddEdge(u, v int) {
	g.adj[u][v] = struct{}{}
}

// AddUndirected adds both (u,v) and (v,u) — most coupling maps are
// bidirectional; the directed primitive stays available for the cases
// (e.g. some superconducting layouts) where only one direction is wired.
func (g *Graph) AddUndirected(u, v int) {
	g.AddEdge(u, v)
	g.AddEdge(v, u)
}

// Freeze precomputes sorted adjacency lists for deterministic iteration
// (property 5: determinism). Safe to call multiple times.
func (g *Graph) Freeze() *Graph {
	g.succ = make([][]int, g.n)
	for u := 0; u < g.n; u++ {
		list := make([]int, 0, len(g.adj[u]))
		for v := range g.adj[u] {
			list = append(list, v)
		}
		sort.Ints(list)
		g.succ[u] = list
	}
	return g
}

// Size returns the number of physical qubits (|V|).
func (g *Graph) Size() int { return g.n }

// HasEdge reports whether a directed edge (u,v) exists.
func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || u >= g.n {
		return false
	}
	_, ok := g.adj[u][v]
	return ok
}

// HasEdgeUndirected reports whether u and v are adjacent in either
// direction — this is the notion used when validating that a Swap(u,v) is
// legal, since a SWAP gate does not have a preferred direction.
func (g *Graph) HasEdgeUndirected(u, v int) bool {
	return g.HasEdge(u, v) || g.HasEdge(v, u)
}

// IsReverseEdge reports whether (u,v) is a "back edge": wired as (v,u) in
// hardware but not as (u,v). A CNOT with control/target landing on a
// reverse edge must be logically reversed (Hadamard sandwich), incurring
// REV_COST — materializing the H gates is the host's job; the core only
// charges the cost.
func (g *Graph) IsReverseEdge(u, v int) bool {
	return g.HasEdge(v, u) && !g.HasEdge(u, v)
}

// Succ returns the sorted list of physical qubits directly reachable from
// u. After Freeze() it copies the cached list; if Freeze was never called
// it builds the list from the live adjacency map and sorts it.
func (g *Graph) Succ(u int) []int {
	if g.succ != nil {
		out := make([]int, len(g.succ[u]))
		copy(out, g.succ[u])
		return out
	}
	out := make([]int, 0, len(g.adj[u]))
	for v := range g.adj[u] {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Edges returns all undirected edges {u,v} (u<v) exactly once, sorted.
// Useful for building the Cayley graph (§4.5) and the token-swap
// good-vertices precomputation (§4.4), both of which treat the coupling
// graph as undirected for the purpose of "which swaps are legal".
func (g *Graph) Edges() [][2]int {
	seen := make(map[[2]int]struct{})
	var out [][2]int
	for u := 0; u < g.n; u++ {
		for _, v := range g.Succ(u) {
			key := [2]int{u, v}
			if u > v {
				key = [2]int{v, u}
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// FromEdgeList builds an undirected coupling graph over n physical qubits
// from an explicit edge list.
func FromEdgeList(n int, edges [][2]int) *Graph {
	g := New(n)
	for _, e := range edges {
		g.AddUndirected(e[0], e[1])
	}
	return g.Freeze()
}

// Line returns a 1-D nearest-neighbour chain coupling graph: 0-1-2-...-(n-1).
func Line(n int) *Graph {
	g := New(n)
	for i := 0; i+1 < n; i++ {
		g.AddUndirected(i, i+1)
	}
	return g.Freeze()
}

// Ring returns a cyclic coupling graph: a Line closed by an edge (n-1, 0).
func Ring(n int) *Graph {
	g := Line(n)
	if n > 2 {
		g.AddUndirected(n-1, 0)
	}
	return g.Freeze()
}

// Grid returns a 2-D nearest-neighbour mesh of rows*cols physical qubits,
// indexed row-major: qubit id = r*cols + c.
func Grid(rows, cols int) *Graph {
	n := rows * cols
	g := New(n)
	id := func(r, c int) int { return r*cols + c }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				g.AddUndirected(id(r, c), id(r, c+1))
			}
			if r+1 < rows {
				g.AddUndirected(id(r, c), id(r+1, c))
			}
		}
	}
	return g.Freeze()
}
