package dp

import (
	"testing"

	"github.com/kegliz/qalloc/qc/alloc"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func physOf(a mapping.Assign, prog int) int {
	for phys, p := range a {
		if p == prog {
			return phys
		}
	}
	return -1
}

// replay applies a Solution's program-qubit swaps to a fresh copy of
// `initial` and checks that, at every dependency, the two interacting
// program qubits land on an ArchGraph edge.
func replayAndCheck(t *testing.T, g *arch.Graph, initial mapping.Assign, deps mapping.DepsSet, sol *Solution) {
	t.Helper()
	cur := initial.Clone()
	for i := 0; i < deps.Len(); i++ {
		for _, d := range sol.PerDepSwaps[i] {
			u, v := physOf(cur, d.From), physOf(cur, d.To)
			cur.Swap(u, v)
		}
		from, to := deps.At(i)
		u, v := physOf(cur, from), physOf(cur, to)
		assert.True(t, g.HasEdgeUndirected(u, v), "dep %d: programs %d,%d not adjacent (phys %d,%d)", i, from, to, u, v)
	}
	assert.Equal(t, sol.FinalAssign, cur)
}

func TestSolveAlreadyAdjacentIsFree(t *testing.T) {
	g := arch.Line(3)
	a, err := NewAllocator(g, 0)
	require.NoError(t, err)

	initial := mapping.Assign{0, 1, 2}
	deps := mapping.DepsSet{{From: 0, To: 1}}
	sol, err := a.Solve(initial, deps)
	require.NoError(t, err)
	assert.Equal(t, 0, sol.Cost)
	replayAndCheck(t, g, initial, deps, sol)
}

func TestSolveRequiresSwapsOnLine(t *testing.T) {
	g := arch.Line(3) // 0-1-2, prog0 and prog2 start 2 apart
	a, err := NewAllocator(g, 0)
	require.NoError(t, err)

	initial := mapping.Assign{0, 1, 2}
	deps := mapping.DepsSet{{From: 0, To: 2}}
	sol, err := a.Solve(initial, deps)
	require.NoError(t, err)
	assert.Greater(t, sol.Cost, 0)
	replayAndCheck(t, g, initial, deps, sol)
}

func TestSolveMultiDepRing(t *testing.T) {
	g := arch.Ring(4)
	a, err := NewAllocator(g, 0)
	require.NoError(t, err)

	initial := mapping.Assign{0, 1, 2, 3}
	deps := mapping.DepsSet{{From: 0, To: 2}, {From: 1, To: 3}, {From: 0, To: 1}}
	sol, err := a.Solve(initial, deps)
	require.NoError(t, err)
	replayAndCheck(t, g, initial, deps, sol)
}

func TestSolveDeterministic(t *testing.T) {
	g := arch.Grid(2, 2)
	initial := mapping.Assign{0, 1, 2, 3}
	deps := mapping.DepsSet{{From: 0, To: 3}, {From: 1, To: 2}}

	a1, err := NewAllocator(g, 0)
	require.NoError(t, err)
	a2, err := NewAllocator(g, 0)
	require.NoError(t, err)

	sol1, err := a1.Solve(initial.Clone(), deps)
	require.NoError(t, err)
	sol2, err := a2.Solve(initial.Clone(), deps)
	require.NoError(t, err)

	assert.Equal(t, sol1.Cost, sol2.Cost)
	assert.Equal(t, sol1.FinalAssign, sol2.FinalAssign)
	assert.Equal(t, sol1.PerDepSwaps, sol2.PerDepSwaps)
}

func TestNewAllocatorCapacityExceeded(t *testing.T) {
	g := arch.Line(9)
	_, err := NewAllocator(g, 8)
	assert.ErrorIs(t, err, alloc.ErrCapacityExceeded)
}

func TestSolveRejectsWrongLengthInitial(t *testing.T) {
	g := arch.Line(3)
	a, err := NewAllocator(g, 0)
	require.NoError(t, err)
	_, err = a.Solve(mapping.Assign{0, 1}, mapping.DepsSet{{From: 0, To: 1}})
	assert.ErrorIs(t, err, alloc.ErrInvalidInput)
}

// permKey gives a comparable map key for a permutation slice.
func permKey(p []int) string {
	b := make([]byte, 0, len(p)*2)
	for _, v := range p {
		b = append(b, byte('a'+v))
	}
	return string(b)
}

// allPerms returns every permutation of {0,...,n-1}, via Heap's algorithm.
func allPerms(n int) [][]int {
	a := make([]int, n)
	for i := range a {
		a[i] = i
	}
	var out [][]int
	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			cp := make([]int, n)
			copy(cp, a)
			out = append(out, cp)
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				a[i], a[k-1] = a[k-1], a[i]
			} else {
				a[0], a[k-1] = a[k-1], a[0]
			}
		}
	}
	generate(n)
	return out
}

// bruteForceDPCost is an independent reference implementation of spec
// property 4: it computes the minimum achievable Solution.Cost by dynamic
// programming over *every* permutation of the n physical qubits (not just
// the Cayley-reachable coset dp.Allocator restricts itself to), using its
// own from-scratch BFS over the permutation graph to measure swap
// distance between any two permutations. Only tractable for n<=6, exactly
// the bound spec property 4 names.
func bruteForceDPCost(t *testing.T, g *arch.Graph, initial mapping.Assign, deps mapping.DepsSet) int {
	t.Helper()
	n := len(initial)
	perms := allPerms(n)
	index := make(map[string]int, len(perms))
	for i, p := range perms {
		index[permKey(p)] = i
	}
	edges := g.Edges()

	dist := make([][]int, len(perms))
	for i := range dist {
		dist[i] = make([]int, len(perms))
		for j := range dist[i] {
			dist[i][j] = -1
		}
	}
	for i, p := range perms {
		dist[i][i] = 0
		queue := []int{i}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			curPerm := perms[cur]
			for _, e := range edges {
				np := make([]int, n)
				copy(np, curPerm)
				np[e[0]], np[e[1]] = np[e[1]], np[e[0]]
				nIdx := index[permKey(np)]
				if dist[i][nIdx] != -1 {
					continue
				}
				dist[i][nIdx] = dist[i][cur] + 1
				queue = append(queue, nIdx)
			}
			curPerm = perms[cur]
			_ = curPerm
		}
	}

	const inf = 1 << 30
	initIdx := index[permKey([]int(initial))]
	cur := make([]int, len(perms))
	for i := range cur {
		cur[i] = inf
	}
	cur[initIdx] = 0

	D := deps.Len()
	for i := 0; i < D; i++ {
		from, to := deps.At(i)
		next := make([]int, len(perms))
		for i := range next {
			next[i] = inf
		}
		for tIdx, tPerm := range perms {
			invT := invertPerm(tPerm)
			u, v := invT[from], invT[to]
			if !g.HasEdgeUndirected(u, v) {
				continue
			}
			rev := 0
			if g.IsReverseEdge(u, v) {
				rev = RevCost
			}
			best := inf
			for sIdx, sCost := range cur {
				if sCost == inf {
					continue
				}
				d := dist[sIdx][tIdx]
				if d < 0 {
					continue
				}
				cost := sCost + SwapCost*d + rev
				if cost < best {
					best = cost
				}
			}
			next[tIdx] = best
		}
		cur = next
	}

	best := inf
	for _, c := range cur {
		if c < best {
			best = c
		}
	}
	require.Less(t, best, inf, "bruteForceDPCost: no reachable final permutation")
	return best
}

func TestSolveMatchesBruteForceOptimum(t *testing.T) {
	cases := []struct {
		name    string
		g       *arch.Graph
		initial mapping.Assign
		deps    mapping.DepsSet
	}{
		{"line3_one_dep", arch.Line(3), mapping.Assign{0, 1, 2}, mapping.DepsSet{{From: 0, To: 2}}},
		{"line4_chain", arch.Line(4), mapping.Assign{0, 1, 2, 3}, mapping.DepsSet{{From: 0, To: 3}, {From: 1, To: 2}, {From: 0, To: 1}}},
		{"ring4_multi", arch.Ring(4), mapping.Assign{0, 1, 2, 3}, mapping.DepsSet{{From: 0, To: 2}, {From: 1, To: 3}, {From: 0, To: 1}}},
		{"grid2x3_star", arch.Grid(2, 3), mapping.Assign{0, 1, 2, 3, 4, 5}, mapping.DepsSet{{From: 0, To: 1}, {From: 0, To: 2}, {From: 0, To: 3}, {From: 0, To: 4}, {From: 0, To: 5}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewAllocator(tc.g, 0)
			require.NoError(t, err)
			sol, err := a.Solve(tc.initial.Clone(), tc.deps)
			require.NoError(t, err)

			opt := bruteForceDPCost(t, tc.g, tc.initial, tc.deps)
			assert.Equal(t, opt, sol.Cost, "DP cost must equal the brute-force optimum")
		})
	}
}

func TestSolveUnreachableLayout(t *testing.T) {
	// Two disjoint edges: swapping can never move prog 0 from component
	// {0,1} next to prog 2 living in component {2,3}.
	g := arch.FromEdgeList(4, [][2]int{{0, 1}, {2, 3}})
	a, err := NewAllocator(g, 0)
	require.NoError(t, err)
	initial := mapping.Assign{0, 1, 2, 3}
	deps := mapping.DepsSet{{From: 0, To: 2}}
	_, err = a.Solve(initial, deps)
	assert.ErrorIs(t, err, alloc.ErrUnreachableLayout)
}
