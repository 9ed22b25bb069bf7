package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	assert := assert.New(t)
	g := Line(3)
	require.Equal(t, 3, g.Size())
	assert.True(g.HasEdge(0, 1))
	assert.True(g.HasEdge(1, 0))
	assert.True(g.HasEdge(1, 2))
	assert.False(g.HasEdge(0, 2))
	assert.Equal([]int{1}, g.Succ(0))
	assert.Equal([]int{0, 2}, g.Succ(1))
}

func TestRing(t *testing.T) {
	assert := assert.New(t)
	g := Ring(4)
	assert.True(g.HasEdge(3, 0))
	assert.True(g.HasEdge(0, 3))
	assert.Len(g.Succ(0), 2)
}

func TestGrid(t *testing.T) {
	assert := assert.New(t)
	g := Grid(2, 2)
	require.Equal(t, 4, g.Size())
	// ids: (0,0)=0 (0,1)=1 (1,0)=2 (1,1)=3
	assert.True(g.HasEdge(0, 1))
	assert.True(g.HasEdge(0, 2))
	assert.False(g.HasEdge(0, 3))
	assert.True(g.HasEdge(1, 3))
	assert.True(g.HasEdge(2, 3))
}

func TestIsReverseEdge(t *testing.T) {
	assert := assert.New(t)
	g := New(2)
	g.AddEdge(0, 1) // only forward
	g.Freeze()
	assert.False(g.IsReverseEdge(0, 1))
	assert.True(g.IsReverseEdge(1, 0))
}

func TestFromEdgeListAndEdges(t *testing.T) {
	assert := assert.New(t)
	g := FromEdgeList(3, [][2]int{{0, 1}, {1, 2}})
	edges := g.Edges()
	assert.Equal([][2]int{{0, 1}, {1, 2}}, edges)
}
