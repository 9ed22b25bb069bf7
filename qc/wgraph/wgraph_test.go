package wgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDeps [][2]int

func (f fakeDeps) Len() int                { return len(f) }
func (f fakeDeps) At(i int) (int, int)     { return f[i][0], f[i][1] }

func TestFromDeps(t *testing.T) {
	assert := assert.New(t)
	deps := fakeDeps{{0, 1}, {1, 2}, {0, 1}}
	g := FromDeps(3, deps)
	assert.Equal(2, g.Weight(0, 1))
	assert.Equal(2, g.Weight(1, 0)) // symmetric
	assert.Equal(1, g.Weight(1, 2))
	assert.Equal(0, g.Weight(0, 2))

	edges := g.Edges()
	assert.Equal([]Edge{{A: 0, B: 1, Weight: 2}, {A: 1, B: 2, Weight: 1}}, edges)
}

func TestAddSelfLoopIgnored(t *testing.T) {
	assert := assert.New(t)
	g := New(2)
	g.Add(0, 0, 5)
	assert.Equal(0, g.Weight(0, 0))
}
