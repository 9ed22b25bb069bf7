package bench

import "github.com/kegliz/qalloc/qc/arch"

// TopologyType names a coupling-graph shape to sweep over, the bench-domain
// stand-in for the teacher's notion of a target runner.
type TopologyType string

const (
	LineTopology TopologyType = "line"
	RingTopology TopologyType = "ring"
	GridTopology TopologyType = "grid"
)

// AllTopologies is the default sweep set, used when a Suite is not given an
// explicit WithTopologies list.
var AllTopologies = []TopologyType{LineTopology, RingTopology, GridTopology}

// BuildTopology constructs a coupling graph of approximately size physical
// qubits. Grid picks the squarest rows x cols factorization covering size.
func BuildTopology(t TopologyType, size int) *arch.Graph {
	if size < 1 {
		size = 1
	}
	switch t {
	case RingTopology:
		return arch.Ring(size)
	case GridTopology:
		rows, cols := gridDims(size)
		return arch.Grid(rows, cols)
	default:
		return arch.Line(size)
	}
}

// gridDims picks rows <= cols with rows*cols >= size and rows as close to
// sqrt(size) as possible, so a requested size of e.g. 6 yields a 2x3 grid
// rather than a lopsided 1x6 line in disguise.
func gridDims(size int) (rows, cols int) {
	rows = 1
	for r := 1; r*r <= size; r++ {
		rows = r
	}
	cols = (size + rows - 1) / rows
	return rows, cols
}
