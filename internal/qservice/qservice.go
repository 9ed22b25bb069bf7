// Package qservice exposes the allocator driver (qc/alloc/driver) as a
// stateful service: submitted circuits are turned into allocation jobs,
// solved once, and kept around by id for later retrieval — the same
// save-then-fetch shape the teacher's circuit-render service used for
// qprog.Program values (internal/qservice/pstore.go), repurposed here for
// driver.Solution values.
package qservice

import (
	"fmt"

	"github.com/kegliz/qalloc/internal/logger"
	"github.com/kegliz/qalloc/qc/alloc/depsbridge"
	"github.com/kegliz/qalloc/qc/alloc/driver"
	"github.com/kegliz/qalloc/qc/alloc/finder"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
	"github.com/kegliz/qalloc/qc/builder"
)

type (
	// GateSpec is one gate in a submitted circuit.
	GateSpec struct {
		Type   string `json:"type"`
		Qubits []int  `json:"qubits"`
		Step   int    `json:"step"`
	}

	// CircuitSpec is the JSON shape of a circuit submitted for allocation.
	CircuitSpec struct {
		Qubits int        `json:"qubits"`
		Gates  []GateSpec `json:"gates"`
	}

	// TopologySpec selects or describes the ArchGraph to route against.
	// Name selects a built-in generator ("line", "ring", "grid", "custom");
	// Size feeds Line/Ring, Rows/Cols feed Grid, Edges feeds "custom".
	TopologySpec struct {
		Name  string   `json:"name"`
		Size  int      `json:"size,omitempty"`
		Rows  int      `json:"rows,omitempty"`
		Cols  int      `json:"cols,omitempty"`
		Edges [][2]int `json:"edges,omitempty"`
	}

	// AllocateRequest is the full input to a single allocation job.
	// Strategy optionally pins "dp" or "bounded-si"; empty defers to
	// driver.Pick.
	AllocateRequest struct {
		Circuit  CircuitSpec  `json:"circuit"`
		Topology TopologySpec `json:"topology"`
		Strategy string       `json:"strategy,omitempty"`
	}

	// Job is a stored allocation request together with its outcome.
	Job struct {
		ID       string           `json:"id"`
		Request  AllocateRequest  `json:"request"`
		Solution *driver.Solution `json:"solution,omitempty"`
	}

	// ServiceOptions configure a Service.
	ServiceOptions struct {
		Logger        *logger.Logger
		Store         JobStore
		Finder        finder.MappingFinder
		DriverOptions driver.Options
	}

	// Service runs allocation jobs and keeps their results around.
	Service interface {
		// Allocate builds a circuit and coupling graph from req, runs the
		// allocator driver, stores the resulting Job and returns it.
		Allocate(log *logger.Logger, req AllocateRequest) (*Job, error)

		// GetJob returns a previously stored job by id.
		GetJob(log *logger.Logger, id string) (*Job, error)
	}

	service struct {
		store  JobStore
		logger *logger.Logger
		mf     finder.MappingFinder
		opts   driver.Options
	}
)

// NewService creates a new allocation Service.
func NewService(opts ServiceOptions) Service {
	if opts.Logger == nil {
		opts.Logger = logger.NewLogger(logger.LoggerOptions{Debug: true})
	}
	if opts.Store == nil {
		opts.Store = NewJobStore()
	}
	if opts.Finder == nil {
		opts.Finder = finder.NewRandomFinder(nil)
	}
	return &service{
		store:  opts.Store,
		logger: opts.Logger,
		mf:     opts.Finder,
		opts:   opts.DriverOptions,
	}
}

// Allocate implements Service.
func (s *service) Allocate(l *logger.Logger, req AllocateRequest) (*Job, error) {
	l.Debug().Int("qubits", req.Circuit.Qubits).Str("topology", req.Topology.Name).Msg("allocating circuit")

	g, err := buildGraph(req.Topology)
	if err != nil {
		return nil, fmt.Errorf("building coupling graph: %w", err)
	}

	deps, err := buildDeps(req.Circuit)
	if err != nil {
		return nil, fmt.Errorf("building dependency set: %w", err)
	}

	sol, err := driver.Solve(g, req.Circuit.Qubits, deps, s.mf, nil, req.Strategy, s.opts)
	if err != nil {
		return nil, fmt.Errorf("allocation failed: %w", err)
	}

	job := &Job{Request: req, Solution: sol}
	id, err := s.store.SaveJob(job)
	if err != nil {
		return nil, fmt.Errorf("saving job: %w", err)
	}
	l.Info().Str("id", id).Str("strategy", sol.Strategy).Int("cost", sol.Cost).Msg("allocation complete")
	return job, nil
}

// GetJob implements Service.
func (s *service) GetJob(l *logger.Logger, id string) (*Job, error) {
	l.Debug().Str("id", id).Msg("fetching job")
	return s.store.GetJob(id)
}

// buildGraph turns a TopologySpec into an arch.Graph.
func buildGraph(t TopologySpec) (*arch.Graph, error) {
	switch t.Name {
	case "line":
		if t.Size <= 0 {
			return nil, fmt.Errorf("line topology requires size > 0")
		}
		return arch.Line(t.Size), nil
	case "ring":
		if t.Size <= 0 {
			return nil, fmt.Errorf("ring topology requires size > 0")
		}
		return arch.Ring(t.Size), nil
	case "grid":
		if t.Rows <= 0 || t.Cols <= 0 {
			return nil, fmt.Errorf("grid topology requires rows > 0 and cols > 0")
		}
		return arch.Grid(t.Rows, t.Cols), nil
	case "custom":
		if t.Size <= 0 {
			return nil, fmt.Errorf("custom topology requires size > 0")
		}
		return arch.FromEdgeList(t.Size, t.Edges), nil
	default:
		return nil, fmt.Errorf("unknown topology %q", t.Name)
	}
}

// buildDeps builds the gate-dependency order for an allocator run from a
// CircuitSpec: gates are sorted by step (mirroring the teacher's
// buildCircuitFromRequest ordering), assembled into a DAG via qc/builder,
// then walked by qc/alloc/depsbridge into a DepsSet.
func buildDeps(spec CircuitSpec) (mapping.DepsSet, error) {
	b := builder.New(builder.Q(spec.Qubits), builder.C(spec.Qubits))

	byStep := make(map[int][]GateSpec)
	maxStep := 0
	for _, gt := range spec.Gates {
		byStep[gt.Step] = append(byStep[gt.Step], gt)
		if gt.Step > maxStep {
			maxStep = gt.Step
		}
	}

	for step := 0; step <= maxStep; step++ {
		for _, gt := range byStep[step] {
			if err := applyGate(b, gt); err != nil {
				return nil, err
			}
		}
	}

	d, err := b.BuildDAG()
	if err != nil {
		return nil, fmt.Errorf("building circuit DAG: %w", err)
	}
	return depsbridge.FromDAG(d)
}

func applyGate(b builder.Builder, gt GateSpec) error {
	switch gt.Type {
	case "H":
		if len(gt.Qubits) != 1 {
			return fmt.Errorf("H gate requires exactly 1 qubit")
		}
		b.H(gt.Qubits[0])
	case "X":
		if len(gt.Qubits) != 1 {
			return fmt.Errorf("X gate requires exactly 1 qubit")
		}
		b.X(gt.Qubits[0])
	case "S":
		if len(gt.Qubits) != 1 {
			return fmt.Errorf("S gate requires exactly 1 qubit")
		}
		b.S(gt.Qubits[0])
	case "CNOT":
		if len(gt.Qubits) != 2 {
			return fmt.Errorf("CNOT gate requires exactly 2 qubits")
		}
		b.CNOT(gt.Qubits[0], gt.Qubits[1])
	case "CZ":
		if len(gt.Qubits) != 2 {
			return fmt.Errorf("CZ gate requires exactly 2 qubits")
		}
		b.CZ(gt.Qubits[0], gt.Qubits[1])
	case "SWAP":
		if len(gt.Qubits) != 2 {
			return fmt.Errorf("SWAP gate requires exactly 2 qubits")
		}
		b.SWAP(gt.Qubits[0], gt.Qubits[1])
	case "TOFFOLI":
		if len(gt.Qubits) != 3 {
			return fmt.Errorf("TOFFOLI gate requires exactly 3 qubits")
		}
		b.Toffoli(gt.Qubits[0], gt.Qubits[1], gt.Qubits[2])
	case "MEASURE":
		if len(gt.Qubits) != 1 {
			return fmt.Errorf("MEASURE requires exactly 1 qubit")
		}
		b.Measure(gt.Qubits[0], gt.Qubits[0])
	default:
		return fmt.Errorf("unsupported gate type: %s", gt.Type)
	}
	return nil
}
