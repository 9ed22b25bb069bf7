// Command qalloc builds a circuit with the qc/builder fluent DSL, picks a
// coupling-graph topology, runs the allocator driver, and prints the
// resulting Solution — the allocator-domain replacement for this
// repository's original Bell/Grover simulation demo.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/kegliz/qalloc/qc/alloc/bench"
	"github.com/kegliz/qalloc/qc/alloc/driver"
	"github.com/kegliz/qalloc/qc/alloc/finder"
	"github.com/kegliz/qalloc/qc/alloc/mapping"
	"github.com/kegliz/qalloc/qc/arch"
	"github.com/kegliz/qalloc/qc/renderer"
)

func main() {
	var (
		topology  = flag.String("topology", "line", "coupling graph: line, ring, grid, custom")
		size      = flag.Int("size", 5, "physical qubit count for line/ring/custom")
		rows      = flag.Int("rows", 2, "grid rows (topology=grid)")
		cols      = flag.Int("cols", 3, "grid cols (topology=grid)")
		edges     = flag.String("edges", "", "comma-separated u-v pairs for topology=custom, e.g. \"0-1,1-2,2-0\"")
		qubits    = flag.Int("qubits", 4, "program (logical) qubit count")
		depsShape = flag.String("deps", "chain", "dependency shape: chain, star, brick, all-to-all")
		strategy  = flag.String("strategy", "", "pin a strategy (dp, bounded-si); empty auto-selects")
		nMax      = flag.Int("nmax", 0, "DP allocator capacity override; <=0 selects the package default")
		beamWidth = flag.Int("beamwidth", 0, "bounded-SI beam width override; <=0 selects the package default")
		seed      = flag.Int64("seed", 0, "seed for the random mapping finder; 0 selects the finder's fixed default seed")
		output    = flag.String("output", "console", "output format: console, json")
		diagram   = flag.String("diagram", "", "if set, render the submitted circuit to this PNG path before allocating")
	)
	flag.Parse()

	if *diagram != "" {
		if err := saveDiagram(*diagram, bench.DepsType(*depsShape), *qubits); err != nil {
			fmt.Fprintf(os.Stderr, "qalloc: rendering diagram: %v\n", err)
			os.Exit(1)
		}
	}

	g, err := buildGraph(*topology, *size, *rows, *cols, *edges)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qalloc: %v\n", err)
		os.Exit(1)
	}

	deps, err := bench.BuildDeps(bench.DepsType(*depsShape), *qubits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qalloc: building dependency set: %v\n", err)
		os.Exit(1)
	}

	mf := finder.NewRandomFinder(seededRand(*seed))
	opts := driver.Options{NMax: *nMax, BeamWidth: *beamWidth}

	sol, err := driver.Solve(g, *qubits, deps, mf, nil, *strategy, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qalloc: allocation failed: %v\n", err)
		os.Exit(1)
	}

	if *output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sol); err != nil {
			fmt.Fprintf(os.Stderr, "qalloc: encoding result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	pretty(*topology, g, *depsShape, deps, sol)
}

func buildGraph(topology string, size, rows, cols int, edgeSpec string) (*arch.Graph, error) {
	switch topology {
	case "line":
		return arch.Line(size), nil
	case "ring":
		return arch.Ring(size), nil
	case "grid":
		return arch.Grid(rows, cols), nil
	case "custom":
		edges, err := parseEdges(edgeSpec)
		if err != nil {
			return nil, err
		}
		return arch.FromEdgeList(size, edges), nil
	default:
		return nil, fmt.Errorf("unknown topology %q (want line, ring, grid, or custom)", topology)
	}
}

// parseEdges turns "0-1,1-2,2-0" into [][2]int{{0,1},{1,2},{2,0}}.
func parseEdges(spec string) ([][2]int, error) {
	if spec == "" {
		return nil, fmt.Errorf("topology=custom requires -edges")
	}
	pairs := strings.Split(spec, ",")
	edges := make([][2]int, 0, len(pairs))
	for _, p := range pairs {
		parts := strings.SplitN(strings.TrimSpace(p), "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed edge %q, want \"u-v\"", p)
		}
		u, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed edge %q: %w", p, err)
		}
		v, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed edge %q: %w", p, err)
		}
		edges = append(edges, [2]int{u, v})
	}
	return edges, nil
}

// saveDiagram renders the unswapped program circuit exercised by depsShape
// to path, using the same rasterizer the teacher's circuit-drawing code
// used (qc/renderer), so a caller can see the dependency shape it's about
// to allocate before committing to a strategy.
func saveDiagram(path string, depsShape bench.DepsType, qubits int) error {
	c, err := bench.BuildCircuit(depsShape, qubits)
	if err != nil {
		return fmt.Errorf("building circuit: %w", err)
	}
	r := renderer.NewRenderer(40)
	if err := r.Save(path, c); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "qalloc: wrote circuit diagram to %s\n", path)
	return nil
}

func seededRand(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

// pretty prints the Solution in a readable, deterministic format, mirroring
// the teacher's pretty() histogram-printing helper from the Bell/Grover
// demo: sorted, one line per entry, plus a final summary line.
func pretty(topology string, g *arch.Graph, depsShape string, deps mapping.DepsSet, sol *driver.Solution) {
	fmt.Printf("--- Allocation (%s topology, size %d; %s dependencies) ---\n", topology, g.Size(), depsShape)
	fmt.Printf("strategy: %s\n", sol.Strategy)
	fmt.Printf("cost: %d\n\n", sol.Cost)

	fmt.Println("initial mapping (program -> physical):")
	for prog, phys := range sol.Initial {
		fmt.Printf("  q%d -> p%d\n", prog, phys)
	}

	fmt.Println("\nfinal mapping (program -> physical):")
	for prog, phys := range sol.FinalMapping {
		fmt.Printf("  q%d -> p%d\n", prog, phys)
	}

	total := 0
	fmt.Println("\nswaps inserted per dependency:")
	for i, swaps := range sol.PerDepSwaps {
		total += len(swaps)
		if len(swaps) == 0 {
			continue
		}
		fmt.Printf("  dep %d: %d swap(s)\n", i, len(swaps))
	}
	fmt.Printf("\ntotal swaps: %d across %d dependencies\n", total, len(deps))
}
