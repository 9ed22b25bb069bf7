// Command benchmark-demo drives qc/alloc/bench's strategy sweep, the
// allocator-domain replacement for this repository's original
// simulator-runner benchmark CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kegliz/qalloc/qc/alloc/bench"
	"github.com/kegliz/qalloc/qc/alloc/driver"
)

func main() {
	var (
		command    = flag.String("cmd", "sweep", "command to execute: list, sweep")
		strategies = flag.String("strategies", "", "comma-separated strategies to sweep (default: all registered)")
		topologies = flag.String("topologies", "", "comma-separated topologies to sweep: line, ring, grid (default: all)")
		deps       = flag.String("deps", "", "comma-separated dependency shapes: chain, star, brick, all-to-all (default: all)")
		sizes      = flag.String("sizes", "4,8,16", "comma-separated topology sizes to sweep")
		output     = flag.String("output", "console", "output format: console, json")
	)
	flag.Parse()

	switch *command {
	case "list":
		listOptions()
	case "sweep":
		runSweep(*strategies, *topologies, *deps, *sizes, *output)
	default:
		fmt.Printf("unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(1)
	}
}

func listOptions() {
	fmt.Println("Registered allocator strategies:")
	for _, name := range driver.DefaultRegistry().List() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("Topologies: line, ring, grid")
	fmt.Println("Dependency shapes: chain, star, brick, all-to-all")
}

func runSweep(strategiesFlag, topologiesFlag, depsFlag, sizesFlag, output string) {
	suite := bench.NewSuite()

	if strategiesFlag != "" {
		suite.WithStrategies(splitCSV(strategiesFlag)...)
	}
	if topologiesFlag != "" {
		suite.WithTopologies(toTopologies(splitCSV(topologiesFlag))...)
	}
	if depsFlag != "" {
		suite.WithDeps(toDeps(splitCSV(depsFlag))...)
	}
	if sizesFlag != "" {
		sizes, err := toInts(splitCSV(sizesFlag))
		if err != nil {
			fmt.Fprintf(os.Stderr, "benchmark-demo: %v\n", err)
			os.Exit(1)
		}
		suite.WithSizes(sizes...)
	}

	results := suite.Run()
	reporter := bench.NewReporter()
	reporter.AddResults(results)

	if output == "json" {
		if err := reporter.WriteJSON(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "benchmark-demo: %v\n", err)
			os.Exit(1)
		}
		return
	}
	reporter.PrintSummary(os.Stdout)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func toTopologies(names []string) []bench.TopologyType {
	out := make([]bench.TopologyType, len(names))
	for i, n := range names {
		out[i] = bench.TopologyType(n)
	}
	return out
}

func toDeps(names []string) []bench.DepsType {
	out := make([]bench.DepsType, len(names))
	for i, n := range names {
		out[i] = bench.DepsType(n)
	}
	return out
}

func toInts(strs []string) ([]int, error) {
	out := make([]int, len(strs))
	for i, s := range strs {
		n := 0
		if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", s, err)
		}
		out[i] = n
	}
	return out, nil
}
