// Command edc-cut runs the cut-matching solver exactly once over the whole
// input graph and reports its classification, without recursing — a
// standalone tool for exploring component C in isolation, mirroring the
// teacher's single-purpose lp-push-relabel/lp-maxflow-* binaries that each
// exercise one engine component on its own.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/arborclust/edc/cutmatching"
	"github.com/arborclust/edc/decompose"
	"github.com/arborclust/edc/flow"
	"github.com/arborclust/edc/internal/xmath"
	"github.com/arborclust/edc/loader"
)

func main() {
	phi := flag.Float64("phi", 0.1, "target conductance (0,1)")
	t1 := flag.Int("t1", 2, "cut-matching round-count constant term")
	t2 := flag.Float64("t2", 1.0, "cut-matching round-count log-squared coefficient")
	minBalance := flag.Float64("min-balance", 0.01, "fraction of the subset's volume whose removal stops the cut-matching rounds early")
	balancedCut := flag.Bool("balanced-cut", false, "use the size-equalizing balancing strategy in the cut player")
	samplePotential := flag.Bool("sample-potential", false, "record and print the potential trajectory to stderr")
	resampleUnitVector := flag.Bool("resample-unit-vector", false, "redraw the flow vector's random unit component every round")
	randomWalkSteps := flag.Int("random-walk-steps", 0, "number of times earlier rounds' matchings are reapplied to a resampled flow vector (with --resample-unit-vector)")
	seed := flag.Uint64("seed", 1, "seed for the injected random generator")
	flag.Parse()

	if *phi <= 0 || *phi >= 1 {
		fmt.Fprintf(os.Stderr, "edc-cut: --phi must be in (0,1), got %v\n", *phi)
		os.Exit(2)
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "edc-cut: usage: edc-cut [flags] <input-path>")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "edc-cut: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	g, err := loader.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edc-cut: %v\n", err)
		os.Exit(1)
	}

	n, m := g.N, len(g.Edges)
	outer := flow.NewGraph(n, g.Edges)
	sub := flow.NewGraph(n+m, nil)
	for i, e := range g.Edges {
		split := uint32(n + i)
		sub.AddEdge(e[0], split, 0)
		sub.AddEdge(split, e[1], 0)
	}
	subIdx := decompose.NewSubdivIndex(n, m)

	params := cutmatching.Params{
		Phi:                 *phi,
		TConst:              *t1,
		TFactor:             *t2,
		MinIterations:       1,
		MinBalance:          *minBalance,
		BalancedCutStrategy: *balancedCut,
		SamplePotential:     *samplePotential,
		ResampleUnitVector:  *resampleUnitVector,
		RandomWalkSteps:     *randomWalkSteps,
	}

	res := cutmatching.Solve(outer, sub, subIdx, m, params, xmath.New(*seed))

	log.Info().
		Str("classification", res.Classification.String()).
		Int("iterations", res.Iterations).
		Int64("congestion", res.Congestion).
		Int("a_size", len(res.A)).
		Int("r_size", len(res.R)).
		Msg("cut-matching result")

	fmt.Println(res.Classification)

	if *samplePotential {
		for i, v := range res.PotentialTrajectory {
			fmt.Fprintf(os.Stderr, "round %d: potential=%v\n", i, v)
		}
	}
}
