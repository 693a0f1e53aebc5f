// Command edc runs the recursive expander decomposition driver over an
// adjacency-list graph and prints the resulting partition, one line per
// part, to stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/arborclust/edc/cutmatching"
	"github.com/arborclust/edc/decompose"
	"github.com/arborclust/edc/internal/xmath"
	"github.com/arborclust/edc/loader"
)

func main() {
	phi := flag.Float64("phi", 0.1, "target conductance (0,1)")
	t1 := flag.Int("t1", 2, "cut-matching round-count constant term")
	t2 := flag.Float64("t2", 1.0, "cut-matching round-count log-squared coefficient")
	minBalance := flag.Float64("min-balance", 0.01, "fraction of the subset's volume whose removal stops the cut-matching rounds early")
	balancedCut := flag.Bool("balanced-cut", false, "use the size-equalizing balancing strategy in the cut player")
	samplePotential := flag.Bool("sample-potential", false, "record the potential trajectory (diagnostic only)")
	resampleUnitVector := flag.Bool("resample-unit-vector", false, "redraw the flow vector's random unit component every round")
	randomWalkSteps := flag.Int("random-walk-steps", 0, "number of times earlier rounds' matchings are reapplied to a resampled flow vector (with --resample-unit-vector)")
	seed := flag.Uint64("seed", 1, "seed for the injected random generator")
	flag.Parse()

	if *phi <= 0 || *phi >= 1 {
		fmt.Fprintf(os.Stderr, "edc: --phi must be in (0,1), got %v\n", *phi)
		os.Exit(2)
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "edc: usage: edc [flags] <input-path>")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "edc: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	g, err := loader.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edc: %v\n", err)
		os.Exit(1)
	}

	params := decompose.Params{CutMatching: cutmatching.Params{
		Phi:                 *phi,
		TConst:              *t1,
		TFactor:             *t2,
		MinIterations:       1,
		MinBalance:          *minBalance,
		BalancedCutStrategy: *balancedCut,
		SamplePotential:     *samplePotential,
		ResampleUnitVector:  *resampleUnitVector,
		RandomWalkSteps:     *randomWalkSteps,
	}}

	log.Info().Int("n", g.N).Int("m", len(g.Edges)).Float64("phi", *phi).Msg("starting decomposition")

	d := decompose.New(g.N, g.Edges, params, xmath.New(*seed))
	parts := d.Run()

	for _, part := range parts {
		line := ""
		for i, v := range part {
			if i > 0 {
				line += " "
			}
			line += fmt.Sprint(v)
		}
		fmt.Println(line)
	}
}
