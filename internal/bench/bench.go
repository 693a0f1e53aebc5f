// Package bench measures the decomposition driver's edge-cut bound
// (spec.md §8 property 7) across a benchmark set of generated graphs,
// turning what would otherwise be a manual benchmark exercise into an
// automatically checked ratio.
package bench

import (
	"math"

	"github.com/arborclust/edc/decompose"
	"github.com/arborclust/edc/internal/xmath"
	"github.com/arborclust/edc/loader"
)

// Result summarizes one decomposition run against its input graph.
type Result struct {
	N, M            int
	Phi             float64
	Partitions      int
	InterPartition  int
	Bound           float64
	Ratio           float64
}

// Run decomposes g at conductance phi and reports the inter-partition edge
// count against the c·φ·m·(log m)² bound, with c=1 (the constant is folded
// into Ratio so callers can pick their own tolerance rather than bake one
// in here).
func Run(g *loader.Graph, params decompose.Params, rng *xmath.RNG) Result {
	d := decompose.New(g.N, g.Edges, params, rng)
	parts := d.Run()

	owner := make([]int, g.N)
	for id, part := range parts {
		for _, v := range part {
			owner[v] = id
		}
	}
	inter := 0
	for _, e := range g.Edges {
		if owner[e[0]] != owner[e[1]] {
			inter++
		}
	}

	m := len(g.Edges)
	logm := math.Log(math.Max(float64(m), 2))
	bound := params.CutMatching.Phi * float64(m) * logm * logm
	ratio := 0.0
	if bound > 0 {
		ratio = float64(inter) / bound
	} else if inter == 0 {
		ratio = 0
	}

	return Result{
		N:              g.N,
		M:              m,
		Phi:            params.CutMatching.Phi,
		Partitions:     len(parts),
		InterPartition: inter,
		Bound:          bound,
		Ratio:          ratio,
	}
}
