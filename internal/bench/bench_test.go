package bench

import (
	"testing"

	"github.com/arborclust/edc/cutmatching"
	"github.com/arborclust/edc/decompose"
	"github.com/arborclust/edc/internal/randgraph"
	"github.com/arborclust/edc/internal/xmath"
	"github.com/arborclust/edc/loader"
)

func paramsForPhi(phi float64) decompose.Params {
	return decompose.Params{CutMatching: cutmatching.Params{
		Phi:           phi,
		TConst:        2,
		TFactor:       1,
		MinIterations: 1,
		MinBalance:    0.01,
	}}
}

// maxRatioConstant is a generous c for the c·φ·m·(log m)² bound: the point
// of this test is catching a gross regression in the edge-cut accounting,
// not pinning down the tightest provable constant.
const maxRatioConstant = 50.0

func TestRun_EdgeCutBoundHoldsAcrossBenchmarkSet(t *testing.T) {
	cases := []struct {
		name string
		g    *loader.Graph
		phi  float64
	}{
		{"erdos-renyi-sparse", randgraph.ErdosRenyi(40, 0.1, xmath.New(1)), 0.2},
		{"erdos-renyi-dense", randgraph.ErdosRenyi(30, 0.6, xmath.New(2)), 0.3},
		{"barbell", randgraph.Barbell(10), 0.15},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if len(c.g.Edges) == 0 {
				t.Skip("empty graph, nothing to measure")
			}
			res := Run(c.g, paramsForPhi(c.phi), xmath.New(3))
			if res.InterPartition < 0 {
				t.Fatalf("negative inter-partition edge count: %d", res.InterPartition)
			}
			if res.Ratio > maxRatioConstant {
				t.Errorf("%s: inter-partition edges = %d exceeds %.1f * phi*m*(log m)^2 = %.1f",
					c.name, res.InterPartition, maxRatioConstant, maxRatioConstant*res.Bound)
			}
		})
	}
}

func TestRun_ExpanderOnlyGraphYieldsLowInterPartitionCount(t *testing.T) {
	g := randgraph.ErdosRenyi(25, 0.9, xmath.New(4))
	res := Run(g, paramsForPhi(0.4), xmath.New(5))
	if res.Partitions == 0 {
		t.Fatalf("expected at least one partition")
	}
	if res.InterPartition > len(g.Edges) {
		t.Errorf("inter-partition count %d exceeds total edge count %d", res.InterPartition, len(g.Edges))
	}
}
