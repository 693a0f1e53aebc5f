// Package trim implements the trimming solver: given a near-expander
// candidate subset A with a boundary into the rest of the graph, it repeatedly
// peels off a small low-conductance piece until none remains. The
// decomposition driver recurses on the peeled-off vertices and keeps the
// rest in the current partition.
package trim

import (
	"math"

	"github.com/arborclust/edc/flow"
	"github.com/arborclust/edc/internal/xmath"
)

// BoundaryDegree reports, for each vertex in a, how many of its edges leave
// a (point at a vertex outside a). The decomposition driver computes this
// against the containing graph before calling Run, since a itself only
// knows its internal topology once Subgraph-restricted.
type BoundaryDegree func(u uint32) int

// Run trims g (already Subgraph-restricted to the candidate subset A) by
// repeatedly sourcing each vertex proportional to its boundary degree,
// sinking it proportional to its internal degree, running height-bounded
// push-relabel, and removing the resulting level cut into R — until a round
// produces no residual excess. It returns the accumulated R.
func Run(g *flow.Graph, phi float64, boundaryDegree BoundaryDegree) []uint32 {
	var r []uint32
	removed := map[uint32]bool{}

	capacity := int64(math.Ceil(2 / phi))
	maxHeight := int(math.Ceil(2 * math.Log(2*float64(countEdges(g))+1) / phi))

	for {
		alive := g.AliveVertices()
		if len(alive) == 0 {
			break
		}

		g.Reset()
		for _, u := range alive {
			for _, e := range g.Adj(u) {
				g.SetCapacity(u, e.To, capacity)
			}
			bd := boundaryDegree(u)
			if bd > 0 {
				g.AddSource(u, int64(math.Ceil(2*float64(bd)/phi)))
			}
			g.AddSink(u, int64(g.Degree(u)))
		}

		g.Compute(maxHeight)
		residual := hasResidualExcess(g, alive)
		if !residual {
			break
		}

		cut := g.LevelCut(maxHeight)
		if len(cut) == 0 {
			break
		}
		for _, u := range cut {
			if !removed[u] {
				removed[u] = true
				r = append(r, u)
			}
			g.Remove(u)
		}
	}
	return r
}

func hasResidualExcess(g *flow.Graph, vs []uint32) bool {
	for _, u := range vs {
		if g.Excess(u) > 0 {
			return true
		}
	}
	return false
}

func countEdges(g *flow.Graph) int {
	total := 0
	for _, u := range g.AliveVertices() {
		total += g.Degree(u)
	}
	return xmath.Max(total/2, 1)
}
