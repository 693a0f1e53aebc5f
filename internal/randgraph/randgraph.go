// Package randgraph generates random test graphs for benchmarks and
// property tests, grounded in the teacher's cmd/lp-sssp/rand-graph.go use of
// gonum.org/v1/gonum/graph/simple to build and deduplicate edge sets.
package randgraph

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/arborclust/edc/internal/xmath"
	"github.com/arborclust/edc/loader"
)

// ErdosRenyi builds a G(n, p) random undirected graph: every unordered pair
// of vertices is joined independently with probability p. Using
// simple.UndirectedGraph as scaffolding gets edge deduplication and
// self-loop rejection for free via SetEdge's node-identity semantics, the
// same way the teacher's generator leans on simple.WeightedDirectedGraph's
// HasEdgeFromTo check.
func ErdosRenyi(n int, p float64, rng *xmath.RNG) *loader.Graph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
			}
		}
	}
	return toLoaderGraph(n, g)
}

// Barbell builds two cliques of size clusterSize joined by a single bridge
// edge between one vertex of each — a minimal-conductance graph used to
// exercise the Balanced classification path and the edge-cut-bound
// property test, since the bridge is the unique near-zero-conductance cut.
func Barbell(clusterSize int) *loader.Graph {
	n := 2 * clusterSize
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for i := 0; i < clusterSize; i++ {
		for j := i + 1; j < clusterSize; j++ {
			g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
		}
	}
	for i := clusterSize; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
		}
	}
	g.SetEdge(simple.Edge{F: simple.Node(int64(0)), T: simple.Node(int64(clusterSize))})
	return toLoaderGraph(n, g)
}

func toLoaderGraph(n int, g *simple.UndirectedGraph) *loader.Graph {
	out := &loader.Graph{N: n}
	edges := g.Edges()
	for edges.Next() {
		e := edges.Edge()
		out.Edges = append(out.Edges, [2]uint32{uint32(e.From().ID()), uint32(e.To().ID())})
	}
	return out
}

// ConnectedVertices returns, via a Dijkstra shortest-path search rooted at
// vertex 0 with unit edge weights, every vertex reachable from it. This is
// an independent connectivity oracle used only by tests — it does not share
// code with the decomposition driver's own graph types, so it can catch a
// randgraph generator bug the driver's own traversal would not notice.
func ConnectedVertices(g *loader.Graph) map[uint32]bool {
	sg := simple.NewUndirectedGraph()
	for i := 0; i < g.N; i++ {
		sg.AddNode(simple.Node(int64(i)))
	}
	for _, e := range g.Edges {
		sg.SetEdge(simple.Edge{F: simple.Node(int64(e[0])), T: simple.Node(int64(e[1]))})
	}
	if g.N == 0 {
		return map[uint32]bool{}
	}
	shortest := path.DijkstraFrom(sg.Node(0), sg)
	out := map[uint32]bool{0: true}
	for i := 1; i < g.N; i++ {
		if _, weight := shortest.To(int64(i)); weight < math.Inf(1) {
			out[uint32(i)] = true
		}
	}
	return out
}
