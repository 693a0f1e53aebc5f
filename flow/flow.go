// Package flow implements the unit-flow engine: a subset graph (component A)
// extended with per-edge capacity/flow/congestion and per-vertex
// absorbed/sink/height/nextEdgeIdx fields, plus a height-bounded
// preflow-push engine, level-cut extraction, and matching extraction.
package flow

import (
	"math"
	"sort"

	"github.com/arborclust/edc/enforce"
	"github.com/arborclust/edc/graph"
	"github.com/arborclust/edc/internal/xmath"
	"github.com/arborclust/edc/utils"
)

// Data is the per-edge payload carried by the embedded subset graph.
type Data struct {
	Capacity, Flow, Congestion int64
}

// Graph is the unit-flow graph. It embeds *graph.Subset[Data] directly so
// Remove/Subgraph/RestoreSubgraph/RestoreRemoves/SubdivisionVertices all
// carry over unchanged; this package adds only the flow-specific state.
type Graph struct {
	*graph.Subset[Data]

	absorbed    []int64
	sink        []int64
	height      []int32
	nextEdgeIdx []int32
}

// NewGraph builds a flow graph on n vertices with the given undirected
// edges, each starting at capacity 0 (the driver sets capacities afterward
// via EdgeAt, matching how subdivision edges get their capacity assigned
// once φ and T are known).
func NewGraph(n int, edges [][2]uint32) *Graph {
	return &Graph{
		Subset:      graph.NewSubset[Data](n, edges),
		absorbed:    make([]int64, n),
		sink:        make([]int64, n),
		height:      make([]int32, n),
		nextEdgeIdx: make([]int32, n),
	}
}

// AddEdge adds a fresh undirected edge with the given capacity.
func (g *Graph) AddEdge(u, v uint32, capacity int64) {
	g.Subset.AddEdge(u, v, Data{Capacity: capacity})
}

// SetCapacity sets the capacity of every half-edge between u and v (both
// directions), used to assign subdivision-edge capacities after T and φ are
// known.
func (g *Graph) SetCapacity(u, v uint32, capacity int64) {
	for i, e := range g.AllEdges(u) {
		if e.To == v {
			g.EdgeAt(u, i).Data.Capacity = capacity
			g.Reverse(g.EdgeAt(u, i)).Data.Capacity = capacity
			return
		}
	}
	enforce.ENFORCE(false, "SetCapacity: no edge", u, v)
}

func (g *Graph) AddSource(u uint32, k int64) { g.absorbed[u] += k }
func (g *Graph) AddSink(u uint32, k int64)   { g.sink[u] += k }

func (g *Graph) Excess(u uint32) int64 { return g.absorbed[u] - g.sink[u] }
func (g *Graph) Height(u uint32) int32 { return g.height[u] }
func (g *Graph) Sink(u uint32) int64   { return g.sink[u] }

// Reset zeros flow, absorbed, sink, congestion, and nextEdgeIdx across every
// vertex/edge (alive or not), preserving capacities and topology. Height is
// re-initialized by Compute itself, since each cut-matching round may invoke
// Compute with a different height cap.
func (g *Graph) Reset() {
	for u := 0; u < g.N(); u++ {
		g.absorbed[u] = 0
		g.sink[u] = 0
		g.nextEdgeIdx[u] = 0
		for i := range g.AllEdges(uint32(u)) {
			e := g.EdgeAt(uint32(u), i)
			e.Data.Flow = 0
			e.Data.Congestion = 0
		}
	}
}

type pqItem struct {
	vertex uint32
	height int32
}

func (a pqItem) Less(b pqItem) bool { return a.height < b.height }

// Compute runs height-bounded preflow-push from the current absorbed/sink
// state and returns the vertices left with positive excess (the level-cut
// seed). maxHeight caps the run at min(maxHeight, 2n+1).
func (g *Graph) Compute(maxHeight int) []uint32 {
	maxH := int32(xmath.Min(maxHeight, 2*g.N()+1))

	var pq utils.PQ[pqItem]
	for _, u := range g.AliveVertices() {
		g.height[u] = 0
		g.nextEdgeIdx[u] = 0
		if g.Excess(u) > 0 {
			pq.Push(pqItem{u, 0})
		}
	}

	for len(pq) > 0 {
		top := pq.Pop()
		u := top.vertex
		if g.height[u] != top.height || g.Excess(u) <= 0 || g.height[u] >= maxH {
			continue // stale entry: height or excess changed since this was queued
		}
		g.step(u, maxH, &pq)
	}

	var excess []uint32
	for _, u := range g.AliveVertices() {
		if g.Excess(u) > 0 {
			excess = append(excess, u)
		}
	}
	return excess
}

// step performs exactly one push, relabel, or edge-cursor advance on u, then
// re-enqueues u if it still has excess. Acting one step at a time and
// re-peeking the global minimum-height active vertex afterward (rather than
// draining u's excess in an inner loop) is what keeps "a push target has
// no positive excess beforehand" true: u cannot push into the same neighbor v
// twice in a row, since v's height is one less than u's and the queue's
// height ordering always surfaces v before u gets another turn.
func (g *Graph) step(u uint32, maxH int32, pq *utils.PQ[pqItem]) {
	if g.Degree(u) == 0 {
		g.height[u] = maxH // isolated with excess: nothing to push to, stop revisiting it
		return
	}
	if int(g.nextEdgeIdx[u]) >= g.Degree(u) {
		g.height[u]++
		g.nextEdgeIdx[u] = 0
		if g.height[u] < maxH && g.Excess(u) > 0 {
			pq.Push(pqItem{u, g.height[u]})
		}
		return
	}

	e := g.EdgeAt(u, int(g.nextEdgeIdx[u]))
	v := e.To
	residual := e.Data.Capacity - e.Data.Flow

	if residual > 0 && g.height[u] == g.height[v]+1 {
		enforce.ENFORCE(g.Excess(v) <= 0, "unit-flow push target had positive excess")
		delta := xmath.Min(g.Excess(u), residual)
		delta = xmath.Min(delta, int64(g.Degree(v)))

		e.Data.Flow += delta
		rev := g.Reverse(e)
		rev.Data.Flow -= delta
		g.absorbed[u] -= delta
		g.absorbed[v] += delta
		e.Data.Congestion += delta

		if g.height[v] < maxH {
			pq.Push(pqItem{v, g.height[v]})
		}
		if g.Excess(u) > 0 && g.height[u] < maxH {
			pq.Push(pqItem{u, g.height[u]})
		}
		return
	}

	g.nextEdgeIdx[u]++
	if g.Excess(u) > 0 {
		pq.Push(pqItem{u, g.height[u]})
	}
}

// LevelCut scans alive vertices by descending height, evaluating the
// boundary-capacity/min-volume ratio of the prefix "height >= h" for each
// distinct height, and returns the prefix minimizing that ratio (ties
// broken toward the smaller prefix).
func (g *Graph) LevelCut(maxHeight int) []uint32 {
	alive := g.AliveVertices()
	if len(alive) == 0 {
		return nil
	}

	buckets := make(map[int32][]uint32)
	var heights []int32
	totalVol := 0
	for _, u := range alive {
		h := g.height[u]
		if _, ok := buckets[h]; !ok {
			heights = append(heights, h)
		}
		buckets[h] = append(buckets[h], u)
		totalVol += g.Degree(u)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] > heights[j] })

	inPrefix := make(map[uint32]bool, len(alive))
	var prefixMembers []uint32
	prefixVol := 0

	var best []uint32
	bestRatio := math.Inf(1)
	boundary := int64(0)

	for _, h := range heights {
		bucket := buckets[h]
		newlySet := make(map[uint32]bool, len(bucket))
		for _, u := range bucket {
			newlySet[u] = true
		}

		for _, u := range bucket {
			for _, e := range g.Adj(u) {
				switch {
				case inPrefix[e.To]:
					boundary -= e.Data.Capacity
				case newlySet[e.To]:
					// both endpoints newly in the prefix: stays internal
				default:
					boundary += e.Data.Capacity
				}
			}
		}

		for _, u := range bucket {
			inPrefix[u] = true
			prefixMembers = append(prefixMembers, u)
			prefixVol += g.Degree(u)
		}

		otherVol := totalVol - prefixVol
		if prefixVol == 0 || otherVol == 0 {
			continue
		}

		minVol := xmath.Min(prefixVol, otherVol)
		ratio := float64(boundary) / float64(minVol)
		if ratio < bestRatio || (ratio == bestRatio && len(prefixMembers) < len(best)) {
			bestRatio = ratio
			best = append(best[:0:0], prefixMembers...)
		}
	}
	return best
}

// MatchingMethod selects how neighbor edges are ordered during the DFS walk
// from a source to an unclaimed sink.
type MatchingMethod int

const (
	MatchingDFS MatchingMethod = iota
	MatchingRandom
)

// Matching extracts a source->sink matching from the current flow: for each
// source, DFS along positive-flow edges to the first unclaimed vertex with
// sink demand, decrement flow by 1 along the path used, and decrement the
// matched sink's absorbed amount by 1. No vertex appears in more than one
// pair.
func (g *Graph) Matching(sources []uint32, method MatchingMethod, rng *xmath.RNG) [][2]uint32 {
	matchedSink := make(map[uint32]bool)
	var pairs [][2]uint32

	for _, s := range sources {
		path, target, ok := g.dfsToSink(s, matchedSink, method, rng)
		if !ok {
			continue
		}
		for _, st := range path {
			e := g.EdgeAt(st.u, st.idx)
			e.Data.Flow--
			rev := g.Reverse(e)
			rev.Data.Flow++
		}
		g.absorbed[target]--
		matchedSink[target] = true
		pairs = append(pairs, [2]uint32{s, target})
	}
	return pairs
}

type dfsStep struct {
	u   uint32
	idx int
}

func (g *Graph) dfsToSink(s uint32, matchedSink map[uint32]bool, method MatchingMethod, rng *xmath.RNG) ([]dfsStep, uint32, bool) {
	visited := map[uint32]bool{s: true}
	var path []dfsStep
	var target uint32
	found := false

	var walk func(u uint32) bool
	walk = func(u uint32) bool {
		edges := g.Adj(u)
		order := make([]int, len(edges))
		for i := range order {
			order[i] = i
		}
		if method == MatchingRandom && rng != nil && len(order) > 1 {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		for _, idx := range order {
			e := edges[idx]
			if e.Data.Flow <= 0 || visited[e.To] {
				continue
			}
			visited[e.To] = true
			path = append(path, dfsStep{u, idx})
			if g.sink[e.To] > 0 && !matchedSink[e.To] {
				target = e.To
				found = true
				return true
			}
			if walk(e.To) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}

	walk(s)
	return path, target, found
}
