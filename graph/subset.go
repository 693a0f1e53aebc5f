// Package graph implements the dynamic subset graph: a dense, mutable
// undirected adjacency structure supporting reversible vertex removal and a
// stack of subgraph restrictions. It is the structure every other component
// builds on — the unit-flow engine embeds it directly, adding per-edge and
// per-vertex flow fields via the generic edge payload.
package graph

import "github.com/arborclust/edc/enforce"

// HalfEdge is one direction of an undirected edge. RevIdx locates the twin
// half-edge in To's adjacency list: g.adj[u][i].RevIdx = j implies
// g.adj[v][j].RevIdx = i and g.adj[v][j].To = u, where v = g.adj[u][i].To.
type HalfEdge struct {
	From, To uint32
	RevIdx   int32
}

// Edge pairs a HalfEdge with payload data. The subset graph proper uses
// Edge[struct{}]; the unit-flow engine instantiates Edge[flow data] to carry
// capacity/flow/congestion without duplicating the adjacency machinery.
type Edge[D any] struct {
	HalfEdge
	Data D
}

type status uint8

const (
	alive status = iota
	removed
	excluded
)

type removeRecord struct {
	vertex    uint32
	prevDeg   int32
	neighbors []uint32
}

type frame struct {
	excluded     []uint32
	savedDegree  map[uint32]int32
	removedMark  int
}

// Subset is the dynamic subset graph over D-valued edges, parameterized so
// the unit-flow engine can embed it directly rather than wrapping it.
type Subset[D any] struct {
	adj    [][]Edge[D]
	degree []int32
	stat   []status

	aliveList []uint32
	alivePos  []int32 // position of vertex within aliveList, or -1

	removedList []uint32

	removeStack []removeRecord
	frames      []frame
}

// NewSubset builds a subset graph on n vertices (0..n-1) from a list of
// undirected edges. Self-loops and duplicate edges are dropped, matching the
// loader's contract; initial edge payload is the zero value of D.
func NewSubset[D any](n int, edges [][2]uint32) *Subset[D] {
	g := &Subset[D]{
		adj:       make([][]Edge[D], n),
		degree:    make([]int32, n),
		stat:      make([]status, n),
		aliveList: make([]uint32, n),
		alivePos:  make([]int32, n),
	}
	for i := 0; i < n; i++ {
		g.aliveList[i] = uint32(i)
		g.alivePos[i] = int32(i)
	}
	seen := make(map[[2]uint32]bool, len(edges))
	for _, e := range edges {
		u, v := e[0], e[1]
		if u == v {
			continue
		}
		if u > v {
			u, v = v, u
		}
		key := [2]uint32{u, v}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.AddEdge(u, v, *new(D))
	}
	return g
}

// AddEdge appends a symmetric pair of half-edges carrying data, wiring up
// RevIdx for both directions and counting both as alive (the caller is
// responsible for not adding an edge whose endpoint is removed/excluded).
func (g *Subset[D]) AddEdge(u, v uint32, data D) {
	enforce.ENFORCE(u != v, "no self-loops")
	iu := len(g.adj[u])
	iv := len(g.adj[v])
	g.adj[u] = append(g.adj[u], Edge[D]{HalfEdge: HalfEdge{From: u, To: v, RevIdx: int32(iv)}, Data: data})
	g.adj[v] = append(g.adj[v], Edge[D]{HalfEdge: HalfEdge{From: v, To: u, RevIdx: int32(iu)}, Data: data})
	g.degree[u]++
	g.degree[v]++
}

// N is the total vertex capacity (alive + removed + excluded).
func (g *Subset[D]) N() int { return len(g.adj) }

func (g *Subset[D]) IsAlive(u uint32) bool    { return g.stat[u] == alive }
func (g *Subset[D]) IsRemoved(u uint32) bool  { return g.stat[u] == removed }
func (g *Subset[D]) IsExcluded(u uint32) bool { return g.stat[u] == excluded }

// Degree is the number of currently-alive neighbors of u.
func (g *Subset[D]) Degree(u uint32) int { return int(g.degree[u]) }

// Adj returns the alive-prefix of u's adjacency list. The returned slice
// aliases the backing array: mutating Data fields through it is the intended
// way for the flow engine to update per-edge flow/congestion.
func (g *Subset[D]) Adj(u uint32) []Edge[D] { return g.adj[u][:g.degree[u]] }

// AllEdges returns every half-edge of u, including ones beyond the degree
// watermark (to removed/excluded neighbors). Used by the flow engine's
// Reset/SetCapacity and by the cut-matching congestion scan.
func (g *Subset[D]) AllEdges(u uint32) []Edge[D] { return g.adj[u] }

// EdgeAt exposes a mutable pointer to a specific half-edge, for callers that
// need to update Data by position (e.g. setting capacities after construction,
// or symmetric flow updates via the reverse index).
func (g *Subset[D]) EdgeAt(u uint32, idx int) *Edge[D] { return &g.adj[u][idx] }

// Reverse returns a mutable pointer to e's twin half-edge.
func (g *Subset[D]) Reverse(e *Edge[D]) *Edge[D] { return g.EdgeAt(e.To, int(e.RevIdx)) }

// AliveVertices returns the current alive list. The caller must not mutate
// the slice; it aliases internal state and is invalidated by any Remove or
// Subgraph call.
func (g *Subset[D]) AliveVertices() []uint32 { return g.aliveList }

func (g *Subset[D]) AliveSize() int { return len(g.aliveList) }

// RemovedVertices returns vertices removed, in removal order (oldest first).
func (g *Subset[D]) RemovedVertices() []uint32 { return g.removedList }

// hideAt removes the half-edge at position pos in v's own adjacency list from
// v's alive prefix: swap with the last alive entry, shrink degree(v) by one,
// and fix the RevIdx of both moved entries so their twins still point back
// correctly. This is the one primitive both Remove and Subgraph build on.
func (g *Subset[D]) hideAt(v uint32, pos int) {
	last := int(g.degree[v]) - 1
	if pos != last {
		g.adj[v][pos], g.adj[v][last] = g.adj[v][last], g.adj[v][pos]
		g.fixRev(v, pos)
		g.fixRev(v, last)
	}
	g.degree[v]--
}

func (g *Subset[D]) fixRev(v uint32, pos int) {
	e := g.adj[v][pos]
	g.adj[e.To][e.RevIdx].RevIdx = int32(pos)
}

// Remove marks u removed: moves it from the alive list to the removed list
// and, for every alive neighbor v of u, hides the back-edge v->u behind v's
// degree watermark. O(deg u).
func (g *Subset[D]) Remove(u uint32) {
	enforce.ENFORCE(g.stat[u] == alive, "Remove on non-alive vertex")

	rec := removeRecord{vertex: u, prevDeg: g.degree[u]}
	rec.neighbors = make([]uint32, g.degree[u])
	for i := 0; i < int(g.degree[u]); i++ {
		rec.neighbors[i] = g.adj[u][i].To
	}
	for _, e := range g.adj[u][:g.degree[u]] {
		g.hideAt(e.To, int(e.RevIdx))
	}
	g.degree[u] = 0

	g.removeFromAliveList(u)
	g.stat[u] = removed
	g.removedList = append(g.removedList, u)
	g.removeStack = append(g.removeStack, rec)
}

func (g *Subset[D]) removeFromAliveList(u uint32) {
	pos := g.alivePos[u]
	last := len(g.aliveList) - 1
	g.aliveList[pos] = g.aliveList[last]
	g.alivePos[g.aliveList[pos]] = pos
	g.aliveList = g.aliveList[:last]
	g.alivePos[u] = -1
}

func (g *Subset[D]) addToAliveList(u uint32) {
	g.alivePos[u] = int32(len(g.aliveList))
	g.aliveList = append(g.aliveList, u)
}

// RestoreRemoves undoes all Removes performed since the current frame's
// entry point (or since the start, if the frame stack is empty), in reverse
// order, restoring every touched degree watermark symmetrically.
func (g *Subset[D]) RestoreRemoves() {
	floor := 0
	if len(g.frames) > 0 {
		floor = g.frames[len(g.frames)-1].removedMark
	}
	for len(g.removeStack) > floor {
		rec := g.removeStack[len(g.removeStack)-1]
		g.removeStack = g.removeStack[:len(g.removeStack)-1]
		g.unremove(rec)
	}
}

func (g *Subset[D]) unremove(rec removeRecord) {
	g.degree[rec.vertex] = rec.prevDeg
	for _, v := range rec.neighbors {
		g.degree[v]++
	}
	g.removedList = g.removedList[:len(g.removedList)-1]
	g.stat[rec.vertex] = alive
	g.addToAliveList(rec.vertex)
}

// Subgraph pushes a frame restricting the alive set to keep. Every currently
// alive vertex not in keep becomes excluded: hidden from iteration, degree
// counts, and edge traversal, until RestoreSubgraph pops this frame.
func (g *Subset[D]) Subgraph(keep []uint32) {
	isKept := make(map[uint32]bool, len(keep))
	for _, v := range keep {
		isKept[v] = true
	}

	excludedSet := make([]uint32, 0)
	for _, v := range g.aliveList {
		if !isKept[v] {
			excludedSet = append(excludedSet, v)
		}
	}
	isExcluded := make(map[uint32]bool, len(excludedSet))
	for _, v := range excludedSet {
		isExcluded[v] = true
	}

	f := frame{
		excluded:    excludedSet,
		savedDegree: make(map[uint32]int32, len(keep)),
		removedMark: len(g.removeStack),
	}
	for _, v := range keep {
		f.savedDegree[v] = g.degree[v]
	}

	// Only scan retained vertices' own adjacency; an edge between two
	// excluded vertices needs no touching since neither endpoint is
	// iterated while excluded.
	for _, v := range keep {
		i := 0
		for i < int(g.degree[v]) {
			if isExcluded[g.adj[v][i].To] {
				g.hideAt(v, i)
			} else {
				i++
			}
		}
	}

	for _, x := range excludedSet {
		g.removeFromAliveList(x)
		g.stat[x] = excluded
	}

	g.frames = append(g.frames, f)
}

// RestoreSubgraph pops the top frame, reinstating excluded vertices and
// restoring the retained vertices' degree watermarks.
func (g *Subset[D]) RestoreSubgraph() {
	enforce.ENFORCE(len(g.frames) > 0, "RestoreSubgraph with no pushed frame")
	f := g.frames[len(g.frames)-1]
	g.frames = g.frames[:len(g.frames)-1]

	for v, d := range f.savedDegree {
		g.degree[v] = d
	}
	for _, x := range f.excluded {
		g.stat[x] = alive
		g.addToAliveList(x)
	}
}

// SubdivisionVertices returns subset's closed neighborhood under the current
// subgraph/remove restriction: subset itself plus every alive neighbor of
// each vertex in subset. Used by the decomposition driver to build the
// recursive subproblem's vertex set for the subdivision flow graph.
func (g *Subset[D]) SubdivisionVertices(subset []uint32) []uint32 {
	seen := make(map[uint32]bool, len(subset)*2)
	out := make([]uint32, 0, len(subset)*2)
	for _, u := range subset {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
		for _, e := range g.Adj(u) {
			if !seen[e.To] {
				seen[e.To] = true
				out = append(out, e.To)
			}
		}
	}
	return out
}
