// Package decompose implements the recursive decomposition driver: it owns
// the flow graph and its subdivision flow graph for the whole run, and
// repeatedly scopes them down to one subset at a time via cut-matching (C),
// trimming (D), and recursion, building up a partition of the input graph
// into pieces that are each, within tolerance, an expander.
package decompose

import (
	"github.com/rs/zerolog/log"

	"github.com/arborclust/edc/cutmatching"
	"github.com/arborclust/edc/flow"
	"github.com/arborclust/edc/internal/xmath"
	"github.com/arborclust/edc/trim"
	"github.com/arborclust/edc/utils"
)

// Driver owns the persistent graph state for one decomposition run.
type Driver struct {
	outer  *flow.Graph
	sub    *flow.Graph
	subIdx *SubdivIndex
	m      int

	params Params
	rng    *xmath.RNG
	parts  *Partitions
}

// Params bundles the cut-matching parameters with the trimming conductance
// target (the same φ governs both, per the driver's single-parameter
// contract at the CLI surface).
type Params struct {
	CutMatching cutmatching.Params
}

// New builds a driver over n vertices and the given undirected edges. The
// subdivision flow graph is constructed once up front: split vertex n+i for
// the i-th input edge.
func New(n int, edges [][2]uint32, params Params, rng *xmath.RNG) *Driver {
	outer := flow.NewGraph(n, edges)
	m := len(edges)
	sub := flow.NewGraph(n+m, nil)
	for i, e := range edges {
		split := uint32(n + i)
		sub.AddEdge(e[0], split, 0)
		sub.AddEdge(split, e[1], 0)
	}
	return &Driver{
		outer:  outer,
		sub:    sub,
		subIdx: NewSubdivIndex(n, m),
		m:      m,
		params: params,
		rng:    rng,
		parts:  &Partitions{},
	}
}

// Run decomposes the whole graph and returns the resulting partition, each
// entry a list of original-graph vertex ids.
func (d *Driver) Run() [][]uint32 {
	root := d.parts.New(-1)
	d.compute(d.outer.AliveVertices(), root)
	return d.parts.Parts()
}

// compute classifies xs via one cut-matching solve and either records it as
// an expander partition, splits it into two recursive subproblems, or peels
// off and trims a near-expander boundary before recursing on what's left to
// trim. Every Subgraph push this call makes is fully unwound (both
// RestoreRemoves and RestoreSubgraph) before compute returns, so each
// recursive call always starts from the graph's fully-restored state and
// re-derives its own restriction independently — no state is shared between
// sibling branches beyond the partition map itself.
func (d *Driver) compute(xs []uint32, p PartitionID) {
	if len(xs) == 0 {
		return
	}

	subVerts := d.sub.SubdivisionVertices(xs)
	d.outer.Subgraph(xs)
	d.sub.Subgraph(subVerts)

	res := cutmatching.Solve(d.outer, d.sub, d.subIdx, d.m, d.params.CutMatching, d.rng)

	log.Debug().
		Int("subset_size", len(xs)).
		Str("classification", res.Classification.String()).
		Int("iterations", res.Iterations).
		Int64("congestion", res.Congestion).
		Msg("cut-matching round")

	d.sub.RestoreRemoves()
	d.outer.RestoreRemoves()
	d.sub.RestoreSubgraph()
	d.outer.RestoreSubgraph()

	switch res.Classification {
	case cutmatching.Expander:
		d.parts.Append(p, res.A)

	case cutmatching.Balanced:
		leftID := d.parts.New(p)
		rightID := d.parts.New(p)
		d.compute(res.A, leftID)
		d.compute(res.R, rightID)

	case cutmatching.NearExpander:
		trimmedR := d.trimCandidate(res.R, res.RemovedDegree)
		kept := setDiff(xs, trimmedR)
		d.parts.Append(p, kept)
		if len(trimmedR) > 0 && len(trimmedR) < len(xs) {
			newID := d.parts.New(p)
			d.compute(trimmedR, newID)
		}
	}
}

// trimCandidate runs the trimming solver on candidate, a piece cut-matching
// already peeled off of xs. fullDeg is candidate's per-vertex degree within
// xs, captured by Solve at removal time since outer no longer has it once
// the vertex is gone. It returns the vertices trim decided to peel further.
func (d *Driver) trimCandidate(candidate []uint32, fullDeg map[uint32]int) []uint32 {
	if len(candidate) == 0 {
		return nil
	}

	d.outer.Subgraph(candidate)
	boundaryDegree := func(u uint32) int {
		return fullDeg[u] - d.outer.Degree(u)
	}
	trimmed := trim.Run(d.outer, d.params.CutMatching.Phi, boundaryDegree)
	d.outer.RestoreRemoves()
	d.outer.RestoreSubgraph()
	return trimmed
}

// setDiff returns all minus remove. Vertex ids are dense over [0,n), so the
// exclusion set is a plain bitmap rather than a map.
func setDiff(all, remove []uint32) []uint32 {
	var excluded utils.Bitmap
	for _, v := range remove {
		excluded.Set(v)
	}
	out := make([]uint32, 0, len(all)-len(remove))
	for _, v := range all {
		if !excluded.Get(v) {
			out = append(out, v)
		}
	}
	return out
}
