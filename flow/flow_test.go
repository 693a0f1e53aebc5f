package flow

import (
	"testing"

	"github.com/arborclust/edc/internal/xmath"
)

func TestFlowGraph_PushRelabelUnitCapacity(t *testing.T) {
	g := NewGraph(2, nil)
	g.AddEdge(0, 1, 1)
	g.AddSource(0, 1)
	g.AddSink(1, 1)

	excess := g.Compute(10)
	if len(excess) != 0 {
		t.Fatalf("expected no residual excess, got %v", excess)
	}

	pairs := g.Matching([]uint32{0}, MatchingDFS, nil)
	if len(pairs) != 1 || pairs[0] != [2]uint32{0, 1} {
		t.Fatalf("expected matching [(0,1)], got %v", pairs)
	}
}

func TestFlowGraph_ResetZeroesFlowState(t *testing.T) {
	g := NewGraph(3, nil)
	g.AddEdge(0, 1, 5)
	g.AddEdge(1, 2, 5)
	g.AddSource(0, 3)
	g.AddSink(2, 3)
	g.Compute(10)

	g.Reset()

	for u := 0; u < g.N(); u++ {
		if g.Excess(uint32(u)) != 0 {
			t.Errorf("excess(%d) = %d after reset, want 0", u, g.Excess(uint32(u)))
		}
		for _, e := range g.AllEdges(uint32(u)) {
			if e.Data.Flow != 0 || e.Data.Congestion != 0 {
				t.Errorf("edge %d->%d not reset: flow=%d congestion=%d", u, e.To, e.Data.Flow, e.Data.Congestion)
			}
			if e.Data.Capacity == 0 {
				t.Errorf("edge %d->%d lost its capacity across reset", u, e.To)
			}
		}
	}
}

func TestFlowGraph_EdgeSymmetryAfterPush(t *testing.T) {
	g := NewGraph(4, nil)
	g.AddEdge(0, 1, 2)
	g.AddEdge(1, 2, 2)
	g.AddEdge(2, 3, 2)
	g.AddSource(0, 2)
	g.AddSink(3, 2)
	g.Compute(10)

	for u := 0; u < g.N(); u++ {
		for i, e := range g.AllEdges(uint32(u)) {
			rev := g.AllEdges(e.To)[e.RevIdx]
			if rev.Data.Flow != -e.Data.Flow {
				t.Errorf("edge %d->%d (idx %d) flow=%d, reverse flow=%d, want opposite", u, e.To, i, e.Data.Flow, rev.Data.Flow)
			}
		}
	}
}

func TestFlowGraph_MatchingUniqueness(t *testing.T) {
	g := NewGraph(6, nil)
	g.AddEdge(0, 3, 1)
	g.AddEdge(1, 3, 1)
	g.AddEdge(1, 4, 1)
	g.AddEdge(2, 4, 1)
	g.AddEdge(2, 5, 1)
	g.AddSource(0, 1)
	g.AddSource(1, 1)
	g.AddSource(2, 1)
	g.AddSink(3, 1)
	g.AddSink(4, 1)
	g.AddSink(5, 1)
	g.Compute(10)

	pairs := g.Matching([]uint32{0, 1, 2}, MatchingDFS, xmath.New(1))

	firsts := map[uint32]bool{}
	seconds := map[uint32]bool{}
	for _, p := range pairs {
		if firsts[p[0]] {
			t.Errorf("source %d matched more than once", p[0])
		}
		firsts[p[0]] = true
		if seconds[p[1]] {
			t.Errorf("sink %d matched more than once", p[1])
		}
		seconds[p[1]] = true
	}
}
