package trim

import (
	"testing"

	"github.com/arborclust/edc/flow"
)

func TestRun_NoBoundaryNeverRemovesAnything(t *testing.T) {
	g := flow.NewGraph(4, [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	r := Run(g, 0.5, func(u uint32) int { return 0 })
	if len(r) != 0 {
		t.Fatalf("expected no removals with zero boundary degree, got %v", r)
	}
	if g.AliveSize() != 4 {
		t.Errorf("AliveSize = %d, want 4 (nothing should have been removed)", g.AliveSize())
	}
}

func TestRun_TerminatesAndRemovesSubsetOfVertices(t *testing.T) {
	g := flow.NewGraph(5, [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}})
	boundary := map[uint32]int{0: 3, 1: 1}
	r := Run(g, 0.3, func(u uint32) int { return boundary[u] })

	seen := map[uint32]bool{}
	for _, v := range r {
		if seen[v] {
			t.Errorf("vertex %d appears twice in R", v)
		}
		seen[v] = true
		if v >= 5 {
			t.Errorf("R contains out-of-range vertex %d", v)
		}
	}
}
