package cutmatching

import (
	"testing"

	"github.com/arborclust/edc/flow"
	"github.com/arborclust/edc/internal/xmath"
)

type testSubdivIdx struct{ n int }

func (x testSubdivIdx) Idx(v uint32) int32 {
	if int(v) >= x.n {
		return int32(int(v) - x.n)
	}
	return -1
}

// buildSubdivision builds a flow graph over the original vertices plus one
// split vertex n+i per edge i, mirroring the n+i split-vertex convention the
// decomposition driver uses.
func buildSubdivision(n int, edges [][2]uint32) (*flow.Graph, *flow.Graph, testSubdivIdx) {
	outer := flow.NewGraph(n, edges)
	sub := flow.NewGraph(n+len(edges), nil)
	for i, e := range edges {
		split := uint32(n + i)
		sub.AddEdge(e[0], split, 0)
		sub.AddEdge(split, e[1], 0)
	}
	return outer, sub, testSubdivIdx{n: n}
}

func TestProposeCut_AxLeftNeverEmpty(t *testing.T) {
	alive := []uint32{0, 1, 2, 3, 4, 5}
	f := map[uint32]float64{0: -1, 1: -0.6, 2: -0.2, 3: 0.1, 4: 0.5, 5: 0.9}
	params := Params{}
	cut := proposeCut(f, alive, len(alive), params)
	if len(cut.axLeft) == 0 {
		t.Fatalf("axLeft must never be empty")
	}
	seen := map[uint32]bool{}
	for _, v := range cut.axLeft {
		seen[v] = true
	}
	for _, v := range cut.axRight {
		if seen[v] {
			t.Errorf("vertex %d appears in both axLeft and axRight", v)
		}
	}
}

func TestProposeCut_CaseA_EvenSplitWhenAxLeftWouldBeEmpty(t *testing.T) {
	alive := []uint32{0, 1, 2, 3, 4, 5}
	f := map[uint32]float64{0: 1, 1: 1, 2: 1, 3: 1, 4: 1, 5: 1}
	params := Params{BalancedCutStrategy: true}
	cut := proposeCut(f, alive, len(alive), params)
	if len(cut.axLeft) != 3 || len(cut.axRight) != 3 {
		t.Fatalf("got axLeft=%v axRight=%v, want 3/3 split of 6 equal-flow vertices", cut.axLeft, cut.axRight)
	}
}

func TestProposeCut_BalancedCutStrategyEqualizesSizes(t *testing.T) {
	alive := make([]uint32, 20)
	f := map[uint32]float64{}
	for i := range alive {
		alive[i] = uint32(i)
		f[uint32(i)] = float64(i)
	}
	params := Params{BalancedCutStrategy: true}
	cut := proposeCut(f, alive, len(alive), params)
	if len(cut.axRight) > len(cut.axLeft) {
		t.Errorf("axRight (%d) larger than axLeft (%d) under balanced-cut strategy", len(cut.axRight), len(cut.axLeft))
	}
}

func TestRemoveLevelCutCascade_SplitRemovalCascadesToOuter(t *testing.T) {
	outer, sub, subIdx := buildSubdivision(2, [][2]uint32{{0, 1}})
	var removedOuter []uint32

	vol := removeLevelCutCascade(outer, sub, subIdx, []uint32{2}, &removedOuter, map[uint32]int{})
	if vol != 2 {
		t.Errorf("removed split volume = %v, want 2", vol)
	}
	if outer.IsAlive(0) || outer.IsAlive(1) {
		t.Errorf("expected both original vertices to cascade-remove from outer")
	}
	if len(removedOuter) != 2 {
		t.Errorf("removedOuter = %v, want both original vertices", removedOuter)
	}
}

func TestRemoveLevelCutCascade_NonSplitVertexMirroredToOuter(t *testing.T) {
	outer, sub, subIdx := buildSubdivision(3, [][2]uint32{{0, 1}, {1, 2}})
	var removedOuter []uint32

	removeLevelCutCascade(outer, sub, subIdx, []uint32{0}, &removedOuter, map[uint32]int{})
	if outer.IsAlive(0) {
		t.Errorf("expected original vertex 0 removed from outer")
	}
	if !outer.IsAlive(1) || !outer.IsAlive(2) {
		t.Errorf("removing vertex 0 alone must not cascade to 1 or 2 (their degree stays positive)")
	}
	if len(removedOuter) != 1 || removedOuter[0] != 0 {
		t.Errorf("removedOuter = %v, want [0]", removedOuter)
	}
}

func TestSolve_InvariantsHoldRegardlessOfClassification(t *testing.T) {
	edges := [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}}
	outer, sub, subIdx := buildSubdivision(6, edges)
	params := Params{Phi: 0.2, TConst: 1, TFactor: 0, MinIterations: 1, MinBalance: 0}

	res := Solve(outer, sub, subIdx, len(edges), params, xmath.New(7))

	switch res.Classification {
	case Expander:
		if len(res.R) != 0 {
			t.Errorf("Expander result has nonempty R: %v", res.R)
		}
	case Balanced, NearExpander:
		if len(res.A) == 0 {
			t.Errorf("%v result has empty A", res.Classification)
		}
	default:
		t.Errorf("unexpected classification %v", res.Classification)
	}
	if res.Iterations < 0 {
		t.Errorf("Iterations = %d, must be non-negative", res.Iterations)
	}
	if res.Congestion < 0 {
		t.Errorf("Congestion = %d, must be non-negative", res.Congestion)
	}
}
