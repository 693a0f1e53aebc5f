package cutmatching

import (
	"testing"

	"github.com/arborclust/edc/internal/xmath"
)

func TestProjectFlow_NoRounds(t *testing.T) {
	xs := []float64{0, 0.5, 1, 0.25}
	out := ProjectFlow(xs, nil)
	for i := range xs {
		if !xmath.FloatEquals(out[i], xs[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], xs[i])
		}
	}
}

func TestProjectFlow_SingleRound(t *testing.T) {
	xs := []float64{0, 0.25, 0.5, 0.25}
	out := ProjectFlow(xs, [][][2]int{{{0, 3}}})
	want := []float64{0.125, 0.25, 0.5, 0.125}
	for i := range want {
		if !xmath.FloatEquals(out[i], want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestProjectFlow_TwoRounds(t *testing.T) {
	xs := []float64{0, 0.25, 0.5, 0.25}
	out := ProjectFlow(xs, [][][2]int{{{0, 3}}, {{0, 2}}})
	want := []float64{0.3125, 0.25, 0.3125, 0.125}
	for i := range want {
		if !xmath.FloatEquals(out[i], want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestProjectFlow_PreservesSum(t *testing.T) {
	xs := []float64{0.1, -0.4, 0.9, -0.2, 0.0, 0.3}
	rounds := [][][2]int{{{0, 2}, {1, 3}}, {{4, 5}}, {{0, 4}}}
	before := xmath.Sum(xs)
	out := ProjectFlow(xs, rounds)
	after := xmath.Sum(out)
	if !xmath.FloatEquals(before, after, 1e-9) {
		t.Errorf("sum not preserved: before=%v after=%v", before, after)
	}
}
