// Package cutmatching implements the cut-matching game: a φ-conductance
// tester that, given a subset and its subdivision flow graph, either
// certifies the subset is an expander, finds a balanced bipartition of it,
// or finds a small boundary-linked piece to peel off and trim.
package cutmatching

import (
	"math"
	"sort"

	"github.com/arborclust/edc/enforce"
	"github.com/arborclust/edc/flow"
	"github.com/arborclust/edc/internal/xmath"
	"gonum.org/v1/gonum/stat"
)

// Classification is the outcome a single Solve call reports for its subset.
type Classification int

const (
	Expander Classification = iota
	NearExpander
	Balanced
)

func (c Classification) String() string {
	switch c {
	case Expander:
		return "Expander"
	case NearExpander:
		return "NearExpander"
	case Balanced:
		return "Balanced"
	default:
		return "Unknown"
	}
}

// Params configures one Solve invocation. Phi is the conductance target; the
// rest tune the round count, termination, and cut-player heuristics.
type Params struct {
	Phi                 float64
	TConst              int
	TFactor             float64
	MinIterations       int
	MinBalance          float64
	SamplePotential     bool
	BalancedCutStrategy bool
	ResampleUnitVector  bool
	RandomWalkSteps     int
}

// SubdivIndex lets the solver tell split (subdivision) vertices apart from
// pass-through original vertices without importing the decomposition
// package's concrete type, which owns subdivIdx across the whole run.
type SubdivIndex interface {
	Idx(v uint32) int32
}

// Result reports what Solve found. A and R are original-graph vertex ids:
// for Balanced, A/R are the two sides of the bipartition; for NearExpander,
// A is what remains after trimming-candidate removal and R is what was
// peeled off; for Expander, A is the whole input subset and R is empty.
type Result struct {
	Classification      Classification
	A                    []uint32
	R                    []uint32
	Iterations           int
	Congestion           int64
	PotentialTrajectory  []float64

	// RemovedDegree records, for each vertex in R, its degree within the
	// input subset at the moment it was cut away — the trimming solver
	// needs exactly this as its boundary-degree input, and it is only
	// available here since by the time Solve returns the vertex is gone
	// from outer (degree reads back as zero).
	RemovedDegree map[uint32]int
}

const potentialSampleWidth = 8

// Solve runs the cut-matching game on outer (the current subset's flow
// graph) and sub (its subdivision flow graph), both already Subgraph-scoped
// by the caller to this call's vertex set. m is the edge count of the
// top-level input graph (T and the subdivision edge capacity are computed
// against it, not against the current subset's local size).
func Solve(outer, sub *flow.Graph, subIdx SubdivIndex, m int, params Params, rng *xmath.RNG) Result {
	xs := append([]uint32(nil), outer.AliveVertices()...)

	minIter := params.MinIterations
	if minIter < 1 {
		minIter = 1
	}
	logm := math.Log10(float64(xmath.Max(m, 2)))
	T := xmath.Max(minIter, params.TConst+int(math.Ceil(params.TFactor*logm*logm)))
	capacity := int64(math.Ceil(1 / (params.Phi * float64(T))))

	for _, v := range sub.AliveVertices() {
		for _, e := range sub.Adj(v) {
			if v < e.To {
				sub.SetCapacity(v, e.To, capacity)
			}
		}
	}

	globalVolume := volume(outer, outer.AliveVertices())
	targetBalance := xmath.Max(float64(m)/(10*float64(T)), params.MinBalance*globalVolume)

	f := initFlowVector(sub, subIdx, rng)
	var matrix map[uint32][]float64
	if params.SamplePotential {
		matrix = initFlowMatrix(sub, subIdx, rng)
	}

	var trajectory []float64
	var roundsLog [][][2]uint32
	removedOuter := []uint32{}
	removedDegree := map[uint32]int{}
	removedSplitVol := 0.0
	iterations := 0

	for round := 0; round < T; round++ {
		if removedSplitVol > targetBalance {
			break
		}

		aliveSplits := splitVertices(sub, subIdx)
		if len(aliveSplits) == 0 {
			break
		}

		if params.ResampleUnitVector {
			fresh := make(map[uint32]float64, len(aliveSplits))
			draws := rng.PlusMinusOne(len(aliveSplits))
			count := float64(len(aliveSplits))
			for i, v := range aliveSplits {
				fresh[v] = draws[i] / count
			}
			for step := 0; step < params.RandomWalkSteps; step++ {
				fresh = reproject(fresh, roundsLog)
			}
			f = fresh
		}

		if params.SamplePotential {
			trajectory = append(trajectory, potentialOf(f, aliveSplits))
		}

		cut := proposeCut(f, aliveSplits, len(aliveSplits), params)

		sub.Reset()
		for _, s := range cut.axLeft {
			sub.AddSource(s, 1)
		}
		for _, t := range cut.axRight {
			sub.AddSink(t, 1)
		}

		m2 := xmath.Max(2, len(aliveSplits))
		logm2 := math.Log10(float64(m2))
		h := xmath.Max(int(math.Ceil(1/(params.Phi*logm2))), int(math.Ceil(logm2)))

		sub.Compute(h)
		levelCut := sub.LevelCut(h)

		if len(levelCut) > 0 {
			vol := removeLevelCutCascade(outer, sub, subIdx, levelCut, &removedOuter, removedDegree)
			removedSplitVol += vol
			pruneRemoved(f, roundsLog, levelCut)
		}

		remainingSources := aliveOf(sub, cut.axLeft)
		pairs := sub.Matching(remainingSources, flow.MatchingDFS, rng)
		var roundPairs [][2]uint32
		for _, p := range pairs {
			averagePair(f, p[0], p[1])
			if matrix != nil {
				averageMatrixRow(matrix, p[0], p[1])
			}
			roundPairs = append(roundPairs, p)
		}
		roundsLog = append(roundsLog, roundPairs)

		iterations++
	}

	maxCong := int64(0)
	for v := 0; v < sub.N(); v++ {
		for _, e := range sub.AllEdges(uint32(v)) {
			if e.Data.Congestion > maxCong {
				maxCong = e.Data.Congestion
			}
		}
	}
	congestion := maxCong * int64(xmath.Max(iterations, 1))

	S := outer.AliveSize()
	R := len(xs) - S

	switch {
	case S > 0 && R > 0 && removedSplitVol > float64(m)/(10*float64(T)):
		return Result{
			Classification:      Balanced,
			A:                   append([]uint32(nil), outer.AliveVertices()...),
			R:                   removedOuter,
			Iterations:          iterations,
			Congestion:          congestion,
			PotentialTrajectory: trajectory,
			RemovedDegree:       removedDegree,
		}
	case R == 0:
		return Result{
			Classification:      Expander,
			A:                   xs,
			Iterations:          iterations,
			Congestion:          congestion,
			PotentialTrajectory: trajectory,
		}
	case S == 0:
		outer.RestoreRemoves()
		sub.RestoreRemoves()
		return Result{
			Classification:      Expander,
			A:                   xs,
			Iterations:          iterations,
			Congestion:          congestion,
			PotentialTrajectory: trajectory,
		}
	default:
		return Result{
			Classification:      NearExpander,
			A:                   append([]uint32(nil), outer.AliveVertices()...),
			R:                   removedOuter,
			Iterations:          iterations,
			Congestion:          congestion,
			PotentialTrajectory: trajectory,
			RemovedDegree:       removedDegree,
		}
	}
}

func aliveOf(g *flow.Graph, vs []uint32) []uint32 {
	out := make([]uint32, 0, len(vs))
	for _, v := range vs {
		if g.IsAlive(v) {
			out = append(out, v)
		}
	}
	return out
}

func splitVertices(sub *flow.Graph, subIdx SubdivIndex) []uint32 {
	var out []uint32
	for _, v := range sub.AliveVertices() {
		if subIdx.Idx(v) >= 0 {
			out = append(out, v)
		}
	}
	return out
}

func volume(g *flow.Graph, vs []uint32) float64 {
	total := 0
	for _, v := range vs {
		total += g.Degree(v)
	}
	return float64(total)
}

// initFlowVector draws a fresh random ±1 vector over the alive split
// vertices, normalized by their count: Case C's mu/upper thresholds are
// additive offsets of size O(l/m'), built assuming f is already O(1/m'), so
// f must be scaled down here rather than left as raw ±1.
func initFlowVector(sub *flow.Graph, subIdx SubdivIndex, rng *xmath.RNG) map[uint32]float64 {
	splits := splitVertices(sub, subIdx)
	f := make(map[uint32]float64, len(splits))
	draws := rng.PlusMinusOne(len(splits))
	count := float64(len(splits))
	for i, v := range splits {
		f[v] = draws[i] / count
	}
	return f
}

func initFlowMatrix(sub *flow.Graph, subIdx SubdivIndex, rng *xmath.RNG) map[uint32][]float64 {
	splits := splitVertices(sub, subIdx)
	m := make(map[uint32][]float64, len(splits))
	for _, v := range splits {
		m[v] = rng.PlusMinusOne(potentialSampleWidth)
	}
	return m
}

func averagePair(f map[uint32]float64, a, b uint32) {
	avg := (f[a] + f[b]) / 2
	f[a] = avg
	f[b] = avg
}

func averageMatrixRow(m map[uint32][]float64, a, b uint32) {
	ra, rb := m[a], m[b]
	if ra == nil || rb == nil {
		return
	}
	for i := range ra {
		avg := (ra[i] + rb[i]) / 2
		ra[i] = avg
		rb[i] = avg
	}
}

// reproject reapplies every prior round's pairing to a freshly-drawn vector,
// keeping a resampled vector consistent with matchings already committed.
func reproject(f map[uint32]float64, roundsLog [][][2]uint32) map[uint32]float64 {
	for _, round := range roundsLog {
		for _, p := range round {
			if _, ok := f[p[0]]; !ok {
				continue
			}
			if _, ok := f[p[1]]; !ok {
				continue
			}
			averagePair(f, p[0], p[1])
		}
	}
	return f
}

// pruneRemoved drops flow-vector entries and prior-round matching references
// to vertices the level cut just removed.
func pruneRemoved(f map[uint32]float64, roundsLog [][][2]uint32, removed []uint32) {
	for _, v := range removed {
		delete(f, v)
	}
	removedSet := make(map[uint32]bool, len(removed))
	for _, v := range removed {
		removedSet[v] = true
	}
	for i, round := range roundsLog {
		var kept [][2]uint32
		for _, p := range round {
			if removedSet[p[0]] || removedSet[p[1]] {
				continue
			}
			kept = append(kept, p)
		}
		roundsLog[i] = kept
	}
}

func potentialOf(f map[uint32]float64, alive []uint32) float64 {
	values := make([]float64, len(alive))
	for i, v := range alive {
		values[i] = f[v]
	}
	if len(values) < 2 {
		return 0
	}
	return stat.Variance(values, nil) * float64(len(values)-1)
}

// removeLevelCutCascade removes the level cut from sub, mirroring removal of
// every non-split vertex into outer, and cascades to any vertex whose degree
// drops to zero as a result. It returns the total subdivision volume removed
// and appends every removed original-graph vertex to removedOuter, recording
// in removedDegree each one's degree within the subset Solve started from
// (alive neighbors plus neighbors already removed) for the trimming solver's
// boundary-degree input.
func removeLevelCutCascade(outer, sub *flow.Graph, subIdx SubdivIndex, cut []uint32, removedOuter *[]uint32, removedDegree map[uint32]int) float64 {
	queue := append([]uint32(nil), cut...)
	removedVol := 0.0

	removeOne := func(v uint32) []uint32 {
		if subIdx.Idx(v) >= 0 {
			removedVol += float64(sub.Degree(v))
		}
		neighbors := make([]uint32, 0, sub.Degree(v))
		for _, e := range sub.Adj(v) {
			neighbors = append(neighbors, e.To)
		}
		sub.Remove(v)
		if subIdx.Idx(v) < 0 && outer.IsAlive(v) {
			if removedDegree != nil {
				deg := outer.Degree(v)
				for _, e := range outer.AllEdges(v) {
					if outer.IsRemoved(e.To) {
						deg++
					}
				}
				removedDegree[v] = deg
			}
			outer.Remove(v)
			*removedOuter = append(*removedOuter, v)
		}
		return neighbors
	}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if !sub.IsAlive(v) {
			continue
		}
		neighbors := removeOne(v)
		for _, w := range neighbors {
			if sub.IsAlive(w) && sub.Degree(w) == 0 {
				queue = append(queue, w)
			}
		}
	}
	return removedVol
}

type cutResult struct {
	axLeft, axRight []uint32
}

// proposeCut is the cut player's move: bipartition the alive split vertices
// by their current flow-vector value around the mean, then reshape and
// rebalance the two sides per the three cases the potential comparison
// selects among.
func proposeCut(f map[uint32]float64, alive []uint32, mPrime int, params Params) cutResult {
	enforce.ENFORCE(len(alive) > 0, "proposeCut called with no alive split vertices")

	values := make([]float64, len(alive))
	for i, v := range alive {
		values[i] = f[v]
	}
	fbar := stat.Mean(values, nil)

	var left, right []uint32
	for _, v := range alive {
		if f[v] < fbar {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}
	leftLarger := len(left) > len(right)
	if leftLarger {
		left, right = right, left
	}

	totalPotential := sumSq(values, fbar)
	leftPotential := sumSqFor(f, left, fbar)

	sortByF(left, f)
	sortByF(right, f)

	switch {
	case len(left) == 0:
		half := len(right) / 2
		left = append([]uint32(nil), right[:half]...)
		right = right[half:]

	case leftPotential > totalPotential/20:
		if !leftLarger {
			reverseSlice(right)
		}

	default:
		l := 0.0
		for _, u := range left {
			l += math.Abs(f[u] - fbar)
		}
		mu := fbar + 4*l/float64(mPrime)
		upper := fbar + 6*l/float64(mPrime)

		var newRight, newLeft []uint32
		for _, v := range alive {
			if f[v] < mu {
				newRight = append(newRight, v)
			}
			if f[v] >= upper {
				newLeft = append(newLeft, v)
			}
		}
		sortByF(newRight, f)
		reverseSlice(newRight)
		sortByF(newLeft, f)
		right = newRight
		left = newLeft
	}

	if len(left) == 0 {
		left = []uint32{alive[0]}
	}

	if params.BalancedCutStrategy {
		for len(right) > len(left) {
			right = right[:len(right)-1]
		}
	} else {
		if leftLarger {
			reverseSlice(left)
		}
		for len(left) > 1 && 8*len(left) > mPrime {
			left = left[:len(left)-1]
		}
	}

	enforce.ENFORCE(len(left) > 0, "proposeCut produced an empty axLeft")
	return cutResult{axLeft: left, axRight: right}
}

// sumSq returns Σ(x-mean)² against the given, externally-supplied mean
// (not each slice's own mean — leftPotential is measured against the whole
// alive set's fbar, not axLeft's local average).
func sumSq(values []float64, mean float64) float64 {
	total := 0.0
	for _, x := range values {
		d := x - mean
		total += d * d
	}
	return total
}

func sumSqFor(f map[uint32]float64, vs []uint32, mean float64) float64 {
	values := make([]float64, len(vs))
	for i, v := range vs {
		values[i] = f[v]
	}
	return sumSq(values, mean)
}

func sortByF(vs []uint32, f map[uint32]float64) {
	sort.Slice(vs, func(i, j int) bool { return f[vs[i]] < f[vs[j]] })
}

func reverseSlice(vs []uint32) {
	for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
		vs[i], vs[j] = vs[j], vs[i]
	}
}
