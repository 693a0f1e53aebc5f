package cutmatching

// ProjectFlow is the pure, position-indexed form of the per-round flow-vector
// averaging step: each round is a set of index pairs (vertex-disjoint within
// the round, per the matching-uniqueness invariant), and every pair's two
// entries are replaced by their average. Rounds apply in order. This is the
// same operation Solve performs on its sparse vertex-keyed flow map, kept
// here as an independently testable pure function since the projection
// scenarios are specified over plain index vectors.
func ProjectFlow(xs []float64, rounds [][][2]int) []float64 {
	out := append([]float64(nil), xs...)
	for _, round := range rounds {
		for _, pair := range round {
			i, j := pair[0], pair[1]
			avg := (out[i] + out[j]) / 2
			out[i] = avg
			out[j] = avg
		}
	}
	return out
}
