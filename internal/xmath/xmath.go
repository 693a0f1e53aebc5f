// Package xmath carries the small generic numeric helpers the teacher keeps
// in utils/helpers.go, trimmed to the handful the decomposition core
// actually needs: ordering helpers for height/degree comparisons, and a
// generic sum and float comparison used by the projection tests.
package xmath

import "golang.org/x/exp/constraints"

func Max[T constraints.Ordered](x, y T) T {
	if x < y {
		return y
	}
	return x
}

func Min[T constraints.Ordered](x, y T) T {
	if y < x {
		return y
	}
	return x
}

func Sum[T constraints.Integer | constraints.Float](slice []T) (sum T) {
	for i := range slice {
		sum += slice[i]
	}
	return sum
}

// FloatEquals is an imprecise float comparison with an optional variance,
// matching the teacher's signature; used by the projection property tests.
func FloatEquals(a, b float64, variance ...float64) bool {
	v := 0.000001
	if len(variance) >= 1 {
		v = variance[0]
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < v
}
