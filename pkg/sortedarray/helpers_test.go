package sortedarray

import "slices"

// Test fixture bounds: keys 0..99 with 41..59 removed.
const (
	fixtureFirst    = 0
	fixtureGapStart = 40
	fixtureGapEnd   = 60
	fixtureLast     = 99
	fixtureLen      = 81
)

func identity[K Number](k K) K {
	return k
}

// seq returns the inclusive integer run [lo, hi].
func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}

	return out
}

// gapped returns 0..40 followed by 60..99.
func gapped() []int {
	return append(seq(fixtureFirst, fixtureGapStart), seq(fixtureGapEnd, fixtureLast)...)
}

func concat(parts ...[]int) []int {
	return slices.Concat(parts...)
}
