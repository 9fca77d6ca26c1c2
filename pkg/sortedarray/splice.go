package sortedarray

// Splice is the index region [Start, Start+Count) of a slice that a key range
// overlaps, plus the neighbours bordering the region when they were not
// covered by it.
type Splice struct {
	Start int
	Count int

	// LeftGapFrom is the index of the element immediately before the region
	// when the range began between two elements.
	LeftGapFrom int
	HasLeftGap  bool

	// RightGapTo is the index of the element immediately after the region
	// when the range ended between two elements. When the whole range lies
	// before the data it is 0.
	RightGapTo  int
	HasRightGap bool
}

// End returns the exclusive end index of the region.
func (s Splice) End() int {
	return s.Start + s.Count
}

// SpliceIndex computes the region of an ascending source overlapped by r.
func SpliceIndex[T any, K Number](source []T, key func(T) K, r Range[K]) Splice {
	points := SearchRange(source, key, r)

	var s Splice

	switch points.From.Kind {
	case UpdateAt:
		s.Start = points.From.Index
	case InsertAfter:
		s.Start = points.From.Index + 1
		s.LeftGapFrom = points.From.Index
		s.HasLeftGap = true
	case NoPoint:
		s.Start = 0
	}

	if !points.To.Ok() {
		s.RightGapTo = 0
		s.HasRightGap = true

		return s
	}

	if to := points.To.Index; to >= s.Start {
		s.Count = to - s.Start + 1
	}

	if points.To.Kind == InsertAfter && points.To.Index+1 < len(source) {
		s.RightGapTo = points.To.Index + 1
		s.HasRightGap = true
	}

	return s
}
