package sortedarray

// SplitByRange partitions an ascending source into the items before r, the
// items overlapping r, and the items after r. The source is not modified and
// the three results never share its backing array, so
// left ++ overlap ++ right always equals source.
func SplitByRange[T any, K Number](source []T, key func(T) K, r Range[K]) (left, overlap, right []T) {
	points := SearchRange(source, key, r)
	n := len(source)

	start := 0

	switch points.From.Kind {
	case UpdateAt:
		start = min(points.From.Index, n)
	case InsertAfter:
		start = min(points.From.Index+1, n)
	case NoPoint:
	}

	if !points.To.Ok() {
		// r.To precedes all data: nothing overlaps and everything is right.
		return copyOf(source, 0, start), copyOf(source, start, start), copyOf(source, 0, n)
	}

	end := min(points.To.Index+1, n)
	end = max(end, start)

	return copyOf(source, 0, start), copyOf(source, start, end), copyOf(source, end, n)
}

// copyOf returns a new non-nil slice holding source[lo:hi].
func copyOf[T any](source []T, lo, hi int) []T {
	out := make([]T, hi-lo)
	copy(out, source[lo:hi])

	return out
}
