package sortedarray

// RangePoints holds the insert points resolved for both ends of a Range.
// Either point may be NoPoint.
type RangePoints struct {
	From InsertPoint
	To   InsertPoint
}

// SearchRange resolves r against an ascending source. The To lookup is
// narrowed to start at the From index when From resolved, since its insert
// point cannot precede that of From.
func SearchRange[T any, K Number](source []T, key func(T) K, r Range[K]) RangePoints {
	return searchRange(source, key, r, Ascending)
}

// SearchRangeReversed is SearchRange for a descending source, where r.From is
// the first key met while walking the slice (the larger one).
func SearchRangeReversed[T any, K Number](source []T, key func(T) K, r Range[K]) RangePoints {
	return searchRange(source, key, r, Descending)
}

func searchRange[T any, K Number](source []T, key func(T) K, r Range[K], order Order) RangePoints {
	last := len(source) - 1
	from := findInsertPoint(source, key, r.From, 0, last, order)

	lo := 0
	if from.Ok() {
		lo = from.Index
	}

	return RangePoints{
		From: from,
		To:   findInsertPoint(source, key, r.To, lo, last, order),
	}
}
