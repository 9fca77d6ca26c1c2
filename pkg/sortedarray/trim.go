package sortedarray

// TrimByWindow keeps only the items of the ascending target whose key lies in
// [window.From, window.To], in place. A window disjoint from the data empties
// target; a window covering all of it leaves target unchanged. Applying the
// same window twice is a no-op the second time.
func TrimByWindow[T any, K Number](target *[]T, window Range[K], key func(T) K) {
	current := *target
	if len(current) == 0 {
		return
	}

	start := 0

	switch p := FindInsertPoint(current, key, window.From); p.Kind {
	case UpdateAt:
		start = p.Index
	case InsertAfter:
		start = p.Index + 1
	case NoPoint:
	}

	if start >= len(current) {
		clear(current)
		*target = current[:0]

		return
	}

	end := FindInsertPointIn(current, key, window.To, start, len(current)-1)
	if !end.Ok() {
		// window.To precedes the first key still in play.
		clear(current)
		*target = current[:0]

		return
	}

	kept := end.Index - start + 1
	copy(current, current[start:end.Index+1])
	clear(current[kept:])

	*target = current[:kept]
}
