package sortedarray

// MergeGaplessChunk splices chunk into the ascending target and returns the
// gaps left between the chunk and the neighbours it did not absorb.
//
// chunk must be ascending and contiguous: the caller asserts there are no
// unknown keys between its consecutive items. Every target item whose key
// falls inside [first(chunk), last(chunk)] is replaced by the chunk. A gap is
// reported whenever a surviving neighbour is index-adjacent to the chunk,
// regardless of how close the keys are. At most two gaps are returned, left
// one first. An empty chunk returns nil and leaves target untouched.
func MergeGaplessChunk[T any, K Number](target *[]T, chunk []T, key func(T) K) []Range[K] {
	chunkRange, ok := ExtractRange(chunk, key)
	if !ok {
		return nil
	}

	current := *target
	splice := SpliceIndex(current, key, chunkRange)

	var gaps []Range[K]

	if len(current) > 0 {
		if splice.HasLeftGap {
			gaps = append(gaps, Range[K]{From: key(current[splice.LeftGapFrom]), To: chunkRange.From})
		}

		if splice.HasRightGap {
			gaps = append(gaps, Range[K]{From: chunkRange.To, To: key(current[splice.RightGapTo])})
		}
	}

	start := min(splice.Start, len(current))
	end := min(splice.End(), len(current))

	merged := make([]T, 0, start+len(chunk)+len(current)-end)
	merged = append(merged, current[:start]...)
	merged = append(merged, chunk...)
	merged = append(merged, current[end:]...)

	*target = merged

	return gaps
}
