package sortedarray

// FindInsertPoint locates target in an ascending source. It returns UpdateAt
// when the key exists, InsertAfter when it would be inserted after an
// existing index, and NoPoint when target is smaller than every key.
// An empty source yields UpdateAt(0).
func FindInsertPoint[T any, K Number](source []T, key func(T) K, target K) InsertPoint {
	return findInsertPoint(source, key, target, 0, len(source)-1, Ascending)
}

// FindInsertPointIn is FindInsertPoint restricted to the inclusive index
// range [fromIndex, toIndex]. NoPoint then means target precedes the key at
// fromIndex. Indices are clamped to the slice; an empty sub-range of a
// non-empty source yields NoPoint.
func FindInsertPointIn[T any, K Number](source []T, key func(T) K, target K, fromIndex, toIndex int) InsertPoint {
	return findInsertPoint(source, key, target, fromIndex, toIndex, Ascending)
}

// FindInsertPointReversed is FindInsertPoint for a descending source.
// NoPoint means target is greater than every key.
func FindInsertPointReversed[T any, K Number](source []T, key func(T) K, target K) InsertPoint {
	return findInsertPoint(source, key, target, 0, len(source)-1, Descending)
}

// FindInsertPointReversedIn is FindInsertPointIn for a descending source.
func FindInsertPointReversedIn[T any, K Number](
	source []T, key func(T) K, target K, fromIndex, toIndex int,
) InsertPoint {
	return findInsertPoint(source, key, target, fromIndex, toIndex, Descending)
}

func findInsertPoint[T any, K Number](source []T, key func(T) K, target K, left, right int, order Order) InsertPoint {
	if len(source) == 0 {
		return updateAt(0)
	}

	left = max(left, 0)
	right = min(right, len(source)-1)

	if left > right {
		return InsertPoint{}
	}

	first, last := key(source[left]), key(source[right])

	switch {
	case target == first:
		return updateAt(left)
	case Precedes(order, target, first):
		return InsertPoint{}
	case target == last:
		return updateAt(right)
	case Precedes(order, last, target):
		return insertAfter(right)
	}

	// first < target < last from here on, so left never walks past right and
	// the final probe never lands before the original left bound.
	for left < right {
		mid := int(uint(left+right) >> 1)
		midKey := key(source[mid])

		if midKey == target {
			return updateAt(mid)
		}

		if Precedes(order, target, midKey) {
			right = mid - 1
		} else {
			left = mid + 1
		}
	}

	probe := key(source[left])

	switch {
	case target == probe:
		return updateAt(left)
	case Precedes(order, target, probe):
		return insertAfter(left - 1)
	default:
		return insertAfter(left)
	}
}
