package sortedarray

// ResolveFunc picks the survivor when both sides of a merge hold the same key.
// Returning false drops both items.
type ResolveFunc[T any] func(left, right T) (T, bool)

// FilterFunc reports whether a merged item is kept. A nil FilterFunc keeps
// everything.
type FilterFunc[T any] func(item T) bool

// KeepLeft resolves duplicates in favour of the left item.
func KeepLeft[T any](left, _ T) (T, bool) {
	return left, true
}

// KeepRight resolves duplicates in favour of the right item.
func KeepRight[T any](_, right T) (T, bool) {
	return right, true
}

// DropBoth resolves duplicates by removing both items.
func DropBoth[T any](_, _ T) (T, bool) {
	var zero T

	return zero, false
}

// MergeOptions configures Merge.
type MergeOptions[T any, K Number] struct {
	// Key selects the sort key. Required.
	Key func(T) K
	// Resolve handles equal keys. Required.
	Resolve ResolveFunc[T]
	// Order is the direction both inputs are sorted in.
	Order Order
	// Filter drops merged items it rejects. Optional.
	Filter FilterFunc[T]
}

// Merge combines two sorted slices into a new sorted slice in O(n+m).
// Neither input is modified. Each input must be sorted in opts.Order with
// unique keys.
func Merge[T any, K Number](left, right []T, opts MergeOptions[T, K]) []T {
	merged := make([]T, len(left)+len(right))
	n := mergeInto(merged, left, right, opts.Key, opts.Resolve, opts.Order, opts.Filter)

	return merged[:n]
}

// MergeInPlace merges right into target with Merge semantics. The result is
// written to a scratch buffer which then replaces *target in one assignment,
// so right is neither mutated nor aliased. An empty target becomes a copy of
// right and an empty right leaves target untouched; neither case consults
// filter.
func MergeInPlace[T any, K Number](
	target *[]T,
	right []T,
	key func(T) K,
	resolve ResolveFunc[T],
	order Order,
	filter FilterFunc[T],
) {
	if len(*target) == 0 {
		*target = copyOf(right, 0, len(right))

		return
	}

	if len(right) == 0 {
		return
	}

	scratch := make([]T, len(*target)+len(right))
	n := mergeInto(scratch, *target, right, key, resolve, order, filter)

	*target = scratch[:n:n]
}

// mergeInto writes the merge of left and right into dst, which must hold at
// least len(left)+len(right) items, and returns the number written.
func mergeInto[T any, K Number](
	dst, left, right []T,
	key func(T) K,
	resolve ResolveFunc[T],
	order Order,
	filter FilterFunc[T],
) int {
	n := 0

	emit := func(item T) {
		if filter == nil || filter(item) {
			dst[n] = item
			n++
		}
	}

	i, j := 0, 0

	for i < len(left) && j < len(right) {
		lk, rk := key(left[i]), key(right[j])

		switch {
		case Precedes(order, lk, rk):
			emit(left[i])
			i++
		case lk == rk:
			if survivor, ok := resolve(left[i], right[j]); ok {
				emit(survivor)
			}

			i++
			j++
		default:
			emit(right[j])
			j++
		}
	}

	for ; i < len(left); i++ {
		emit(left[i])
	}

	for ; j < len(right); j++ {
		emit(right[j])
	}

	return n
}
