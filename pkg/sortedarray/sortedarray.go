// Package sortedarray provides index arithmetic over slices kept sorted by a
// numeric key: insert-point lookup, range resolution, splice and split
// computation, two-way merges, gapless chunk merging with gap reporting, and
// window trimming.
//
// Every slice handed to this package must be strictly monotonic by its key
// (no duplicate keys). The package never validates this; violating it yields
// unspecified but non-panicking results for in-bounds inputs.
//
// Mutating operations take a *[]T and replace the slice header in a single
// assignment. All other operations return freshly allocated slices. Nothing
// here is safe for concurrent mutation of the same target.
package sortedarray

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/exp/constraints"
)

// ErrUnknownOrder is returned by ParseOrder for unrecognised names.
var ErrUnknownOrder = errors.New("unknown order")

// Number is the set of key types the package can order.
type Number interface {
	constraints.Integer | constraints.Float
}

// Range is an inclusive key interval [From, To]. Callers keep From <= To.
type Range[K Number] struct {
	From K `json:"from" yaml:"from"`
	To   K `json:"to"   yaml:"to"`
}

// Contains reports whether k lies within the range.
func (r Range[K]) Contains(k K) bool {
	return r.From <= k && k <= r.To
}

// InsertKind tags an InsertPoint.
type InsertKind uint8

const (
	// NoPoint means the target precedes every key of the searched sub-range.
	NoPoint InsertKind = iota
	// UpdateAt means an element with the exact target key exists at Index.
	UpdateAt
	// InsertAfter means the target would be inserted right after Index.
	InsertAfter
)

// String returns the kind name.
func (k InsertKind) String() string {
	switch k {
	case UpdateAt:
		return "UpdateAt"
	case InsertAfter:
		return "InsertAfter"
	default:
		return "NoPoint"
	}
}

// InsertPoint is the result of an insert-point lookup. The zero value is the
// NoPoint outcome.
type InsertPoint struct {
	Kind  InsertKind
	Index int
}

// Ok reports whether the lookup produced a point.
func (p InsertPoint) Ok() bool {
	return p.Kind != NoPoint
}

// String formats the point as Kind(Index), or NoPoint.
func (p InsertPoint) String() string {
	if !p.Ok() {
		return NoPoint.String()
	}

	return p.Kind.String() + "(" + strconv.Itoa(p.Index) + ")"
}

// updateAt builds an UpdateAt point.
func updateAt(i int) InsertPoint {
	return InsertPoint{Kind: UpdateAt, Index: i}
}

// insertAfter builds an InsertAfter point.
func insertAfter(i int) InsertPoint {
	return InsertPoint{Kind: InsertAfter, Index: i}
}

// Order is the sort direction of a slice.
type Order uint8

const (
	// Ascending orders keys from smallest to largest.
	Ascending Order = iota
	// Descending orders keys from largest to smallest.
	Descending
)

// String returns "asc" or "desc".
func (o Order) String() string {
	if o == Descending {
		return "desc"
	}

	return "asc"
}

// ParseOrder parses "asc"/"ascending" or "desc"/"descending". An empty
// string is Ascending.
func ParseOrder(name string) (Order, error) {
	switch name {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("%w: %q", ErrUnknownOrder, name)
	}
}

// Precedes reports whether key a strictly precedes key b in order o.
func Precedes[K Number](o Order, a, b K) bool {
	if o == Descending {
		return b < a
	}

	return a < b
}

// ExtractRange returns the keys of the first and last items. It returns false
// for an empty slice.
func ExtractRange[T any, K Number](items []T, key func(T) K) (Range[K], bool) {
	if len(items) == 0 {
		return Range[K]{}, false
	}

	return Range[K]{From: key(items[0]), To: key(items[len(items)-1])}, true
}
