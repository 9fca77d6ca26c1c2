// Package dataset reads and writes the record files the sortedarray CLI
// operates on: sorted documents and replay scripts, as JSON or YAML,
// optionally lz4-compressed.
package dataset

import (
	"errors"
	"fmt"

	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

// Sentinel errors.
var (
	ErrUnknownFormat  = errors.New("unknown file format")
	ErrSchema         = errors.New("schema validation failed")
	ErrNotSorted      = errors.New("keys are not strictly monotonic")
	ErrUnknownResolve = errors.New("unknown resolve strategy")
	ErrUnknownStep    = errors.New("unknown step op")
	ErrStepWindow     = errors.New("trim step needs a window")
)

// Step ops.
const (
	OpChunk  = "chunk"
	OpUpsert = "upsert"
	OpTrim   = "trim"
)

// Resolve strategies.
const (
	ResolveLeft  = "left"
	ResolveRight = "right"
	ResolveDrop  = "drop"
)

// Record is one keyed item.
type Record struct {
	Key   float64 `json:"key"             yaml:"key"`
	Value any     `json:"value,omitempty" yaml:"value,omitempty"`
}

// RecordKey selects the sort key of a record.
func RecordKey(r Record) float64 {
	return r.Key
}

// Document is a run of records sorted by key.
type Document struct {
	Order string   `json:"order,omitempty" yaml:"order,omitempty"`
	Items []Record `json:"items"           yaml:"items"`
}

// SortOrder returns the document's declared order, or fallback when it
// declares none.
func (d *Document) SortOrder(fallback sortedarray.Order) (sortedarray.Order, error) {
	if d.Order == "" {
		return fallback, nil
	}

	order, err := sortedarray.ParseOrder(d.Order)
	if err != nil {
		return fallback, fmt.Errorf("document order: %w", err)
	}

	return order, nil
}

// Keys returns the record keys in document order.
func (d *Document) Keys() []float64 {
	keys := make([]float64, len(d.Items))
	for i, r := range d.Items {
		keys[i] = r.Key
	}

	return keys
}

// Script drives a window collection through a series of steps.
type Script struct {
	Window *sortedarray.Range[float64] `json:"window,omitempty" yaml:"window,omitempty"`
	Steps  []Step                      `json:"steps"            yaml:"steps"`
}

// Step is one script operation. Items feed chunk and upsert steps; Window
// feeds trim steps; Resolve applies to upserts and defaults to right.
type Step struct {
	Op      string                      `json:"op"                yaml:"op"`
	Items   []Record                    `json:"items,omitempty"   yaml:"items,omitempty"`
	Window  *sortedarray.Range[float64] `json:"window,omitempty"  yaml:"window,omitempty"`
	Resolve string                      `json:"resolve,omitempty" yaml:"resolve,omitempty"`
}

// Resolver maps a strategy name to a record resolver. An empty name is
// ResolveRight, so newer data wins.
func Resolver(name string) (sortedarray.ResolveFunc[Record], error) {
	switch name {
	case ResolveLeft:
		return sortedarray.KeepLeft[Record], nil
	case ResolveRight, "":
		return sortedarray.KeepRight[Record], nil
	case ResolveDrop:
		return sortedarray.DropBoth[Record], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResolve, name)
	}
}

// CheckSorted reports the first pair of records that break strict
// monotonicity in order.
func CheckSorted(items []Record, order sortedarray.Order) error {
	for i := 1; i < len(items); i++ {
		if !sortedarray.Precedes(order, items[i-1].Key, items[i].Key) {
			return fmt.Errorf("%w: index %d key %v follows %v (%s)",
				ErrNotSorted, i, items[i].Key, items[i-1].Key, order)
		}
	}

	return nil
}

// CheckScript verifies step ops, trim windows, resolve names and that every
// step's items ascend strictly.
func CheckScript(s *Script) error {
	for i, step := range s.Steps {
		switch step.Op {
		case OpChunk, OpUpsert:
		case OpTrim:
			if step.Window == nil {
				return fmt.Errorf("step %d: %w", i, ErrStepWindow)
			}
		default:
			return fmt.Errorf("step %d: %w: %q", i, ErrUnknownStep, step.Op)
		}

		_, resolveErr := Resolver(step.Resolve)
		if resolveErr != nil {
			return fmt.Errorf("step %d: %w", i, resolveErr)
		}

		sortErr := CheckSorted(step.Items, sortedarray.Ascending)
		if sortErr != nil {
			return fmt.Errorf("step %d: %w", i, sortErr)
		}
	}

	return nil
}
