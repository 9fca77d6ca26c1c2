package sortedarray

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatKey(v float64) float64 {
	return v
}

func TestMergeGaplessChunk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		data  []float64
		chunk []float64
		want  []float64
		gaps  []Range[float64]
	}{
		{
			"leftmost_disjoint",
			[]float64{1, 2, 3, 4}, []float64{-1, 0},
			[]float64{-1, 0, 1, 2, 3, 4},
			[]Range[float64]{{From: 0, To: 1}},
		},
		{
			"leftmost_last_intersects",
			[]float64{1, 2, 3, 4}, []float64{0, 1},
			[]float64{0, 1, 2, 3, 4},
			nil,
		},
		{
			"leftmost_middle_intersects",
			[]float64{1, 2, 3, 4}, []float64{0, 1, 1.5},
			[]float64{0, 1, 1.5, 2, 3, 4},
			[]Range[float64]{{From: 1.5, To: 2}},
		},
		{
			"head_intersects_start",
			[]float64{1, 2, 3, 4}, []float64{1, 1.5},
			[]float64{1, 1.5, 2, 3, 4},
			[]Range[float64]{{From: 1.5, To: 2}},
		},
		{
			"middle_head_intersects",
			[]float64{1, 2, 4, 5, 6}, []float64{2, 2.5, 3},
			[]float64{1, 2, 2.5, 3, 4, 5, 6},
			[]Range[float64]{{From: 3, To: 4}},
		},
		{
			"middle_last_intersects",
			[]float64{1, 2, 4, 5, 6}, []float64{3, 4},
			[]float64{1, 2, 3, 4, 5, 6},
			[]Range[float64]{{From: 2, To: 3}},
		},
		{
			"middle_disjoint",
			[]float64{1, 2, 5, 6}, []float64{3, 4},
			[]float64{1, 2, 3, 4, 5, 6},
			[]Range[float64]{{From: 2, To: 3}, {From: 4, To: 5}},
		},
		{
			"middle_overlaps_without_matching_ends",
			[]float64{1, 2, 5, 6}, []float64{1.5, 2, 3, 4, 5, 5.5},
			[]float64{1, 1.5, 2, 3, 4, 5, 5.5, 6},
			[]Range[float64]{{From: 1, To: 1.5}, {From: 5.5, To: 6}},
		},
		{
			"rightmost_middle_intersects",
			[]float64{1, 2, 5, 6}, []float64{5, 6, 7},
			[]float64{1, 2, 5, 6, 7},
			nil,
		},
		{
			"rightmost_last_intersects",
			[]float64{1, 2, 5, 6}, []float64{6, 7},
			[]float64{1, 2, 5, 6, 7},
			nil,
		},
		{
			"rightmost_disjoint",
			[]float64{1, 2, 5, 6}, []float64{7, 8},
			[]float64{1, 2, 5, 6, 7, 8},
			[]Range[float64]{{From: 6, To: 7}},
		},
		{
			"empty_target",
			[]float64{}, []float64{7, 8},
			[]float64{7, 8},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := slices.Clone(tt.data)
			gaps := MergeGaplessChunk(&data, tt.chunk, floatKey)

			assert.Equal(t, tt.want, data)

			if tt.gaps == nil {
				assert.Empty(t, gaps)

				return
			}

			assert.Equal(t, tt.gaps, gaps)
		})
	}
}

func TestMergeGaplessChunk_EmptyChunk(t *testing.T) {
	t.Parallel()

	data := []int{1, 2, 3}

	gaps := MergeGaplessChunk(&data, nil, identity[int])

	assert.Nil(t, gaps)
	assert.Equal(t, []int{1, 2, 3}, data)
}

func TestMergeGaplessChunk_ReplacesCoveredItems(t *testing.T) {
	t.Parallel()

	target := tag("old", 1, 2, 3, 4, 5)
	chunk := tag("new", 2, 4)

	gaps := MergeGaplessChunk(&target, chunk, taggedKey)

	// Key 3 lies inside the chunk span and is dropped, not preserved.
	assert.Equal(t, []tagged{{1, "old"}, {2, "new"}, {4, "new"}, {5, "old"}}, target)
	assert.Empty(t, gaps)
}

func TestMergeGaplessChunk_ChunkNotAliased(t *testing.T) {
	t.Parallel()

	data := []int{1, 9}
	chunk := []int{4, 5}

	MergeGaplessChunk(&data, chunk, identity[int])
	data[1] = 0

	assert.Equal(t, []int{4, 5}, chunk)
}
