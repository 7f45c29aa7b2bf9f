package window

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Median returns the rank-statistic reducer over a size x size window. Even
// sample counts use the mean of the two middle values.
func Median(size int) Reducer {
	scratch := make([]float64, 0, size*size)

	return func(p Plane, row, col int) float64 {
		scratch = Collect(p, row, col, size, size, scratch[:0])
		slices.Sort(scratch)

		n := len(scratch)
		if n%2 == 1 {
			return scratch[n/2]
		}
		return (scratch[n/2-1] + scratch[n/2]) / 2
	}
}

// quadrant is a sub-window given relative to the window origin.
type quadrant struct {
	row, col, h, w int
}

// kuwaharaQuadrants splits a size x size window into four overlapping
// regions that each run from a corner to the center inclusive, ordered
// top-left, top-right, bottom-left, bottom-right.
func kuwaharaQuadrants(size int) [4]quadrant {
	offset := size / 2
	near := offset + 1
	far := size - offset

	return [4]quadrant{
		{row: 0, col: 0, h: near, w: near},
		{row: 0, col: offset, h: near, w: far},
		{row: offset, col: 0, h: far, w: near},
		{row: offset, col: offset, h: far, w: far},
	}
}

// Kuwahara returns the reducer that picks the mean of the quadrant with the
// smallest population variance. The first quadrant wins ties.
func Kuwahara(size int) Reducer {
	quads := kuwaharaQuadrants(size)
	scratch := make([]float64, 0, size*size)
	means := make([]float64, len(quads))
	variances := make([]float64, len(quads))

	return func(p Plane, row, col int) float64 {
		for q, quad := range quads {
			scratch = Collect(p, row+quad.row, col+quad.col, quad.h, quad.w, scratch[:0])
			means[q], variances[q] = stat.PopMeanVariance(scratch, nil)
		}
		return means[floats.MinIdx(variances)]
	}
}
