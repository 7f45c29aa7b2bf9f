package kernel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is an immutable row-major matrix of weights. The anchor is the
// position inside the kernel that lines up with the output sample; it is
// floor(size/2) along each axis for every kernel built here.
type Kernel struct {
	rows    int
	cols    int
	weights []float64
}

// New copies weights into a rows x cols kernel.
func New(rows, cols int, weights []float64) (Kernel, error) {
	if rows <= 0 || cols <= 0 {
		return Kernel{}, fmt.Errorf("invalid kernel size %dx%d", rows, cols)
	}
	if len(weights) != rows*cols {
		return Kernel{}, fmt.Errorf("kernel %dx%d needs %d weights, got %d", rows, cols, rows*cols, len(weights))
	}

	w := make([]float64, len(weights))
	copy(w, weights)
	return Kernel{rows: rows, cols: cols, weights: w}, nil
}

func mustNew(rows, cols int, weights []float64) Kernel {
	k, err := New(rows, cols, weights)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Kernel) Rows() int { return k.rows }
func (k Kernel) Cols() int { return k.cols }

// At returns the weight at (row, col).
func (k Kernel) At(row, col int) float64 {
	return k.weights[row*k.cols+col]
}

// Weights returns a copy of the row-major weights.
func (k Kernel) Weights() []float64 {
	w := make([]float64, len(k.weights))
	copy(w, k.weights)
	return w
}

// Anchor returns the (row, col) offset of the output sample inside the kernel.
func (k Kernel) Anchor() (int, int) {
	return k.rows / 2, k.cols / 2
}

// Pad returns the padding needed on each side to evaluate the kernel at
// every sample of an image.
func (k Kernel) Pad() int {
	return max(k.rows, k.cols) / 2
}

func (k Kernel) Sum() float64 {
	return floats.Sum(k.weights)
}

// Box returns the size x size averaging kernel with weight 1/size².
func Box(size int) (Kernel, error) {
	if size < 1 {
		return Kernel{}, fmt.Errorf("box kernel size must be >= 1, got %d", size)
	}

	w := make([]float64, size*size)
	floats.AddConst(1/float64(size*size), w)
	return New(size, size, w)
}

// GaussianSize derives the odd kernel size used for a given sigma: int(6σ) | 1.
func GaussianSize(sigma float64) int {
	return int(6*sigma) | 1
}

// Gaussian returns the normalised outer product of 1-D Gaussian samples taken
// at the integers -size/2 .. size/2.
func Gaussian(size int, sigma float64) (Kernel, error) {
	if size < 1 {
		return Kernel{}, fmt.Errorf("gaussian kernel size must be >= 1, got %d", size)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return Kernel{}, fmt.Errorf("gaussian sigma must be positive and finite, got %v", sigma)
	}

	axis := make([]float64, size)
	if size > 1 {
		floats.Span(axis, -float64(size/2), float64(size/2))
	}

	g := make([]float64, size)
	for i, x := range axis {
		g[i] = math.Exp(-0.5 * (x / sigma) * (x / sigma))
	}

	w := make([]float64, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			w[r*size+c] = g[r] * g[c]
		}
	}
	floats.Scale(1/floats.Sum(w), w)

	return New(size, size, w)
}

// Sharpen is the 4-neighbour sharpening kernel with the given center weight.
func Sharpen(center float64) Kernel {
	return mustNew(3, 3, []float64{
		0, -1, 0,
		-1, center, -1,
		0, -1, 0,
	})
}

// HighPass is the 8-neighbour high-pass kernel with the given center weight.
func HighPass(center float64) Kernel {
	return mustNew(3, 3, []float64{
		-1, -1, -1,
		-1, center, -1,
		-1, -1, -1,
	})
}

func Laplace() Kernel {
	return mustNew(3, 3, []float64{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	})
}

// Pair holds the X and Y kernels of a gradient operator.
type Pair struct {
	X Kernel
	Y Kernel
}

func Roberts() Pair {
	return Pair{
		X: mustNew(2, 2, []float64{
			1, 0,
			0, -1,
		}),
		Y: mustNew(2, 2, []float64{
			0, 1,
			-1, 0,
		}),
	}
}

func Sobel() Pair {
	return Pair{
		X: mustNew(3, 3, []float64{
			1, 0, -1,
			2, 0, -2,
			1, 0, -1,
		}),
		Y: mustNew(3, 3, []float64{
			1, 2, 1,
			0, 0, 0,
			-1, -2, -1,
		}),
	}
}

func Prewitt() Pair {
	return Pair{
		X: mustNew(3, 3, []float64{
			-1, 0, 1,
			-1, 0, 1,
			-1, 0, 1,
		}),
		Y: mustNew(3, 3, []float64{
			-1, -1, -1,
			0, 0, 0,
			1, 1, 1,
		}),
	}
}

func Scharr() Pair {
	return Pair{
		X: mustNew(3, 3, []float64{
			3, 0, -3,
			10, 0, -10,
			3, 0, -3,
		}),
		Y: mustNew(3, 3, []float64{
			3, 10, 3,
			0, 0, 0,
			-3, -10, -3,
		}),
	}
}

// Ridge uses the sign-flipped Sobel coefficients.
func Ridge() Pair {
	return Pair{
		X: mustNew(3, 3, []float64{
			-1, 0, 1,
			-2, 0, 2,
			-1, 0, 1,
		}),
		Y: mustNew(3, 3, []float64{
			-1, -2, -1,
			0, 0, 0,
			1, 2, 1,
		}),
	}
}
