package window

import (
	"math"

	"raster-filters/internal/processing/kernel"
	"raster-filters/internal/raster"
)

// Reducer computes one output value from the window whose top-left corner
// sits at (row, col) in padded coordinates.
type Reducer func(padded Plane, row, col int) float64

// Geometry describes the square window read around every sample. The window
// for output (i, j) spans padded rows i..i+Size-1 and columns j..j+Size-1,
// i.e. it starts Pad samples above and left of the sample.
type Geometry struct {
	Size int
	Pad  int
	Mode Mode
}

// For returns the geometry of a kernel with the given padding mode.
func For(k kernel.Kernel, mode Mode) Geometry {
	return Geometry{Size: max(k.Rows(), k.Cols()), Pad: k.Pad(), Mode: mode}
}

func (g Geometry) validate(op string) error {
	if g.Size < 1 {
		return raster.NewInvalidParameter(op, "window size must be >= 1, got %d", g.Size)
	}
	if g.Pad < 0 || g.Size > 2*g.Pad+1 {
		return raster.NewDimensionMismatch(op, "window of size %d does not fit pad %d", g.Size, g.Pad)
	}
	return nil
}

// Map evaluates reduce independently for every channel of img over a padded
// working copy and returns a new image of the same shape. Values are
// accumulated in float64 and quantised once when stored.
func Map(img *raster.Image, geom Geometry, reduce Reducer) (*raster.Image, error) {
	const op = "window map"

	if err := raster.ValidateShape(img.Width(), img.Height(), img.Channels(), op); err != nil {
		return nil, err
	}
	if err := geom.validate(op); err != nil {
		return nil, err
	}

	out, err := raster.New(img.Width(), img.Height(), img.Channels())
	if err != nil {
		return nil, err
	}

	values := make([]float64, img.Width()*img.Height())
	for ch := 0; ch < img.Channels(); ch++ {
		plane := Plane{Width: img.Width(), Height: img.Height(), Data: img.Channel(ch)}

		padded, err := Pad(plane, geom.Pad, geom.Mode)
		if err != nil {
			return nil, err
		}
		if padded.Width != plane.Width+2*geom.Pad || padded.Height != plane.Height+2*geom.Pad {
			return nil, raster.NewDimensionMismatch(op, "padded plane is %dx%d, want %dx%d",
				padded.Width, padded.Height, plane.Width+2*geom.Pad, plane.Height+2*geom.Pad)
		}

		for i := 0; i < plane.Height; i++ {
			for j := 0; j < plane.Width; j++ {
				values[i*plane.Width+j] = reduce(padded, i, j)
			}
		}

		if err := out.SetChannel(ch, values); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Collect appends the h x w block of p starting at (row, col) to dst.
func Collect(p Plane, row, col, h, w int, dst []float64) []float64 {
	for r := row; r < row+h; r++ {
		dst = append(dst, p.Data[r*p.Width+col:r*p.Width+col+w]...)
	}
	return dst
}

func weightedSum(p Plane, k kernel.Kernel, row, col int) float64 {
	sum := 0.0
	for kr := 0; kr < k.Rows(); kr++ {
		base := (row+kr)*p.Width + col
		for kc := 0; kc < k.Cols(); kc++ {
			sum += p.Data[base+kc] * k.At(kr, kc)
		}
	}
	return sum
}

// Convolve is the weighted-sum reducer for a single kernel.
func Convolve(k kernel.Kernel) Reducer {
	return func(p Plane, row, col int) float64 {
		return weightedSum(p, k, row, col)
	}
}

// Magnitude correlates the window with both kernels of a gradient pair and
// returns sqrt(gx² + gy²).
func Magnitude(pair kernel.Pair) Reducer {
	return func(p Plane, row, col int) float64 {
		gx := weightedSum(p, pair.X, row, col)
		gy := weightedSum(p, pair.Y, row, col)
		return math.Sqrt(gx*gx + gy*gy)
	}
}
