package window

import (
	"fmt"

	"raster-filters/internal/raster"
)

// Mode controls how a plane is extended past its border before windows are read.
type Mode int

const (
	// Zero fills the border with 0.
	Zero Mode = iota
	// Reflect mirrors samples about the edge without repeating the edge
	// sample: [a b c] padded by 2 becomes [c b a b c b a].
	Reflect
)

func (m Mode) String() string {
	switch m {
	case Zero:
		return "zero"
	case Reflect:
		return "reflect"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Plane is a single channel of samples widened to float64, row-major.
type Plane struct {
	Width  int
	Height int
	Data   []float64
}

func (p Plane) At(row, col int) float64 {
	return p.Data[row*p.Width+col]
}

// Pad returns a new plane extended by pad samples on every side.
func Pad(p Plane, pad int, mode Mode) (Plane, error) {
	if pad < 0 {
		return Plane{}, raster.NewInvalidParameter("pad", "negative pad width %d", pad)
	}
	if len(p.Data) != p.Width*p.Height || p.Width <= 0 || p.Height <= 0 {
		return Plane{}, raster.NewDimensionMismatch("pad",
			"plane %dx%d holds %d samples", p.Width, p.Height, len(p.Data))
	}

	out := Plane{
		Width:  p.Width + 2*pad,
		Height: p.Height + 2*pad,
	}
	out.Data = make([]float64, out.Width*out.Height)

	for r := 0; r < out.Height; r++ {
		sr := r - pad
		if mode == Zero && (sr < 0 || sr >= p.Height) {
			continue
		}
		sr = reflectIndex(sr, p.Height)

		for c := 0; c < out.Width; c++ {
			sc := c - pad
			if mode == Zero {
				if sc < 0 || sc >= p.Width {
					continue
				}
			} else {
				sc = reflectIndex(sc, p.Width)
			}
			out.Data[r*out.Width+c] = p.Data[sr*p.Width+sc]
		}
	}

	return out, nil
}

// reflectIndex maps i onto [0, n) by mirroring about the first and last
// samples. Pads wider than the plane keep bouncing between the two edges.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	if i >= 0 && i < n {
		return i
	}

	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
