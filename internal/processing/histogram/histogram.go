package histogram

import (
	"fmt"

	"raster-filters/internal/raster"

	"gonum.org/v1/gonum/floats"
)

// DefaultBins matches the 128-bin display used by the interactive shell.
const DefaultBins = 128

// Histogram holds per-channel counts over [0,255] split into equal-width bins.
type Histogram struct {
	Bins   int
	Counts [][]float64
}

// BinWidth is the number of intensity levels per bin.
func (h Histogram) BinWidth() float64 {
	return 256 / float64(h.Bins)
}

// Compute counts the samples of every channel into bins equal-width bins.
func Compute(img *raster.Image, bins int) (Histogram, error) {
	if img == nil {
		return Histogram{}, raster.NewInvalidParameter("histogram", "image is nil")
	}
	if bins < 1 || bins > 256 {
		return Histogram{}, raster.NewInvalidParameter("histogram", "bins must be in [1,256], got %d", bins)
	}

	counts := make([][]float64, img.Channels())
	for ch := range counts {
		counts[ch] = make([]float64, bins)
		for _, v := range img.Channel(ch) {
			counts[ch][int(v)*bins/256]++
		}
	}
	return Histogram{Bins: bins, Counts: counts}, nil
}

// Horizontal sums every column of each channel and normalises by the largest
// column sum.
func Horizontal(img *raster.Image) ([][]float64, error) {
	return project(img, "horizontal projection", true)
}

// Vertical sums every row of each channel and normalises by the largest row sum.
func Vertical(img *raster.Image) ([][]float64, error) {
	return project(img, "vertical projection", false)
}

func project(img *raster.Image, op string, columns bool) ([][]float64, error) {
	if img == nil {
		return nil, raster.NewInvalidParameter(op, "image is nil")
	}

	w, h := img.Width(), img.Height()
	out := make([][]float64, img.Channels())
	for ch := range out {
		plane := img.Channel(ch)
		var sums []float64
		if columns {
			sums = make([]float64, w)
			for r := 0; r < h; r++ {
				floats.Add(sums, plane[r*w:(r+1)*w])
			}
		} else {
			sums = make([]float64, h)
			for r := 0; r < h; r++ {
				sums[r] = floats.Sum(plane[r*w : (r+1)*w])
			}
		}
		normalise(sums)
		out[ch] = sums
	}
	return out, nil
}

// normalise scales values so the maximum becomes 1. An all-zero slice stays zero.
func normalise(values []float64) {
	if len(values) == 0 {
		return
	}
	if peak := floats.Max(values); peak > 0 {
		floats.Scale(1/peak, values)
	}
}

// Summary condenses one channel's histogram for display.
type Summary struct {
	Channel  int
	Total    float64
	PeakBin  int
	PeakSize float64
}

func (h Histogram) Summaries() []Summary {
	out := make([]Summary, len(h.Counts))
	for ch, counts := range h.Counts {
		peak := floats.MaxIdx(counts)
		out[ch] = Summary{
			Channel:  ch,
			Total:    floats.Sum(counts),
			PeakBin:  peak,
			PeakSize: counts[peak],
		}
	}
	return out
}

func (s Summary) String() string {
	return fmt.Sprintf("channel %d: %.0f samples, peak bin %d (%.0f)", s.Channel, s.Total, s.PeakBin, s.PeakSize)
}
