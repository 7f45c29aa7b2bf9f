package pipeline

import (
	"fmt"
	"math"

	"raster-filters/internal/raster"

	"gonum.org/v1/gonum/floats"
)

// QualityMetrics compares a filtered image against its input.
type QualityMetrics struct {
	MSE  float64 // mean squared error over every sample
	PSNR float64 // peak signal-to-noise ratio in dB, +Inf for identical images
}

// CalculateQualityMetrics requires both images to share width, height and
// channel count.
func CalculateQualityMetrics(original, processed *raster.Image) (*QualityMetrics, error) {
	if original == nil || processed == nil {
		return nil, fmt.Errorf("original and processed images cannot be nil")
	}
	if !original.SameShape(processed) {
		return nil, fmt.Errorf("image shapes must match: original %dx%dx%d, processed %dx%dx%d",
			original.Width(), original.Height(), original.Channels(),
			processed.Width(), processed.Height(), processed.Channels())
	}

	var sumSquares float64
	for ch := 0; ch < original.Channels(); ch++ {
		d := floats.Distance(original.Channel(ch), processed.Channel(ch), 2)
		sumSquares += d * d
	}

	mse := sumSquares / float64(original.Len())
	return &QualityMetrics{MSE: mse, PSNR: psnr(mse)}, nil
}

func psnr(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}

func (m *QualityMetrics) String() string {
	if math.IsInf(m.PSNR, 1) {
		return "MSE 0, PSNR inf"
	}
	return fmt.Sprintf("MSE %.2f, PSNR %.2f dB", m.MSE, m.PSNR)
}
