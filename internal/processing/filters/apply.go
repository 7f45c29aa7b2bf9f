package filters

import (
	"math"

	"raster-filters/internal/raster"
)

// MaxKernelSize bounds every derived window size. Larger windows only cost
// memory: the padded working copy grows by the window size on each side.
const MaxKernelSize = 1025

// Apply runs the named filter on img with its scalar parameter. Filters that
// take no parameter ignore it. img is never modified; the result is a new
// image of the same width and height.
func Apply(name Name, img *raster.Image, param float64) (*raster.Image, error) {
	switch name {
	case Grayscale:
		return ToGrayscale(img)
	case Binary, Binarisation:
		return Threshold(img, param)
	case Brightness:
		return AdjustBrightness(img, param)
	case Contrast:
		return AdjustContrast(img, param)
	case Negative:
		return Invert(img)
	case Averaging:
		size, err := kernelSize(name, param)
		if err != nil {
			return nil, err
		}
		return Smooth(img, size)
	case Median:
		size, err := kernelSize(name, param)
		if err != nil {
			return nil, err
		}
		return MedianFilter(img, size)
	case Kuwahara:
		size, err := kernelSize(name, param)
		if err != nil {
			return nil, err
		}
		return KuwaharaFilter(img, size)
	case Gaussian:
		return Blur(img, param)
	case Sharpening:
		return Sharpen(img, param)
	case HighPass:
		return HighPassFilter(img, param)
	case Laplace:
		return LaplaceEdges(img)
	case Prewitt:
		return PrewittEdges(img)
	case Roberts:
		return RobertsCross(img)
	case Sobel:
		return SobelEdges(img)
	case Scharr:
		return ScharrEdges(img)
	case Ridge:
		return RidgeEdges(img)
	default:
		return nil, raster.NewInvalidParameter("apply", "unknown filter %s", name)
	}
}

// kernelSize truncates a kernel-size parameter toward zero and checks it.
func kernelSize(name Name, param float64) (int, error) {
	if err := checkFinite(name.String(), param); err != nil {
		return 0, err
	}

	size := math.Trunc(param)
	if size < 1 || size > MaxKernelSize {
		return 0, raster.NewInvalidParameter(name.String(),
			"kernel size must be in [1,%d], got %v", MaxKernelSize, param)
	}
	return int(size), nil
}

func checkFinite(op string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return raster.NewInvalidParameter(op, "parameter must be finite, got %v", v)
	}
	return nil
}

func validate(img *raster.Image, op string) error {
	if img == nil {
		return raster.NewInvalidParameter(op, "image is nil")
	}
	return raster.ValidateShape(img.Width(), img.Height(), img.Channels(), op)
}
