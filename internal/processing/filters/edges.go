package filters

import (
	"raster-filters/internal/processing/kernel"
	"raster-filters/internal/processing/window"
	"raster-filters/internal/raster"
)

// gradient runs a kernel pair over the grayscale copy of img and stores
// sqrt(gx² + gy²).
func gradient(img *raster.Image, pair kernel.Pair, mode window.Mode) (*raster.Image, error) {
	gray, err := ToGrayscale(img)
	if err != nil {
		return nil, err
	}
	return window.Map(gray, window.For(pair.X, mode), window.Magnitude(pair))
}

// RobertsCross reads the 2x2 block ending at each sample (rows i-1..i,
// columns j-1..j), zero padded.
func RobertsCross(img *raster.Image) (*raster.Image, error) {
	return gradient(img, kernel.Roberts(), window.Zero)
}

func SobelEdges(img *raster.Image) (*raster.Image, error) {
	return gradient(img, kernel.Sobel(), window.Zero)
}

func PrewittEdges(img *raster.Image) (*raster.Image, error) {
	return gradient(img, kernel.Prewitt(), window.Reflect)
}

func ScharrEdges(img *raster.Image) (*raster.Image, error) {
	return gradient(img, kernel.Scharr(), window.Reflect)
}

func RidgeEdges(img *raster.Image) (*raster.Image, error) {
	return gradient(img, kernel.Ridge(), window.Reflect)
}

// grayConvolve applies a single kernel to the grayscale copy of img.
func grayConvolve(img *raster.Image, k kernel.Kernel, mode window.Mode) (*raster.Image, error) {
	gray, err := ToGrayscale(img)
	if err != nil {
		return nil, err
	}
	return window.Map(gray, window.For(k, mode), window.Convolve(k))
}

// LaplaceEdges keeps the signed second-derivative response, clipped, so
// only positive responses survive.
func LaplaceEdges(img *raster.Image) (*raster.Image, error) {
	return grayConvolve(img, kernel.Laplace(), window.Reflect)
}

func HighPassFilter(img *raster.Image, center float64) (*raster.Image, error) {
	if err := checkFinite("highPass", center); err != nil {
		return nil, err
	}
	return grayConvolve(img, kernel.HighPass(center), window.Reflect)
}
