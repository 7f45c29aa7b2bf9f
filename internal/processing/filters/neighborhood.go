package filters

import (
	"raster-filters/internal/processing/kernel"
	"raster-filters/internal/processing/window"
	"raster-filters/internal/raster"
)

// Smooth averages every K x K neighbourhood, zero padded.
func Smooth(img *raster.Image, size int) (*raster.Image, error) {
	if err := validate(img, "averaging"); err != nil {
		return nil, err
	}

	box, err := kernel.Box(size)
	if err != nil {
		return nil, raster.NewInvalidParameter("averaging", "%v", err)
	}
	return window.Map(img, window.For(box, window.Zero), window.Convolve(box))
}

// Blur convolves with a normalised Gaussian of int(6σ)|1 samples per side,
// reflect padded.
func Blur(img *raster.Image, sigma float64) (*raster.Image, error) {
	if err := validate(img, "gaussian"); err != nil {
		return nil, err
	}
	if err := checkFinite("gaussian", sigma); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, raster.NewInvalidParameter("gaussian", "sigma must be > 0, got %v", sigma)
	}
	// int(6σ)|1 exceeds MaxKernelSize exactly when 6σ >= MaxKernelSize+1.
	// Checked on the float so huge sigmas never reach the int conversion.
	if 6*sigma >= MaxKernelSize+1 {
		return nil, raster.NewInvalidParameter("gaussian",
			"sigma %v derives a kernel larger than %d", sigma, MaxKernelSize)
	}

	g, err := kernel.Gaussian(kernel.GaussianSize(sigma), sigma)
	if err != nil {
		return nil, raster.NewInvalidParameter("gaussian", "%v", err)
	}
	return window.Map(img, window.For(g, window.Reflect), window.Convolve(g))
}

// Sharpen applies the 4-neighbour kernel with the given center weight, zero padded.
func Sharpen(img *raster.Image, center float64) (*raster.Image, error) {
	if err := validate(img, "sharpening"); err != nil {
		return nil, err
	}
	if err := checkFinite("sharpening", center); err != nil {
		return nil, err
	}

	k := kernel.Sharpen(center)
	return window.Map(img, window.For(k, window.Zero), window.Convolve(k))
}

// MedianFilter replaces each sample with the median of its K x K zero-padded
// neighbourhood.
func MedianFilter(img *raster.Image, size int) (*raster.Image, error) {
	if err := validate(img, "median"); err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, raster.NewInvalidParameter("median", "kernel size must be >= 1, got %d", size)
	}

	geom := window.Geometry{Size: size, Pad: size / 2, Mode: window.Zero}
	return window.Map(img, geom, window.Median(size))
}

// KuwaharaFilter is the edge-preserving smoother: each sample takes the mean
// of the least varying of four overlapping quadrants, reflect padded.
func KuwaharaFilter(img *raster.Image, size int) (*raster.Image, error) {
	if err := validate(img, "kuwahara"); err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, raster.NewInvalidParameter("kuwahara", "kernel size must be >= 1, got %d", size)
	}

	geom := window.Geometry{Size: size, Pad: size / 2, Mode: window.Reflect}
	return window.Map(img, geom, window.Kuwahara(size))
}
