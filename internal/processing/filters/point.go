package filters

import (
	"raster-filters/internal/raster"
)

// Luminance weights applied to R, G and B.
const (
	lumaR = 0.2989
	lumaG = 0.5870
	lumaB = 0.1140
)

// ToGrayscale returns a copy of img when it already has one channel,
// otherwise the weighted luminance of its RGB samples.
func ToGrayscale(img *raster.Image) (*raster.Image, error) {
	if err := validate(img, "grayscale"); err != nil {
		return nil, err
	}
	if img.Channels() == raster.Gray {
		return img.Clone(), nil
	}

	out, err := raster.New(img.Width(), img.Height(), raster.Gray)
	if err != nil {
		return nil, err
	}

	for r := 0; r < img.Height(); r++ {
		for c := 0; c < img.Width(); c++ {
			y := lumaR*float64(img.At(r, c, 0)) +
				lumaG*float64(img.At(r, c, 1)) +
				lumaB*float64(img.At(r, c, 2))
			out.Set(r, c, 0, raster.ClipToByte(y))
		}
	}
	return out, nil
}

// pointwise builds a new image of the same shape by mapping every sample.
func pointwise(img *raster.Image, fn func(float64) float64) (*raster.Image, error) {
	out, err := raster.New(img.Width(), img.Height(), img.Channels())
	if err != nil {
		return nil, err
	}

	for r := 0; r < img.Height(); r++ {
		for c := 0; c < img.Width(); c++ {
			for ch := 0; ch < img.Channels(); ch++ {
				out.Set(r, c, ch, raster.ClipToByte(fn(float64(img.At(r, c, ch)))))
			}
		}
	}
	return out, nil
}

// Threshold grayscales img and sets samples strictly above level to 255 and
// the rest to 0. Binary and Binarisation both resolve to it.
func Threshold(img *raster.Image, level float64) (*raster.Image, error) {
	if err := checkFinite("binary", level); err != nil {
		return nil, err
	}

	gray, err := ToGrayscale(img)
	if err != nil {
		return nil, err
	}

	return pointwise(gray, func(v float64) float64 {
		if v > level {
			return 255
		}
		return 0
	})
}

// AdjustBrightness adds a signed offset to every sample.
func AdjustBrightness(img *raster.Image, delta float64) (*raster.Image, error) {
	if err := validate(img, "brightness"); err != nil {
		return nil, err
	}
	if err := checkFinite("brightness", delta); err != nil {
		return nil, err
	}

	return pointwise(img, func(v float64) float64 {
		return v + delta
	})
}

// AdjustContrast scales every sample about mid-gray: factor·(v−128)+128.
func AdjustContrast(img *raster.Image, factor float64) (*raster.Image, error) {
	if err := validate(img, "contrast"); err != nil {
		return nil, err
	}
	if err := checkFinite("contrast", factor); err != nil {
		return nil, err
	}

	return pointwise(img, func(v float64) float64 {
		return factor*(v-128) + 128
	})
}

func Invert(img *raster.Image) (*raster.Image, error) {
	if err := validate(img, "negative"); err != nil {
		return nil, err
	}

	return pointwise(img, func(v float64) float64 {
		return 255 - v
	})
}
