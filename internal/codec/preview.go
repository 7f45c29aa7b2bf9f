package codec

import (
	"fmt"

	"raster-filters/internal/raster"

	"github.com/disintegration/imaging"
)

// Preview resizes img to size x size with a Lanczos filter, keeping its
// channel count. Aspect ratio is not preserved.
func Preview(img *raster.Image, size int) (*raster.Image, error) {
	if img == nil {
		return nil, raster.NewInvalidParameter("preview", "image is nil")
	}
	if size < 1 {
		return nil, raster.NewInvalidParameter("preview", "size must be >= 1, got %d", size)
	}

	resized, err := raster.FromGoImage(imaging.Resize(img.ToGoImage(), size, size, imaging.Lanczos))
	if err != nil {
		return nil, fmt.Errorf("failed to convert preview: %w", err)
	}
	if img.Channels() == raster.Gray && resized.Channels() != raster.Gray {
		gray, err := raster.New(size, size, raster.Gray)
		if err != nil {
			return nil, err
		}
		if err := gray.SetChannel(0, resized.Channel(0)); err != nil {
			return nil, err
		}
		return gray, nil
	}
	return resized, nil
}
