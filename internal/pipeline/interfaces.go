package pipeline

import (
	"raster-filters/internal/raster"
)

// ImageLoader reads an image file into a raster image.
type ImageLoader interface {
	Load(path string) (*raster.Image, error)
}

// ImageSaver writes a raster image, choosing the format from the path.
type ImageSaver interface {
	Save(path string, img *raster.Image) error
}
