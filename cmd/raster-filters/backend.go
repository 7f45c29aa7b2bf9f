package main

import (
	"raster-filters/internal/opencv/conversion"
	"raster-filters/internal/raster"
)

// opencvBackend reads and writes files through OpenCV's codecs.
type opencvBackend struct{}

func (opencvBackend) Load(path string) (*raster.Image, error) {
	return conversion.ReadFile(path)
}

func (opencvBackend) Save(path string, img *raster.Image) error {
	return conversion.WriteFile(path, img)
}
