package raster

import (
	"fmt"
	"image"
	"image/color"
)

// FromGoImage converts a standard library image. Gray sources become
// single-channel images, everything else becomes RGB with alpha dropped.
func FromGoImage(img image.Image) (*Image, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch typedImg := img.(type) {
	case *image.Gray:
		return grayToImage(typedImg, width, height)
	case *image.RGBA:
		return rgbaToImage(typedImg, width, height)
	case *image.NRGBA:
		return nrgbaToImage(typedImg, width, height)
	default:
		return genericToImage(img, width, height)
	}
}

func grayToImage(src *image.Gray, width, height int) (*Image, error) {
	dst, err := New(width, height, Gray)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	for y := 0; y < height; y++ {
		start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(dst.pix[y*width:(y+1)*width], src.Pix[start:start+width])
	}
	return dst, nil
}

func rgbaToImage(src *image.RGBA, width, height int) (*Image, error) {
	dst, err := New(width, height, RGB)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Premultiplied values are un-premultiplied through NRGBA.
			c := color.NRGBAModel.Convert(src.RGBAAt(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			dst.Set(y, x, 0, c.R)
			dst.Set(y, x, 1, c.G)
			dst.Set(y, x, 2, c.B)
		}
	}
	return dst, nil
}

func nrgbaToImage(src *image.NRGBA, width, height int) (*Image, error) {
	dst, err := New(width, height, RGB)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := src.NRGBAAt(x+bounds.Min.X, y+bounds.Min.Y)
			dst.Set(y, x, 0, c.R)
			dst.Set(y, x, 1, c.G)
			dst.Set(y, x, 2, c.B)
		}
	}
	return dst, nil
}

func genericToImage(img image.Image, width, height int) (*Image, error) {
	bounds := img.Bounds()

	if img.ColorModel() == color.GrayModel || img.ColorModel() == color.Gray16Model {
		dst, err := New(width, height, Gray)
		if err != nil {
			return nil, err
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray)
				dst.Set(y, x, 0, c.Y)
			}
		}
		return dst, nil
	}

	dst, err := New(width, height, RGB)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			dst.Set(y, x, 0, c.R)
			dst.Set(y, x, 1, c.G)
			dst.Set(y, x, 2, c.B)
		}
	}
	return dst, nil
}

// ToGoImage returns an *image.Gray for single-channel images and an opaque
// *image.NRGBA otherwise.
func (m *Image) ToGoImage() image.Image {
	rect := image.Rect(0, 0, m.width, m.height)

	if m.channels == Gray {
		img := image.NewGray(rect)
		for y := 0; y < m.height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+m.width], m.pix[y*m.width:(y+1)*m.width])
		}
		return img
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: m.At(y, x, 0),
				G: m.At(y, x, 1),
				B: m.At(y, x, 2),
				A: 255,
			})
		}
	}
	return img
}
