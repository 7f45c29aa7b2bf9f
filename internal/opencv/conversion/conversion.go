package conversion

import (
	"fmt"

	"raster-filters/internal/raster"

	"gocv.io/x/gocv"
)

// MatToImage copies an 8-bit Mat into a raster image. BGR and BGRA Mats
// become RGB images with alpha dropped.
func MatToImage(src gocv.Mat) (*raster.Image, error) {
	if err := ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	if !src.IsContinuous() {
		cloned := src.Clone()
		defer cloned.Close()
		src = cloned
	}

	rows, cols, channels := src.Rows(), src.Cols(), src.Channels()
	data := src.ToBytes()

	switch channels {
	case 1:
		return raster.FromPix(cols, rows, raster.Gray, data)
	case 3, 4:
		return bgrToImage(data, rows, cols, channels)
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
}

func bgrToImage(data []byte, rows, cols, channels int) (*raster.Image, error) {
	pix := make([]uint8, rows*cols*raster.RGB)
	for i := 0; i < rows*cols; i++ {
		src := data[i*channels:]
		pix[i*3] = src[2]
		pix[i*3+1] = src[1]
		pix[i*3+2] = src[0]
	}
	return raster.FromPix(cols, rows, raster.RGB, pix)
}

// ImageToMat copies a raster image into a new Mat in OpenCV's BGR order.
// The caller owns the returned Mat and must Close it.
func ImageToMat(img *raster.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), fmt.Errorf("input image is nil")
	}

	pix := img.Pix()
	switch img.Channels() {
	case raster.Gray:
		return gocv.NewMatFromBytes(img.Height(), img.Width(), gocv.MatTypeCV8UC1, pix)
	case raster.RGB:
		for i := 0; i < len(pix); i += 3 {
			pix[i], pix[i+2] = pix[i+2], pix[i]
		}
		return gocv.NewMatFromBytes(img.Height(), img.Width(), gocv.MatTypeCV8UC3, pix)
	default:
		return gocv.NewMat(), raster.NewUnsupportedChannelCount("image to Mat conversion", img.Channels())
	}
}

// ReadFile decodes an image file through OpenCV.
func ReadFile(path string) (*raster.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadAnyColor)
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode %s with OpenCV", path)
	}
	return MatToImage(mat)
}

// WriteFile encodes img through OpenCV, choosing the format from the extension.
func WriteFile(path string, img *raster.Image) error {
	mat, err := ImageToMat(img)
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("failed to write %s with OpenCV", path)
	}
	return nil
}
