package raster

import (
	"math"
)

const (
	Gray = 1
	RGB  = 3
)

// Image is a dense row-major grid of 8-bit samples with 1 or 3 channels.
// Samples are written only while an image is being built; transforms always
// return a freshly allocated Image and never modify their input.
type Image struct {
	width    int
	height   int
	channels int
	pix      []uint8
}

// New allocates a zero-filled image
func New(width, height, channels int) (*Image, error) {
	if err := ValidateShape(width, height, channels, "new image"); err != nil {
		return nil, err
	}

	return &Image{
		width:    width,
		height:   height,
		channels: channels,
		pix:      make([]uint8, width*height*channels),
	}, nil
}

// FromPix builds an image from a copy of interleaved samples.
func FromPix(width, height, channels int, pix []uint8) (*Image, error) {
	if err := ValidateShape(width, height, channels, "image from pixels"); err != nil {
		return nil, err
	}

	if len(pix) != width*height*channels {
		return nil, NewDimensionMismatch("image from pixels",
			"got %d samples, want %dx%dx%d=%d", len(pix), width, height, channels, width*height*channels)
	}

	data := make([]uint8, len(pix))
	copy(data, pix)

	return &Image{width: width, height: height, channels: channels, pix: data}, nil
}

// ValidateShape checks the dimensions and channel count of an image
func ValidateShape(width, height, channels int, op string) error {
	if channels != Gray && channels != RGB {
		return NewUnsupportedChannelCount(op, channels)
	}

	if width <= 0 || height <= 0 {
		return NewDimensionMismatch(op, "invalid dimensions %dx%d", width, height)
	}

	return nil
}

func (m *Image) Width() int    { return m.width }
func (m *Image) Height() int   { return m.height }
func (m *Image) Channels() int { return m.channels }

// Len returns the number of samples
func (m *Image) Len() int { return len(m.pix) }

func (m *Image) offset(row, col, ch int) int {
	return (row*m.width+col)*m.channels + ch
}

// At returns the sample at (row, col, channel).
func (m *Image) At(row, col, ch int) uint8 {
	return m.pix[m.offset(row, col, ch)]
}

// Set writes a sample. Only builders of a new image call it.
func (m *Image) Set(row, col, ch int, v uint8) {
	m.pix[m.offset(row, col, ch)] = v
}

// Pix returns a copy of the interleaved samples.
func (m *Image) Pix() []uint8 {
	data := make([]uint8, len(m.pix))
	copy(data, m.pix)
	return data
}

// Channel extracts one channel widened to float64, row-major.
func (m *Image) Channel(ch int) []float64 {
	out := make([]float64, m.width*m.height)
	for i := range out {
		out[i] = float64(m.pix[i*m.channels+ch])
	}
	return out
}

// SetChannel quantises values with ClipToByte and stores them in one channel.
func (m *Image) SetChannel(ch int, values []float64) error {
	if len(values) != m.width*m.height {
		return NewDimensionMismatch("set channel",
			"got %d values, want %d", len(values), m.width*m.height)
	}

	for i, v := range values {
		m.pix[i*m.channels+ch] = ClipToByte(v)
	}
	return nil
}

func (m *Image) Clone() *Image {
	return &Image{width: m.width, height: m.height, channels: m.channels, pix: m.Pix()}
}

// SameShape reports whether both images have identical dimensions and channels.
func (m *Image) SameShape(o *Image) bool {
	return o != nil && m.width == o.width && m.height == o.height && m.channels == o.channels
}

func (m *Image) Equal(o *Image) bool {
	if !m.SameShape(o) {
		return false
	}
	for i := range m.pix {
		if m.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ClipToByte rounds half away from zero and clamps into [0,255].
// NaN maps to 0.
func ClipToByte(x float64) uint8 {
	if math.IsNaN(x) {
		return 0
	}
	r := math.Round(x)
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}
