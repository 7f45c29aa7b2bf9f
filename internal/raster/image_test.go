package raster

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipToByte(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want uint8
	}{
		{"negative", -12.7, 0},
		{"zero", 0, 0},
		{"rounds down", 10.49, 10},
		{"rounds half up", 10.5, 11},
		{"max", 255, 255},
		{"overflow", 300.2, 255},
		{"just below overflow", 254.6, 255},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 255},
		{"negative inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClipToByte(tt.in))
		})
	}
}

func TestNewValidatesShape(t *testing.T) {
	_, err := New(0, 4, Gray)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	_, err = New(4, 4, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedChannelCount))

	var fe *FilterError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, UnsupportedChannelCount, fe.Kind)
}

func TestFromPixCopiesInput(t *testing.T) {
	pix := []uint8{1, 2, 3, 4, 5, 6}
	img, err := FromPix(2, 1, RGB, pix)
	require.NoError(t, err)

	pix[0] = 99
	assert.Equal(t, uint8(1), img.At(0, 0, 0))
	assert.Equal(t, uint8(6), img.At(0, 1, 2))

	_, err = FromPix(2, 2, RGB, pix)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestChannelRoundTrip(t *testing.T) {
	img, err := FromPix(2, 2, RGB, []uint8{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 5, 8, 11}, img.Channel(1))

	out, err := New(2, 2, RGB)
	require.NoError(t, err)
	require.NoError(t, out.SetChannel(1, []float64{-4, 5.5, 300, 8}))
	assert.Equal(t, []float64{0, 6, 255, 8}, out.Channel(1))
	assert.Equal(t, []float64{0, 0, 0, 0}, out.Channel(0))

	assert.Error(t, out.SetChannel(0, []float64{1}))
}

func TestEqualAndClone(t *testing.T) {
	img, err := FromPix(2, 1, Gray, []uint8{10, 20})
	require.NoError(t, err)

	clone := img.Clone()
	assert.True(t, img.Equal(clone))

	clone.Set(0, 0, 0, 11)
	assert.False(t, img.Equal(clone))

	other, err := FromPix(1, 2, Gray, []uint8{10, 20})
	require.NoError(t, err)
	assert.False(t, img.Equal(other))
}

func TestGoImageRoundTrip(t *testing.T) {
	t.Run("gray", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 3, 2))
		src.SetGray(2, 1, color.Gray{Y: 200})

		img, err := FromGoImage(src)
		require.NoError(t, err)
		assert.Equal(t, Gray, img.Channels())
		assert.Equal(t, uint8(200), img.At(1, 2, 0))

		back, ok := img.ToGoImage().(*image.Gray)
		require.True(t, ok)
		assert.Equal(t, src.Pix, back.Pix)
	})

	t.Run("rgb", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

		img, err := FromGoImage(src)
		require.NoError(t, err)
		assert.Equal(t, RGB, img.Channels())
		assert.Equal(t, uint8(10), img.At(0, 1, 0))
		assert.Equal(t, uint8(20), img.At(0, 1, 1))
		assert.Equal(t, uint8(30), img.At(0, 1, 2))

		back := img.ToGoImage()
		assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, back.At(1, 0))
	})

	t.Run("sub image offset", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 4, 4))
		src.SetGray(2, 2, color.Gray{Y: 77})
		sub := src.SubImage(image.Rect(1, 1, 3, 3))

		img, err := FromGoImage(sub)
		require.NoError(t, err)
		assert.Equal(t, 2, img.Width())
		assert.Equal(t, uint8(77), img.At(1, 1, 0))
	})

	t.Run("nil", func(t *testing.T) {
		_, err := FromGoImage(nil)
		assert.Error(t, err)
	})
}
