package filters

import (
	"errors"
	"math"
	"sync"
	"testing"

	"raster-filters/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayImage(t *testing.T, width, height int, pix ...uint8) *raster.Image {
	t.Helper()
	img, err := raster.FromPix(width, height, raster.Gray, pix)
	require.NoError(t, err)
	return img
}

func uniform(t *testing.T, width, height, channels int, v uint8) *raster.Image {
	t.Helper()
	pix := make([]uint8, width*height*channels)
	for i := range pix {
		pix[i] = v
	}
	img, err := raster.FromPix(width, height, channels, pix)
	require.NoError(t, err)
	return img
}

// sample builds a deterministic RGB test image with varied content.
func sample(t *testing.T, width, height int) *raster.Image {
	t.Helper()
	pix := make([]uint8, width*height*3)
	for i := range pix {
		pix[i] = uint8((i*37 + (i/7)*11) % 256)
	}
	img, err := raster.FromPix(width, height, raster.RGB, pix)
	require.NoError(t, err)
	return img
}

func rows(img *raster.Image) [][]uint8 {
	out := make([][]uint8, img.Height())
	for r := range out {
		out[r] = make([]uint8, img.Width())
		for c := range out[r] {
			out[r][c] = img.At(r, c, 0)
		}
	}
	return out
}

func TestApplyPreservesShape(t *testing.T) {
	img := sample(t, 6, 5)

	forcedGray := map[Name]bool{
		Grayscale: true, Binary: true, Binarisation: true,
		Roberts: true, Sobel: true, Prewitt: true, Scharr: true, Ridge: true,
		Laplace: true, HighPass: true,
	}

	for _, spec := range Catalog() {
		t.Run(spec.Filter.String(), func(t *testing.T) {
			param := spec.Default
			if !spec.Uses {
				param = 0
			}
			out, err := Apply(spec.Filter, img, param)
			require.NoError(t, err)
			assert.Equal(t, img.Width(), out.Width())
			assert.Equal(t, img.Height(), out.Height())

			want := raster.RGB
			if forcedGray[spec.Filter] {
				want = raster.Gray
			}
			assert.Equal(t, want, out.Channels())
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	img := sample(t, 5, 5)
	before := img.Pix()

	for _, spec := range Catalog() {
		_, err := Apply(spec.Filter, img, spec.Default)
		require.NoError(t, err, spec.Filter.String())
	}
	assert.Equal(t, before, img.Pix())
}

func TestGrayscale(t *testing.T) {
	img, err := raster.FromPix(2, 1, raster.RGB, []uint8{100, 150, 200, 255, 255, 255})
	require.NoError(t, err)

	gray, err := ToGrayscale(img)
	require.NoError(t, err)
	assert.Equal(t, raster.Gray, gray.Channels())
	// 0.2989·100 + 0.5870·150 + 0.1140·200 = 140.74
	assert.Equal(t, uint8(141), gray.At(0, 0, 0))
	assert.Equal(t, uint8(255), gray.At(0, 1, 0))

	again, err := ToGrayscale(gray)
	require.NoError(t, err)
	assert.True(t, gray.Equal(again))
	assert.NotSame(t, gray, again)

	again.Set(0, 0, 0, 7)
	assert.Equal(t, uint8(141), gray.At(0, 0, 0))
}

func TestNegativeIsAnInvolution(t *testing.T) {
	img := sample(t, 7, 3)

	once, err := Apply(Negative, img, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(255-img.At(1, 2, 1)), once.At(1, 2, 1))

	twice, err := Apply(Negative, once, 0)
	require.NoError(t, err)
	assert.True(t, img.Equal(twice))
}

func TestBinaryAndBinarisationAgree(t *testing.T) {
	img := sample(t, 6, 6)
	for _, level := range []float64{0, 50, 99.5, 128, 254, 255} {
		a, err := Apply(Binary, img, level)
		require.NoError(t, err)
		b, err := Apply(Binarisation, img, level)
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "threshold %v", level)
	}
}

func TestThresholdIsStrict(t *testing.T) {
	img := grayImage(t, 3, 1, 100, 101, 0)
	out, err := Threshold(img, 100)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 0}, out.Pix())

	out, err = Threshold(img, -1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 255, 255}, out.Pix())
}

func TestContrastIdentity(t *testing.T) {
	img := sample(t, 5, 4)
	out, err := Apply(Contrast, img, 1.0)
	require.NoError(t, err)
	assert.True(t, img.Equal(out))
}

func TestContrast(t *testing.T) {
	img := grayImage(t, 4, 1, 0, 128, 160, 255)
	out, err := Apply(Contrast, img, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 128, 192, 255}, out.Pix())

	flat, err := Apply(Contrast, img, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint8{128, 128, 128, 128}, flat.Pix())
}

func TestBrightnessRoundTrip(t *testing.T) {
	img := grayImage(t, 6, 1, 0, 49, 50, 128, 205, 250)

	up, err := Apply(Brightness, img, 50)
	require.NoError(t, err)
	assert.Equal(t, []uint8{50, 99, 100, 178, 255, 255}, up.Pix())

	down, err := Apply(Brightness, up, -50)
	require.NoError(t, err)

	for i, v := range img.Pix() {
		if v >= 50 && v <= 205 {
			assert.Equal(t, v, down.Pix()[i], "sample %d", i)
		}
	}
	// Samples clipped on the way up do not come back.
	assert.Equal(t, uint8(205), down.At(0, 5, 0))
}

func TestAveraging(t *testing.T) {
	img := uniform(t, 3, 3, raster.Gray, 90)
	out, err := Apply(Averaging, img, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{
		{40, 60, 40},
		{60, 90, 60},
		{40, 60, 40},
	}, rows(out))

	// Even sizes read the window ending at the sample.
	even, err := Apply(Averaging, grayImage(t, 2, 2, 4, 8, 12, 16), 2)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{1, 3}, {4, 10}}, rows(even))

	// Fractional sizes truncate.
	trunc, err := Apply(Averaging, img, 3.9)
	require.NoError(t, err)
	assert.True(t, out.Equal(trunc))
}

func TestMinimalKernelsAreIdentity(t *testing.T) {
	img := sample(t, 6, 4)
	for _, name := range []Name{Averaging, Median, Kuwahara} {
		out, err := Apply(name, img, 1)
		require.NoError(t, err)
		assert.True(t, img.Equal(out), name.String())
	}

	// sigma 0.1 derives a 1x1 Gaussian.
	out, err := Apply(Gaussian, img, 0.1)
	require.NoError(t, err)
	assert.True(t, img.Equal(out))
}

func TestMedian(t *testing.T) {
	img := grayImage(t, 3, 3,
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	)
	out, err := Apply(Median, img, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{
		{0, 2, 0},
		{2, 5, 3},
		{0, 5, 0},
	}, rows(out))

	even, err := Apply(Median, grayImage(t, 2, 2, 4, 8, 12, 16), 2)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{0, 2}, {2, 10}}, rows(even))
}

func TestGaussianOnUniformImage(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 2, 5} {
		img := uniform(t, 5, 4, raster.RGB, 123)
		out, err := Apply(Gaussian, img, sigma)
		require.NoError(t, err)
		assert.True(t, img.Equal(out), "sigma %v", sigma)
	}
}

func TestGaussianSmoothsImpulse(t *testing.T) {
	img := grayImage(t, 5, 5,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 200, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
	)
	out, err := Apply(Gaussian, img, 0.5)
	require.NoError(t, err)

	center := out.At(2, 2, 0)
	assert.Less(t, center, uint8(200))
	assert.Greater(t, out.At(2, 1, 0), uint8(0))
	assert.Equal(t, out.At(2, 1, 0), out.At(1, 2, 0))
	assert.Equal(t, out.At(2, 1, 0), out.At(2, 3, 0))
	assert.Equal(t, uint8(0), out.At(0, 0, 0))
}

func TestSharpening(t *testing.T) {
	img := uniform(t, 3, 3, raster.Gray, 10)
	out, err := Apply(Sharpening, img, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{
		{30, 20, 30},
		{20, 10, 20},
		{30, 20, 30},
	}, rows(out))
}

func TestEdgeFiltersOnUniformImage(t *testing.T) {
	img := uniform(t, 5, 5, raster.RGB, 77)

	for _, name := range []Name{Prewitt, Scharr, Ridge, Laplace} {
		out, err := Apply(name, img, 0)
		require.NoError(t, err)
		assert.Equal(t, make([]uint8, 25), out.Pix(), name.String())
	}

	// Zero padded operators only see a flat neighbourhood away from the border.
	for _, name := range []Name{Sobel, Roberts} {
		out, err := Apply(name, img, 0)
		require.NoError(t, err)
		for r := 1; r < 4; r++ {
			for c := 1; c < 4; c++ {
				assert.Zero(t, out.At(r, c, 0), "%s at (%d,%d)", name, r, c)
			}
		}
	}

	black := uniform(t, 4, 4, raster.Gray, 0)
	for _, name := range []Name{Sobel, Roberts, Prewitt, Scharr, Ridge} {
		out, err := Apply(name, black, 0)
		require.NoError(t, err)
		assert.Equal(t, make([]uint8, 16), out.Pix(), name.String())
	}
}

func TestSobelZeroPaddingBorder(t *testing.T) {
	out, err := Apply(Sobel, uniform(t, 4, 4, raster.Gray, 10), 0)
	require.NoError(t, err)
	// Corners: gx = gy = 30, magnitude 42.43. Edges: 40.
	assert.Equal(t, [][]uint8{
		{42, 40, 40, 42},
		{40, 0, 0, 40},
		{40, 0, 0, 40},
		{42, 40, 40, 42},
	}, rows(out))
}

func TestSobelCheckerboard(t *testing.T) {
	img := grayImage(t, 4, 4,
		0, 0, 255, 255,
		0, 0, 255, 255,
		255, 255, 0, 0,
		255, 255, 0, 0,
	)
	out, err := Apply(Sobel, img, math.NaN())
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{
		{0, 255, 255, 255},
		{255, 255, 255, 255},
		{255, 255, 255, 255},
		{255, 255, 255, 0},
	}, rows(out))
}

func TestRobertsWindowing(t *testing.T) {
	out, err := Apply(Roberts, uniform(t, 4, 4, raster.Gray, 10), 0)
	require.NoError(t, err)
	// Each output reads rows i-1..i and columns j-1..j, so only the top row
	// and left column touch the zero padding.
	assert.Equal(t, [][]uint8{
		{10, 14, 14, 14},
		{14, 0, 0, 0},
		{14, 0, 0, 0},
		{14, 0, 0, 0},
	}, rows(out))
}

func TestGradientOnStep(t *testing.T) {
	img := grayImage(t, 3, 3,
		0, 0, 10,
		0, 0, 10,
		0, 0, 10,
	)

	tests := []struct {
		name Name
		want uint8
	}{
		{Prewitt, 30},
		{Ridge, 40},
		{Scharr, 160},
	}
	for _, tt := range tests {
		t.Run(tt.name.String(), func(t *testing.T) {
			out, err := Apply(tt.name, img, 0)
			require.NoError(t, err)
			for r := 0; r < 3; r++ {
				assert.Equal(t, []uint8{0, tt.want, 0}, rows(out)[r])
			}
		})
	}
}

func TestLaplace(t *testing.T) {
	img := grayImage(t, 3, 3,
		0, 0, 0,
		0, 100, 0,
		0, 0, 0,
	)
	out, err := Apply(Laplace, img, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{
		{0, 200, 0},
		{200, 0, 200},
		{0, 200, 0},
	}, rows(out))
}

func TestHighPass(t *testing.T) {
	img := uniform(t, 4, 3, raster.RGB, 10)

	out, err := Apply(HighPass, img, 8)
	require.NoError(t, err)
	assert.Equal(t, make([]uint8, 12), out.Pix())

	out, err = Apply(HighPass, img, 9)
	require.NoError(t, err)
	assert.Equal(t, uint8(10), out.At(0, 0, 0))
	assert.Equal(t, uint8(10), out.At(2, 3, 0))
}

func TestKuwaharaOnUniformImage(t *testing.T) {
	for _, size := range []float64{2, 3, 4, 5, 10} {
		img := uniform(t, 6, 5, raster.RGB, 201)
		out, err := Apply(Kuwahara, img, size)
		require.NoError(t, err)
		assert.True(t, img.Equal(out), "size %v", size)
	}
}

func TestKuwaharaPreservesStepEdge(t *testing.T) {
	img := grayImage(t, 4, 4,
		20, 20, 220, 220,
		20, 20, 220, 220,
		20, 20, 220, 220,
		20, 20, 220, 220,
	)
	out, err := Apply(Kuwahara, img, 3)
	require.NoError(t, err)
	assert.True(t, img.Equal(out))
}

func TestGaussianSizeBound(t *testing.T) {
	img := sample(t, 4, 4)

	_, err := Apply(Gaussian, img, float64(MaxKernelSize)/6)
	require.NoError(t, err)

	for _, sigma := range []float64{float64(MaxKernelSize+1) / 6, 1e20, 1e300, math.MaxFloat64} {
		_, err := Apply(Gaussian, img, sigma)
		require.ErrorIs(t, err, raster.ErrInvalidParameter)
		assert.ErrorContains(t, err, "larger than 1025")
	}
}

func TestInvalidParameters(t *testing.T) {
	img := sample(t, 4, 4)

	tests := []struct {
		name  Name
		param float64
	}{
		{Averaging, 0},
		{Averaging, 0.9},
		{Median, -3},
		{Kuwahara, MaxKernelSize + 1},
		{Gaussian, 0},
		{Gaussian, -1},
		{Gaussian, 1000},
		{Gaussian, 1e300},
		{Gaussian, math.Inf(1)},
		{Brightness, math.NaN()},
		{Contrast, math.Inf(-1)},
		{Binary, math.NaN()},
		{Sharpening, math.NaN()},
		{HighPass, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name.String(), func(t *testing.T) {
			_, err := Apply(tt.name, img, tt.param)
			require.Error(t, err)
			assert.True(t, errors.Is(err, raster.ErrInvalidParameter), err.Error())

			var fe *raster.FilterError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, raster.InvalidParameter, fe.Kind)
		})
	}
}

func TestIgnoredParametersAreDiscarded(t *testing.T) {
	img := sample(t, 4, 4)
	for _, name := range []Name{Grayscale, Negative, Roberts, Sobel, Laplace, Prewitt, Ridge, Scharr} {
		a, err := Apply(name, img, math.NaN())
		require.NoError(t, err, name.String())
		b, err := Apply(name, img, 42)
		require.NoError(t, err)
		assert.True(t, a.Equal(b), name.String())
	}
}

func TestApplyRejectsNilAndUnknown(t *testing.T) {
	_, err := Apply(Sobel, nil, 0)
	assert.True(t, errors.Is(err, raster.ErrInvalidParameter))

	_, err = Apply(Name(99), sample(t, 2, 2), 0)
	assert.True(t, errors.Is(err, raster.ErrInvalidParameter))
}

func TestConcurrentCallsShareInput(t *testing.T) {
	img := sample(t, 16, 16)
	want, err := Apply(Kuwahara, img, 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*raster.Image, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := Apply(Kuwahara, img, 5)
			if err == nil {
				results[i] = out
			}
		}(i)
	}
	wg.Wait()

	for i, out := range results {
		require.NotNil(t, out, "goroutine %d", i)
		assert.True(t, want.Equal(out))
	}
}
