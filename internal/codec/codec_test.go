package codec

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"raster-filters/internal/raster"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(t *testing.T, channels int) *raster.Image {
	t.Helper()
	const w, h = 8, 6
	pix := make([]uint8, w*h*channels)
	for i := range pix {
		pix[i] = uint8(i * 5 % 256)
	}
	img, err := raster.FromPix(w, h, channels, pix)
	require.NoError(t, err)
	return img
}

func TestSaveAndLoadLossless(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		name     string
		channels int
	}{
		{"gray.png", raster.Gray},
		{"rgb.png", raster.RGB},
		{"rgb.bmp", raster.RGB},
		{"rgb.tiff", raster.RGB},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img := gradientImage(t, tc.channels)
			path := filepath.Join(dir, tc.name)

			require.NoError(t, NewSaver(nil, nil).Save(path, img))
			loaded, err := NewLoader(nil, nil).Load(path)
			require.NoError(t, err)

			assert.Equal(t, img.Width(), loaded.Width())
			assert.Equal(t, img.Height(), loaded.Height())
			if tc.channels == raster.Gray {
				assert.True(t, img.Equal(loaded))
			} else {
				assert.Equal(t, img.Pix(), loaded.Pix())
			}
		})
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	img := gradientImage(t, raster.RGB)
	require.NoError(t, NewSaver(nil, nil).Save(path, img))

	loaded, err := NewLoader(nil, nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, img.Width(), loaded.Width())
	assert.Equal(t, img.Height(), loaded.Height())
}

func TestSaveUnknownExtensionWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.raw")
	require.NoError(t, NewSaver(nil, nil).Save(path, gradientImage(t, raster.RGB)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestSaveNil(t *testing.T) {
	assert.Error(t, NewSaver(nil, nil).Save(filepath.Join(t.TempDir(), "x.png"), nil))
}

func TestDecode(t *testing.T) {
	img := gradientImage(t, raster.Gray)
	var buf bytes.Buffer
	require.NoError(t, NewSaver(nil, nil).Encode(&buf, img, imaging.PNG))

	decoded, err := NewLoader(nil, nil).Decode(&buf)
	require.NoError(t, err)
	assert.True(t, img.Equal(decoded))

	_, err = NewLoader(nil, nil).Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(nil, nil).Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	rgb, err := Preview(gradientImage(t, raster.RGB), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, rgb.Width())
	assert.Equal(t, 4, rgb.Height())
	assert.Equal(t, raster.RGB, rgb.Channels())

	gray, err := Preview(gradientImage(t, raster.Gray), 16)
	require.NoError(t, err)
	assert.Equal(t, 16, gray.Width())
	assert.Equal(t, raster.Gray, gray.Channels())

	_, err = Preview(gradientImage(t, raster.Gray), 0)
	assert.ErrorIs(t, err, raster.ErrInvalidParameter)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, "jpeg", FormatOf("a/b.JPG"))
	assert.Equal(t, "tiff", FormatOf("scan.tif"))
	assert.Equal(t, "webp", FormatOf("x.webp"))
	assert.Equal(t, "unknown", FormatOf("noext"))
}
