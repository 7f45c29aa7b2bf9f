package codec

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"raster-filters/internal/logger"
	"raster-filters/internal/raster"
	"raster-filters/internal/timing"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Loader decodes image files into raster images. Gray sources become single
// channel images; everything else becomes RGB with alpha dropped.
type Loader struct {
	logger  logger.Logger
	tracker *timing.Tracker
}

func NewLoader(log logger.Logger, tracker *timing.Tracker) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	if tracker == nil {
		tracker = timing.NewTracker()
	}
	return &Loader{logger: log, tracker: tracker}
}

func (l *Loader) Load(path string) (*raster.Image, error) {
	ctx := l.tracker.StartTiming(context.Background(), "load_file")
	defer l.tracker.EndTiming(ctx)

	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":   path,
		"format": FormatOf(path),
	})

	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return l.convert(src, FormatOf(path))
}

func (l *Loader) Decode(r io.Reader) (*raster.Image, error) {
	ctx := l.tracker.StartTiming(context.Background(), "decode")
	defer l.tracker.EndTiming(ctx)

	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return l.convert(src, "")
}

func (l *Loader) convert(src image.Image, format string) (*raster.Image, error) {
	img, err := raster.FromGoImage(src)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": img.Channels(),
		"format":   format,
	})
	return img, nil
}

// FormatOf names the image format implied by a file extension.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
