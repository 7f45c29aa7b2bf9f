package codec

import (
	"context"
	"fmt"
	"io"
	"os"

	"raster-filters/internal/logger"
	"raster-filters/internal/raster"
	"raster-filters/internal/timing"

	"github.com/disintegration/imaging"
)

// JPEGQuality is used for every JPEG written.
const JPEGQuality = 95

type Saver struct {
	logger  logger.Logger
	tracker *timing.Tracker
}

func NewSaver(log logger.Logger, tracker *timing.Tracker) *Saver {
	if log == nil {
		log = logger.Nop()
	}
	if tracker == nil {
		tracker = timing.NewTracker()
	}
	return &Saver{logger: log, tracker: tracker}
}

// Save encodes img in the format named by the path's extension. Unknown
// extensions are written as PNG.
func (s *Saver) Save(path string, img *raster.Image) error {
	if img == nil {
		return fmt.Errorf("no image data to save")
	}

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		s.logger.Warning("ImageSaver", "format not supported, using PNG", map[string]interface{}{
			"path": path,
		})
		format = imaging.PNG
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := s.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func (s *Saver) Encode(w io.Writer, img *raster.Image, format imaging.Format) error {
	if img == nil {
		return fmt.Errorf("no image data to save")
	}

	ctx := s.tracker.StartTiming(context.Background(), "encode")
	defer s.tracker.EndTiming(ctx)

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"format": format.String(),
		"width":  img.Width(),
		"height": img.Height(),
	})

	if err := imaging.Encode(w, img.ToGoImage(), format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": format.String(),
		})
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"format": format.String(),
	})
	return nil
}
