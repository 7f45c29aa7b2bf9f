package pipeline

import (
	"fmt"
	"sync"

	"raster-filters/internal/logger"
	"raster-filters/internal/processing/chain"
	"raster-filters/internal/processing/filters"
	"raster-filters/internal/raster"
)

// Coordinator holds one working image pair: the input and the result of the
// last filter applied to it. Swap promotes the result to the input so another
// filter can be applied on top. It is safe for concurrent use.
type Coordinator struct {
	mu             sync.RWMutex
	originalImage  *raster.Image
	processedImage *raster.Image
	lastStep       chain.Step
	history        []chain.Step
	loader         ImageLoader
	saver          ImageSaver
	logger         logger.Logger
}

func NewCoordinator(loader ImageLoader, saver ImageSaver, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{loader: loader, saver: saver, logger: log}
}

func (c *Coordinator) LoadImage(path string) (*raster.Image, error) {
	if c.loader == nil {
		return nil, fmt.Errorf("coordinator has no image loader")
	}
	img, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}
	c.SetImage(img)
	return img, nil
}

// SetImage replaces the input and clears any result and history.
func (c *Coordinator) SetImage(img *raster.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.originalImage = img
	c.processedImage = nil
	c.history = nil
}

// ProcessImage filters the current input. The input itself is left in place,
// so calling it again with another filter replaces the result.
func (c *Coordinator) ProcessImage(name filters.Name, param float64) (*raster.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.originalImage == nil {
		return nil, fmt.Errorf("no image loaded")
	}

	result, err := filters.Apply(name, c.originalImage, param)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}

	c.processedImage = result
	c.lastStep = chain.Step{Filter: name, Param: param}
	c.logger.Debug("Coordinator", "filter applied", map[string]interface{}{
		"filter": name.String(),
		"param":  param,
	})
	return result, nil
}

// Swap makes the last result the new input and records the step that
// produced it.
func (c *Coordinator) Swap() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.processedImage == nil {
		return fmt.Errorf("no processed image to swap")
	}

	c.originalImage = c.processedImage
	c.processedImage = nil
	c.history = append(c.history, c.lastStep)
	return nil
}

func (c *Coordinator) SaveImage(path string) error {
	c.mu.RLock()
	img := c.processedImage
	if img == nil {
		img = c.originalImage
	}
	c.mu.RUnlock()

	if img == nil {
		return fmt.Errorf("no image to save")
	}
	if c.saver == nil {
		return fmt.Errorf("coordinator has no image saver")
	}
	return c.saver.Save(path, img)
}

func (c *Coordinator) GetOriginalImage() *raster.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.originalImage
}

func (c *Coordinator) GetProcessedImage() *raster.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processedImage
}

// History lists the swapped steps, oldest first.
func (c *Coordinator) History() []chain.Step {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]chain.Step(nil), c.history...)
}

// Metrics compares the current result with the current input.
func (c *Coordinator) Metrics() (*QualityMetrics, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CalculateQualityMetrics(c.originalImage, c.processedImage)
}
