package chain

import (
	"context"
	"fmt"
	"strings"

	"raster-filters/internal/logger"
	"raster-filters/internal/processing/filters"
	"raster-filters/internal/raster"
	"raster-filters/internal/timing"
)

// Step is one filter application inside a chain.
type Step struct {
	Filter filters.Name `yaml:"filter"`
	Param  float64      `yaml:"param"`
}

func (s Step) String() string {
	if spec, ok := filters.Parameter(s.Filter); ok && !spec.Uses {
		return s.Filter.String()
	}
	return fmt.Sprintf("%s(%g)", s.Filter, s.Param)
}

func (s Step) Apply(img *raster.Image) (*raster.Image, error) {
	return filters.Apply(s.Filter, img, s.Param)
}

// ProcessingChain feeds each step the output of the previous one.
type ProcessingChain struct {
	steps   []Step
	logger  logger.Logger
	tracker *timing.Tracker
}

type Option func(*ProcessingChain)

func WithLogger(l logger.Logger) Option {
	return func(pc *ProcessingChain) {
		pc.logger = l
	}
}

func WithTracker(t *timing.Tracker) Option {
	return func(pc *ProcessingChain) {
		pc.tracker = t
	}
}

func NewProcessingChain(steps []Step, opts ...Option) *ProcessingChain {
	pc := &ProcessingChain{
		steps:   append([]Step(nil), steps...),
		logger:  logger.Nop(),
		tracker: timing.NewTracker(),
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// Execute runs every step in order. Cancellation is honoured between steps;
// a running step always completes. An empty chain returns input unchanged.
func (pc *ProcessingChain) Execute(ctx context.Context, input *raster.Image) (*raster.Image, error) {
	if input == nil {
		return nil, raster.NewInvalidParameter("chain", "image is nil")
	}

	current := input
	for i, step := range pc.steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		stepCtx := pc.tracker.StartTiming(ctx, step.Filter.String())
		result, err := step.Apply(current)
		elapsed := pc.tracker.EndTiming(stepCtx)
		if err != nil {
			pc.logger.Error("Chain", err, map[string]interface{}{
				"step":   i,
				"filter": step.Filter.String(),
			})
			return nil, fmt.Errorf("step %d (%s) failed: %w", i, step, err)
		}

		pc.logger.Debug("Chain", "step applied", map[string]interface{}{
			"step":     i,
			"filter":   step.Filter.String(),
			"param":    step.Param,
			"channels": result.Channels(),
			"duration": elapsed.String(),
		})
		current = result
	}

	return current, nil
}

func (pc *ProcessingChain) AddStep(step Step) {
	pc.steps = append(pc.steps, step)
}

func (pc *ProcessingChain) InsertStep(index int, step Step) error {
	if index < 0 || index > len(pc.steps) {
		return fmt.Errorf("index out of range: %d", index)
	}

	pc.steps = append(pc.steps[:index], append([]Step{step}, pc.steps[index:]...)...)
	return nil
}

func (pc *ProcessingChain) RemoveStep(index int) error {
	if index < 0 || index >= len(pc.steps) {
		return fmt.Errorf("index out of range: %d", index)
	}

	pc.steps = append(pc.steps[:index], pc.steps[index+1:]...)
	return nil
}

func (pc *ProcessingChain) Steps() []Step {
	return append([]Step(nil), pc.steps...)
}

func (pc *ProcessingChain) StepCount() int {
	return len(pc.steps)
}

func (pc *ProcessingChain) Names() []string {
	names := make([]string, len(pc.steps))
	for i, step := range pc.steps {
		names[i] = step.String()
	}
	return names
}

func (pc *ProcessingChain) String() string {
	return strings.Join(pc.Names(), " -> ")
}
