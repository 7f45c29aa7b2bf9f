package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"raster-filters/internal/logger"
	"raster-filters/internal/processing/chain"
	"raster-filters/internal/raster"
	"raster-filters/internal/timing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Job is one image to run through the chain. Output may be empty when the
// caller only wants the in-memory result.
type Job struct {
	ID     uuid.UUID
	Input  string
	Output string
}

// Result describes a finished job.
type Result struct {
	Job      Job
	Image    *raster.Image
	Duration time.Duration
	Metrics  *QualityMetrics // nil when the chain changed the channel count
}

// JobError reports which job failed.
type JobError struct {
	Index int
	ID    uuid.UUID
	Input string
	Err   error
}

func (e *JobError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("job %d (%s) failed: %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("job %d (%s, %s) failed: %v", e.Index, e.ID, e.Input, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// Processor applies one chain to many images with a bounded number of
// concurrent jobs. Filters never share mutable state, so jobs only contend
// for CPU.
type Processor struct {
	steps   []chain.Step
	loader  ImageLoader
	saver   ImageSaver
	logger  logger.Logger
	tracker *timing.Tracker
	workers int
}

type Option func(*Processor)

func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

func WithTracker(t *timing.Tracker) Option {
	return func(p *Processor) {
		p.tracker = t
	}
}

func WithWorkers(n int) Option {
	return func(p *Processor) {
		p.workers = n
	}
}

// WithFiles sets the codec used by Process for file-backed jobs.
func WithFiles(loader ImageLoader, saver ImageSaver) Option {
	return func(p *Processor) {
		p.loader = loader
		p.saver = saver
	}
}

func NewProcessor(steps []chain.Step, opts ...Option) *Processor {
	p := &Processor{
		steps:   append([]chain.Step(nil), steps...),
		logger:  logger.Nop(),
		tracker: timing.NewTracker(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}

// NewJobs assigns a fresh id to every input path. outputFor maps an input
// path to its output path.
func NewJobs(inputs []string, outputFor func(string) string) []Job {
	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		jobs[i] = Job{ID: uuid.New(), Input: in}
		if outputFor != nil {
			jobs[i].Output = outputFor(in)
		}
	}
	return jobs
}

// Process loads, filters and saves every job. Once ctx is cancelled or a job
// fails no further jobs start; the first failure is returned as a *JobError.
// Results are indexed like jobs.
func (p *Processor) Process(ctx context.Context, jobs []Job) ([]Result, error) {
	if p.loader == nil {
		return nil, fmt.Errorf("processor has no image loader")
	}

	return p.run(ctx, jobs, func(_ int, job Job) (*raster.Image, error) {
		return p.loader.Load(job.Input)
	})
}

// ProcessImages filters in-memory images. Nothing is saved.
func (p *Processor) ProcessImages(ctx context.Context, images []*raster.Image) ([]Result, error) {
	jobs := make([]Job, len(images))
	for i := range jobs {
		jobs[i] = Job{ID: uuid.New()}
	}

	return p.run(ctx, jobs, func(i int, _ Job) (*raster.Image, error) {
		return images[i], nil
	})
}

func (p *Processor) run(ctx context.Context, jobs []Job, source func(int, Job) (*raster.Image, error)) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	p.logger.Info("Pipeline", "batch started", map[string]interface{}{
		"jobs":    len(jobs),
		"workers": p.workers,
		"chain":   chain.NewProcessingChain(p.steps).String(),
	})

	for i, job := range jobs {
		i, job := i, job
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			log := p.logger.With(map[string]interface{}{
				"job":   job.ID.String(),
				"input": job.Input,
			})
			result, err := p.runJob(gctx, i, job, source, log)
			if err != nil {
				log.Error("Pipeline", err, nil)
				return &JobError{Index: i, ID: job.ID, Input: job.Input, Err: err}
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("Pipeline", "batch completed", map[string]interface{}{
		"jobs":    len(jobs),
		"average": p.tracker.GetAverageTime("job").String(),
	})
	return results, nil
}

func (p *Processor) runJob(ctx context.Context, index int, job Job, source func(int, Job) (*raster.Image, error), log logger.Logger) (Result, error) {
	timingCtx := p.tracker.StartTiming(ctx, "job")

	input, err := source(index, job)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load: %w", err)
	}

	pc := chain.NewProcessingChain(p.steps, chain.WithLogger(log), chain.WithTracker(p.tracker))
	output, err := pc.Execute(ctx, input)
	if err != nil {
		return Result{}, err
	}

	if job.Output != "" {
		if p.saver == nil {
			return Result{}, fmt.Errorf("processor has no image saver")
		}
		if err := p.saver.Save(job.Output, output); err != nil {
			return Result{}, fmt.Errorf("failed to save: %w", err)
		}
	}

	result := Result{Job: job, Image: output}
	if input.SameShape(output) {
		if metrics, err := CalculateQualityMetrics(input, output); err == nil {
			result.Metrics = metrics
		}
	}
	result.Duration = p.tracker.EndTiming(timingCtx)

	log.Debug("Pipeline", "job completed", map[string]interface{}{
		"output":   job.Output,
		"duration": result.Duration.String(),
	})
	return result, nil
}
