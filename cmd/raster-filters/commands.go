package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"raster-filters/internal/codec"
	"raster-filters/internal/config"
	"raster-filters/internal/processing/chain"
	"raster-filters/internal/processing/filters"
	"raster-filters/internal/processing/histogram"
	"raster-filters/internal/pipeline"
	"raster-filters/internal/raster"
	"raster-filters/internal/timing"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/floats"
)

func inFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "in",
		Aliases:  []string{"i"},
		Usage:    "input image",
		Required: true,
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "out",
		Aliases:  []string{"o"},
		Usage:    "output image",
		Required: true,
	}
}

func filterFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "filter name, see list",
	}
}

func paramFlag() cli.Flag {
	return &cli.Float64Flag{
		Name:    "param",
		Aliases: []string{"p"},
		Usage:   "filter parameter, defaults to the filter's recommended default",
	}
}

func backendFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "backend",
		Usage: "file codec: native or opencv",
		Value: "native",
	}
}

func presetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "preset",
		Usage: "YAML file of named chains",
	}
}

func nameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "name",
		Usage: "preset name inside --preset",
	}
}

func listCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list filters and their parameter ranges",
		Action: func(c *cli.Context) error {
			header := color.New(color.FgCyan, color.Bold)
			name := color.New(color.FgGreen)
			muted := color.New(color.FgHiBlack)

			header.Fprintf(c.App.Writer, "%-14s %-14s %s\n", "FILTER", "LABEL", "PARAMETER")
			for _, spec := range filters.Catalog() {
				name.Fprintf(c.App.Writer, "%-14s ", spec.Filter)
				fmt.Fprintf(c.App.Writer, "%-14s ", spec.Label)
				if !spec.Uses {
					muted.Fprintln(c.App.Writer, "none")
					continue
				}
				kind := "real"
				if spec.Integer {
					kind = "integer"
				}
				fmt.Fprintf(c.App.Writer, "%s in [%g, %g], default %g\n", kind, spec.Min, spec.Max, spec.Default)
			}
			return nil
		},
	}
}

func applyCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "apply one filter to an image",
		Flags: []cli.Flag{
			inFlag(), outFlag(), filterFlag(), paramFlag(), backendFlag(),
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "resize the result to the configured preview size",
			},
		},
		Action: func(c *cli.Context) error {
			step, err := e.stepFromFlags(c)
			if err != nil {
				return err
			}
			loader, saver, err := e.backend(c.String("backend"))
			if err != nil {
				return err
			}

			coord := pipeline.NewCoordinator(loader, saver, e.logger)
			if _, err := coord.LoadImage(c.String("in")); err != nil {
				return err
			}
			result, err := coord.ProcessImage(step.Filter, step.Param)
			if err != nil {
				return err
			}

			if m, err := coord.Metrics(); err == nil {
				e.logger.Info("CLI", "filter applied", map[string]interface{}{
					"filter": step.String(),
					"mse":    m.MSE,
					"psnr":   m.PSNR,
				})
			}

			if c.Bool("preview") {
				preview, err := codec.Preview(result, e.cfg.PreviewSize)
				if err != nil {
					return err
				}
				coord.SetImage(preview)
			}
			return coord.SaveImage(c.String("out"))
		},
	}
}

func chainCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "chain",
		Usage: "apply a named preset chain to an image",
		Flags: []cli.Flag{inFlag(), outFlag(), backendFlag(), presetFlag(), nameFlag()},
		Action: func(c *cli.Context) error {
			steps, err := e.presetSteps(c)
			if err != nil {
				return err
			}
			loader, saver, err := e.backend(c.String("backend"))
			if err != nil {
				return err
			}

			img, err := loader.Load(c.String("in"))
			if err != nil {
				return err
			}

			pc := chain.NewProcessingChain(steps, chain.WithLogger(e.logger))
			result, err := pc.Execute(c.Context, img)
			if err != nil {
				return err
			}

			e.logger.Info("CLI", "chain applied", map[string]interface{}{
				"chain": pc.String(),
			})
			return saver.Save(c.String("out"), result)
		},
	}
}

func batchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "filter many images concurrently",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "output directory",
				Required: true,
			},
			filterFlag(), paramFlag(), backendFlag(), presetFlag(), nameFlag(),
			&cli.IntFlag{
				Name:  "workers",
				Usage: "concurrent jobs, overrides RASTER_FILTERS_WORKERS",
			},
		},
		Action: func(c *cli.Context) error {
			inputs := c.Args().Slice()
			if len(inputs) == 0 {
				return fmt.Errorf("no input files")
			}

			var steps []chain.Step
			if c.IsSet("preset") {
				var err error
				if steps, err = e.presetSteps(c); err != nil {
					return err
				}
			} else {
				step, err := e.stepFromFlags(c)
				if err != nil {
					return err
				}
				steps = []chain.Step{step}
			}

			loader, saver, err := e.backend(c.String("backend"))
			if err != nil {
				return err
			}

			outDir := c.String("out")
			jobs := pipeline.NewJobs(inputs, func(in string) string {
				return filepath.Join(outDir, filepath.Base(in))
			})
			if err := checkOutputs(jobs); err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", outDir, err)
			}

			workers := e.cfg.Workers
			if c.IsSet("workers") {
				workers = c.Int("workers")
			}

			tracker := timing.NewTracker()
			p := pipeline.NewProcessor(steps,
				pipeline.WithFiles(loader, saver),
				pipeline.WithLogger(e.logger),
				pipeline.WithTracker(tracker),
				pipeline.WithWorkers(workers),
			)

			results, err := p.Process(c.Context, jobs)
			if err != nil {
				return err
			}

			for _, r := range results {
				line := fmt.Sprintf("%s -> %s (%s)", r.Job.Input, r.Job.Output, r.Duration.Round(time.Microsecond))
				if r.Metrics != nil {
					line += ", " + r.Metrics.String()
				}
				fmt.Fprintln(c.App.Writer, line)
			}
			for _, op := range tracker.Operations() {
				e.logger.Debug("CLI", "timing", map[string]interface{}{
					"operation": op,
					"average":   tracker.GetAverageTime(op).String(),
					"count":     len(tracker.GetTimings(op)),
				})
			}
			return nil
		},
	}
}

func statsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print histogram and projection summaries",
		Flags: []cli.Flag{
			inFlag(), backendFlag(),
			&cli.IntFlag{
				Name:  "bins",
				Usage: "histogram bins in [1,256]",
				Value: histogram.DefaultBins,
			},
		},
		Action: func(c *cli.Context) error {
			loader, _, err := e.backend(c.String("backend"))
			if err != nil {
				return err
			}
			img, err := loader.Load(c.String("in"))
			if err != nil {
				return err
			}

			h, err := histogram.Compute(img, c.Int("bins"))
			if err != nil {
				return err
			}
			horizontal, err := histogram.Horizontal(img)
			if err != nil {
				return err
			}
			vertical, err := histogram.Vertical(img)
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintf(w, "%dx%d, %d channel(s), %d bins of width %g\n",
				img.Width(), img.Height(), img.Channels(), h.Bins, h.BinWidth())
			for ch, s := range h.Summaries() {
				fmt.Fprintln(w, s)
				fmt.Fprintf(w, "  brightest column %d, brightest row %d\n",
					floats.MaxIdx(horizontal[ch]), floats.MaxIdx(vertical[ch]))
			}
			return nil
		},
	}
}

// stepFromFlags reads --filter and --param, falling back to the filter's
// default parameter.
func (e *env) stepFromFlags(c *cli.Context) (chain.Step, error) {
	if !c.IsSet("filter") {
		return chain.Step{}, fmt.Errorf("--filter is required")
	}
	name, err := filters.ParseName(c.String("filter"))
	if err != nil {
		return chain.Step{}, err
	}

	spec, _ := filters.Parameter(name)
	param := spec.Default
	if c.IsSet("param") {
		param = c.Float64("param")
	}

	step := chain.Step{Filter: name, Param: param}
	return step, e.checkRange(step)
}

func (e *env) presetSteps(c *cli.Context) ([]chain.Step, error) {
	if !c.IsSet("preset") || !c.IsSet("name") {
		return nil, fmt.Errorf("--preset and --name are required")
	}
	presets, err := config.LoadPresets(c.String("preset"))
	if err != nil {
		return nil, err
	}
	steps, err := presets.Chain(c.String("name"))
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(presets.Names(), ", "))
	}
	for _, s := range steps {
		if err := e.checkRange(s); err != nil {
			return nil, err
		}
	}
	return steps, nil
}

// checkRange enforces the recommended range in strict mode and warns otherwise.
func (e *env) checkRange(step chain.Step) error {
	spec, ok := filters.Parameter(step.Filter)
	if !ok || spec.InRange(step.Param) {
		return nil
	}
	if e.cfg.StrictParams {
		return raster.NewInvalidParameter(step.Filter.String(),
			"parameter %g outside recommended range [%g, %g]", step.Param, spec.Min, spec.Max)
	}
	e.logger.Warning("CLI", "parameter outside recommended range", map[string]interface{}{
		"filter": step.Filter.String(),
		"param":  step.Param,
		"min":    spec.Min,
		"max":    spec.Max,
	})
	return nil
}

func (e *env) backend(name string) (pipeline.ImageLoader, pipeline.ImageSaver, error) {
	switch strings.ToLower(name) {
	case "", "native":
		return codec.NewLoader(e.logger, nil), codec.NewSaver(e.logger, nil), nil
	case "opencv":
		return opencvBackend{}, opencvBackend{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}

// checkOutputs rejects jobs that would write the same file twice or overwrite
// one of the inputs.
func checkOutputs(jobs []pipeline.Job) error {
	inputs := make(map[string]string, len(jobs))
	for _, job := range jobs {
		abs, err := filepath.Abs(job.Input)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", job.Input, err)
		}
		inputs[abs] = job.Input
	}

	outputs := make(map[string]string, len(jobs))
	for _, job := range jobs {
		abs, err := filepath.Abs(job.Output)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", job.Output, err)
		}
		if prev, ok := outputs[abs]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, job.Input, job.Output)
		}
		outputs[abs] = job.Input

		if in, ok := inputs[abs]; ok {
			return fmt.Errorf("output %s would overwrite input %s", job.Output, in)
		}
		if sameFile(job.Output, job.Input) {
			return fmt.Errorf("output %s would overwrite input %s", job.Output, job.Input)
		}
	}
	return nil
}

func sameFile(a, b string) bool {
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(sa, sb)
}
