package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"raster-filters/internal/config"
	"raster-filters/internal/logger"
	"raster-filters/internal/shutdown"

	"github.com/urfave/cli/v2"
)

const (
	AppName    = "raster-filters"
	AppVersion = "1.0.0"
)

func main() {
	sm := shutdown.NewManager(context.Background())
	sm.Listen()

	err := newApp(sm).RunContext(sm.Context(), os.Args)
	if closeErr := sm.Shutdown(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// env bundles what every command needs. It is built once in Before.
type env struct {
	cfg      config.Config
	logger   logger.Logger
	shutdown *shutdown.Manager
}

func newApp(sm *shutdown.Manager) *cli.App {
	e := &env{shutdown: sm}

	return &cli.App{
		Name:    AppName,
		Usage:   "apply point, smoothing and edge filters to images",
		Version: AppVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file with RASTER_FILTERS_* settings",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override RASTER_FILTERS_LOG_LEVEL (debug, info, warn, error)",
			},
		},
		Before: func(c *cli.Context) error {
			return e.setup(c)
		},
		Commands: []*cli.Command{
			listCommand(e),
			applyCommand(e),
			chainCommand(e),
			batchCommand(e),
			statsCommand(e),
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	e.cfg = cfg

	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		log, closer := logger.NewFileLogger(logger.FileOptions{Path: cfg.LogFile}, level)
		e.logger = log
		e.shutdown.Register(closer)
	} else {
		e.logger = logger.NewConsoleLogger(level)
	}
	e.shutdown.SetLogger(e.logger)

	e.logger.Debug("CLI", "configuration loaded", map[string]interface{}{
		"version":      AppVersion,
		"go_version":   runtime.Version(),
		"workers":      cfg.Workers,
		"preview_size": cfg.PreviewSize,
		"strict":       cfg.StrictParams,
	})
	return nil
}
