package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvLogLevel    = "RASTER_FILTERS_LOG_LEVEL"
	EnvLogFile     = "RASTER_FILTERS_LOG_FILE"
	EnvWorkers     = "RASTER_FILTERS_WORKERS"
	EnvPreviewSize = "RASTER_FILTERS_PREVIEW_SIZE"
	EnvStrict      = "RASTER_FILTERS_STRICT_PARAMS"

	DefaultPreviewSize = 320
)

// Config holds the process-wide settings read from the environment.
type Config struct {
	LogLevel     string
	LogFile      string // empty logs to the console only
	Workers      int
	PreviewSize  int
	StrictParams bool // reject parameters outside the recommended range
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		Workers:     runtime.NumCPU(),
		PreviewSize: DefaultPreviewSize,
	}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then builds a Config. Missing files are not an error;
// variables already set in the environment win over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.LogLevel = getEnvOrDefault(EnvLogLevel, cfg.LogLevel)
	cfg.LogFile = os.Getenv(EnvLogFile)

	var err error
	if cfg.Workers, err = parseIntEnv(EnvWorkers, cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.PreviewSize, err = parseIntEnv(EnvPreviewSize, cfg.PreviewSize); err != nil {
		return Config{}, err
	}
	if cfg.StrictParams, err = parseBoolEnv(EnvStrict, false); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvWorkers, c.Workers)
	}
	if c.PreviewSize < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvPreviewSize, c.PreviewSize)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
