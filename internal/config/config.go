// Package config holds the settings shared by the geosimplify commands.
package config

import (
	"io"
	"math"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"geosimplify/internal/simplify"
)

const (
	FormatGeoJSON = "geojson"
	FormatWKT     = "wkt"
)

type Config struct {
	Tolerance           float64 `yaml:"tolerance"`
	HighQuality         bool    `yaml:"high_quality"`
	Workers             int     `yaml:"workers"`
	MaxRepairIterations int     `yaml:"max_repair_iterations"`
	ContinueOnError     bool    `yaml:"continue_on_error"`
	Format              string  `yaml:"format"`
	LogLevel            string  `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Tolerance:           0.01,
		Workers:             runtime.GOMAXPROCS(0),
		MaxRepairIterations: simplify.DefaultMaxRepairIterations,
		Format:              FormatGeoJSON,
		LogLevel:            "info",
	}
}

// Decode overlays the YAML document in r on top of c. Unknown keys are rejected.
func (c Config) Decode(r io.Reader) (Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return c, nil
}

// Load reads path over Default. It does not validate.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Default().Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load %s", path)
	}
	return c, nil
}

func (c Config) Validate() error {
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 1) {
		return errors.Errorf("tolerance must be positive and finite, got %v", c.Tolerance)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxRepairIterations < 1 {
		return errors.Errorf("max_repair_iterations must be at least 1, got %d", c.MaxRepairIterations)
	}
	switch c.Format {
	case FormatGeoJSON, FormatWKT:
	default:
		return errors.Errorf("unknown format %q", c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	l, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return l, errors.Wrap(err, "log_level")
	}
	return l, nil
}

// Options returns the batch settings for simplify.SimplifyAll.
func (c Config) Options() simplify.Options {
	return simplify.Options{
		Tolerance:       c.Tolerance,
		HighQuality:     c.HighQuality,
		Workers:         c.Workers,
		ContinueOnError: c.ContinueOnError,
	}
}
