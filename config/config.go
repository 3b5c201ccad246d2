// SPDX-License-Identifier: MIT

// Package config resolves the runtime configuration of the depmatrix
// binaries. Sources are applied in order, later ones winning:
//
//  1. built-in defaults (Default);
//  2. an optional YAML file;
//  3. DEPMATRIX_* environment variables (optionally read from .env);
//  4. command-line flags (applied by the caller).
//
// Validate must pass before a Config is used.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator"
	"github.com/goccy/go-yaml"

	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog/ingest"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DEPMATRIX_"

// ErrInvalid indicates a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Discovery holds the matrix assembler settings.
type Discovery struct {
	TemporalThreshold    float64 `yaml:"temporal_threshold" validate:"min=0,max=1"`
	ExistentialThreshold float64 `yaml:"existential_threshold" validate:"min=0,max=1"`
	Granularity          string  `yaml:"granularity" validate:"oneof=first every"`
	// Workers bounds parallel rows; 0 means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"min=0"`
}

// Server holds the HTTP service settings.
type Server struct {
	Address         string        `yaml:"address" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"min=0"`
	// BodyLimit is an echo size string such as "8M".
	BodyLimit string `yaml:"body_limit" validate:"required"`
}

// Ingest holds log reading limits.
type Ingest struct {
	// MaxTraces caps the traces one text log may expand to through ":N".
	MaxTraces int `yaml:"max_traces" validate:"min=1"`
}

// PipelineOptions converts the limits into ingest options.
func (i Ingest) PipelineOptions() []ingest.Option {
	if i.MaxTraces < 1 {
		return nil
	}

	return []ingest.Option{ingest.WithMaxTraces(i.MaxTraces)}
}

// Log holds logging settings.
type Log struct {
	Debug bool `yaml:"debug"`
	JSON  bool `yaml:"json"`
}

// Config is the full runtime configuration.
type Config struct {
	Discovery Discovery `yaml:"discovery"`
	Ingest    Ingest    `yaml:"ingest"`
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
}

// Default returns the built-in configuration: strict thresholds (1.0),
// first-occurrence granularity, automatic workers, ":8080".
func Default() Config {
	return Config{
		Discovery: Discovery{
			TemporalThreshold:    1.0,
			ExistentialThreshold: 1.0,
			Granularity:          dependency.DefaultGranularity.String(),
		},
		Ingest: Ingest{MaxTraces: ingest.DefaultMaxTraces},
		Server: Server{
			Address:         ":8080",
			ShutdownTimeout: 10 * time.Second,
			BodyLimit:       "32M",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from DEPMATRIX_* variables. Thresholds and
// limits that are set but unparseable fail with ErrInvalid; the remaining
// keys fall back to their current value with a warning.
func (c *Config) ApplyEnv() error {
	d := &c.Discovery
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{EnvPrefix + "TEMPORAL_THRESHOLD", &d.TemporalThreshold},
		{EnvPrefix + "EXISTENTIAL_THRESHOLD", &d.ExistentialThreshold},
	} {
		v, ok, err := LookupEnvFloat(f.key)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if ok {
			*f.dst = v
		}
	}
	maxTraces, ok, err := LookupEnvInt(EnvPrefix + "MAX_TRACES")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if ok {
		c.Ingest.MaxTraces = maxTraces
	}

	d.Granularity = GetEnvString(EnvPrefix+"GRANULARITY", d.Granularity)
	d.Workers = GetEnvInt(EnvPrefix+"WORKERS", d.Workers)

	s := &c.Server
	s.Address = GetEnvString(EnvPrefix+"ADDRESS", s.Address)
	s.ShutdownTimeout = GetEnvDuration(EnvPrefix+"SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.BodyLimit = GetEnvString(EnvPrefix+"BODY_LIMIT", s.BodyLimit)

	c.Log.Debug = GetEnvBool(EnvPrefix+"DEBUG", c.Log.Debug)
	c.Log.JSON = GetEnvBool(EnvPrefix+"LOG_JSON", c.Log.JSON)

	return nil
}

// Validate checks field constraints.
// Errors: ErrInvalid wrapping the validator's field errors.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// MatrixOptions converts the discovery settings into matrix options.
func (d Discovery) MatrixOptions() ([]matrix.Option, error) {
	g, err := dependency.ParseGranularity(d.Granularity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	opts := []matrix.Option{matrix.WithGranularity(g)}
	if d.Workers > 0 {
		opts = append(opts, matrix.WithWorkers(d.Workers))
	}

	return opts, nil
}
