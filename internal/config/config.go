// Package config defines the tool's settings and how they are layered.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds process settings.
type Config struct {
	// DataDir is scanned recursively for CSV/XLSX exports.
	DataDir string `koanf:"data_dir" validate:"required"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat is console or json.
	LogFormat string `koanf:"log_format" validate:"oneof=console json"`

	// Workers bounds how many files are parsed at once.
	Workers int `koanf:"workers" validate:"min=1"`

	// HistoryLimit caps the batted-ball history printed by the player view.
	// Zero prints everything.
	HistoryLimit int `koanf:"history_limit" validate:"min=0"`
}

// Option mutates a Config built by New.
type Option func(*Config)

// WithDataDir overrides the data directory.
func WithDataDir(dir string) Option {
	return func(c *Config) { c.DataDir = dir }
}

// WithWorkers overrides the parse concurrency.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// New returns the defaults with opts applied.
func New(opts ...Option) *Config {
	c := &Config{
		DataDir:      "data",
		LogLevel:     "warn",
		LogFormat:    "console",
		Workers:      runtime.NumCPU(),
		HistoryLimit: 20,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var validate = newValidator()

// newValidator reports fields by their koanf key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("koanf")
	})
	return v
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describe(fields[0]))
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s %q must be one of: %s", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
