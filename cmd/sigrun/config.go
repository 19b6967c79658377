package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AnatoleLucet/signalctx/internal"
	"github.com/joeycumines/logiface"
	"gopkg.in/yaml.v3"
)

// Config is the sigrun configuration file.
type Config struct {
	// LogLevel is one of error, warning, info, debug, trace or off.
	LogLevel string `yaml:"log_level"`

	// Equality is the default equality of new signals, deep or strict.
	Equality string `yaml:"equality"`

	// Metrics dumps Prometheus metrics after the script ran.
	Metrics bool `yaml:"metrics"`

	// Namespace prefixes metric names.
	Namespace string `yaml:"namespace"`

	// Trace writes one OpenTelemetry span per transaction to stderr.
	Trace bool `yaml:"trace"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:  "warning",
		Equality:  "deep",
		Namespace: "signalctx",
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := c.equality(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (logiface.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "error", "err":
		return logiface.LevelError, nil
	case "", "warning", "warn":
		return logiface.LevelWarning, nil
	case "info":
		return logiface.LevelInformational, nil
	case "debug":
		return logiface.LevelDebug, nil
	case "trace":
		return logiface.LevelTrace, nil
	case "off", "disabled":
		return logiface.LevelDisabled, nil
	default:
		return logiface.LevelDisabled, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

func (c Config) equality() (internal.EqualityMode, error) {
	mode, err := internal.ParseEqualityMode(c.Equality)
	if err != nil {
		return mode, err
	}
	if mode == internal.EqualCustom {
		return mode, errors.New("custom equality can only be set per signal")
	}
	return mode, nil
}
