package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/contigsim/memutils"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file layout
type Config struct {
	// Memory is the address space size, e.g. "4M". Without a unit it is read as megabytes.
	// When empty, the size is asked for interactively.
	Memory       string `yaml:"memory"`
	LogLevel     string `yaml:"log_level"`
	JSONStats    bool   `yaml:"json_stats"`
	Synchronized bool   `yaml:"synchronized"`
	MetricsAddr  string `yaml:"metrics_addr"`
}

func defaultConfig() Config {
	return Config{LogLevel: "warn"}
}

func loadConfig(path string) (Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrapf(err, "failed to read config %s", path)
	}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return config, errors.Wrapf(err, "failed to parse config %s", path)
	}

	return config, nil
}

// applyFlags overrides config values with any flag the user set explicitly
func (c *Config) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("memory") {
		c.Memory = memorySize
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("json") {
		c.JSONStats = jsonStats
	}
	if flags.Changed("metrics-addr") {
		c.MetricsAddr = metricsAddr
	}
	if flags.Changed("synchronized") {
		c.Synchronized = synchronize
	}
}

// memoryBytes returns the configured size in bytes, or 0 if the size should be prompted for
func (c *Config) memoryBytes() (int, error) {
	if c.Memory == "" {
		return 0, nil
	}

	size, err := memutils.ParseSize(c.Memory, "M")
	if err != nil {
		return 0, errors.Wrap(err, "invalid memory size")
	}
	return size, nil
}

func (c *Config) newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, errors.Newf("unknown log level %q", c.LogLevel)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
