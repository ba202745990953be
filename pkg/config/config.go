// Package config loads promptflow settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/logging"
	"github.com/dd0wney/promptflow/pkg/validation"
	"github.com/dd0wney/promptflow/pkg/visualization"
)

// Config is the root configuration document.
type Config struct {
	Server ServerConfig               `yaml:"server"`
	Layout visualization.LayoutConfig `yaml:"layout"`
	Node   NodeConfig                 `yaml:"node"`
	Log    LogConfig                  `yaml:"log"`
}

// ServerConfig configures the standalone HTTP target.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"` // zero keeps event streams open
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// NodeConfig holds the payload dimensions stamped on new nodes.
type NodeConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Dimensions converts the node section for graph.NewStore.
func (n NodeConfig) Dimensions() graph.Dimensions {
	return graph.Dimensions{Width: n.Width, Height: n.Height}
}

// LogConfig selects log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	dims := graph.DefaultDimensions()
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    64 << 10,
		},
		Layout: visualization.DefaultLayoutConfig(),
		Node:   NodeConfig{Width: dims.Width, Height: dims.Height},
		Log:    LogConfig{Level: "info", Format: string(logging.FormatJSON)},
	}
}

// Load reads path over the defaults, applies environment overrides from
// getenv and validates the result. An empty path skips the file.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides file values. PROMPTFLOW_ADDR wins over PORT.
func (c *Config) applyEnv(getenv func(string) string) {
	if getenv == nil {
		return
	}
	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		c.Server.Addr = ":" + port
	}
	if addr := strings.TrimSpace(getenv("PROMPTFLOW_ADDR")); addr != "" {
		c.Server.Addr = addr
	}
	if level := strings.TrimSpace(getenv("LOG_LEVEL")); level != "" {
		c.Log.Level = level
	}
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	server := validation.NewConfigValidator("server").
		Required("addr", c.Server.Addr).
		MinDuration("read_timeout", c.Server.ReadTimeout, 0).
		MinDuration("write_timeout", c.Server.WriteTimeout, 0).
		MinDuration("shutdown_timeout", c.Server.ShutdownTimeout, time.Millisecond).
		Custom("max_body_bytes", func() error {
			if c.Server.MaxBodyBytes <= 0 {
				return fmt.Errorf("value %d must be positive", c.Server.MaxBodyBytes)
			}
			return nil
		})

	layout := validation.NewConfigValidator("layout").
		PositiveFloat("node_width", c.Layout.NodeWidth).
		PositiveFloat("node_height", c.Layout.NodeHeight).
		NonNegativeFloat("rank_gap", c.Layout.RankGap).
		NonNegativeFloat("sibling_gap", c.Layout.SiblingGap)

	node := validation.NewConfigValidator("node").
		RangeInt("width", c.Node.Width, 64, 4096).
		RangeInt("height", c.Node.Height, 64, 4096)

	log := validation.NewConfigValidator("log").
		Custom("level", func() error {
			_, err := logging.ParseLevel(c.Log.Level)
			return err
		}).
		OneOf("format", c.Log.Format, string(logging.FormatJSON), string(logging.FormatText))

	var errs []error
	for _, cv := range []*validation.ConfigValidator{server, layout, node, log} {
		errs = append(errs, cv.Errors()...)
	}
	return errors.Join(errs...)
}

// Logger builds the logger described by the log section.
func (c Config) Logger() logging.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.New(os.Stderr, level, logging.Format(c.Log.Format))
}
