package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormats lists the accepted values of Config.Output
var OutputFormats = []string{"cli", "json", "mermaid"}

type Config struct {
	// Output format of query commands
	Output string `yaml:"output"`

	// Debug configuration
	Debug   bool   `yaml:"debug"`    // Log at debug level
	LogFile string `yaml:"log_file"` // Where the browser logs; commands log to stderr

	Workers  int           `yaml:"workers"`  // Concurrent resolvers used by export
	Debounce time.Duration `yaml:"debounce"` // Wait before reloading a changed file
}

func Default() *Config {
	return &Config{
		Output:   "cli",
		LogFile:  filepath.Join(os.TempDir(), "tokgraph.log"),
		Workers:  runtime.NumCPU(),
		Debounce: 150 * time.Millisecond,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/tokgraph/config.yaml, or the
// platform equivalent
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user config directory: %w", err)
	}
	return filepath.Join(dir, "tokgraph", "config.yaml"), nil
}

// Load builds a Config from defaults, the YAML file at path and TOKGRAPH_*
// environment variables, in increasing precedence. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, defaults apply
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TOKGRAPH_* environment variables
func (c *Config) ApplyEnv() error {
	c.Output = envOr("TOKGRAPH_OUTPUT", c.Output)
	c.LogFile = envOr("TOKGRAPH_LOG_FILE", c.LogFile)

	if v := os.Getenv("TOKGRAPH_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TOKGRAPH_DEBUG %q: %w", v, err)
		}
		c.Debug = debug
	}

	if v := os.Getenv("TOKGRAPH_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TOKGRAPH_WORKERS %q: %w", v, err)
		}
		c.Workers = workers
	}

	if v := os.Getenv("TOKGRAPH_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKGRAPH_DEBOUNCE %q: %w", v, err)
		}
		c.Debounce = d
	}

	return nil
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.Output) {
		return fmt.Errorf("invalid output format: %s. Valid options: %v", c.Output, OutputFormats)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %v", c.Debounce)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
