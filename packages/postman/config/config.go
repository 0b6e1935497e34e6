// Package config loads ambient execution settings from a JSON file or
// caller-supplied overrides, using a tri-state *bool pattern (nil means
// "unset, use default" so a loaded file can be merged over defaults
// without a zero value stomping an explicit false).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the ambient configuration surface for a hitcall run: a mix
// of dispatcher policy, executor policy, and output preferences.
type Config struct {
	Environment     string            `json:"environment,omitempty"`
	TimeoutMs       int               `json:"timeoutMs,omitempty"`
	FollowRedirects *bool             `json:"followRedirects,omitempty"`
	MaxRedirects    int               `json:"maxRedirects,omitempty"`
	InsecureSkipTLS *bool             `json:"insecureSkipTLS,omitempty"`
	RateLimit       float64           `json:"rateLimit,omitempty"`
	Parallel        *bool             `json:"parallel,omitempty"`
	Concurrency     int               `json:"concurrency,omitempty"`
	Bail            *bool             `json:"bail,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty"`
	NoColor         *bool             `json:"noColor,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	OutputDir       string            `json:"outputDir,omitempty"`
	Reporters       []string          `json:"reporters,omitempty"`
}

// BoolPtr is a convenience constructor for the tri-state bool fields.
func BoolPtr(b bool) *bool { return &b }

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

func (c *Config) GetFollowRedirects() bool { return getBool(c.FollowRedirects, true) }
func (c *Config) GetInsecureSkipTLS() bool { return getBool(c.InsecureSkipTLS, false) }
func (c *Config) GetParallel() bool        { return getBool(c.Parallel, false) }
func (c *Config) GetBail() bool            { return getBool(c.Bail, false) }
func (c *Config) GetVerbose() bool         { return getBool(c.Verbose, false) }
func (c *Config) GetNoColor() bool         { return getBool(c.NoColor, false) }

func (c *Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// DefaultConfig returns the baked-in defaults; every tri-state field is
// left nil so a loaded file or explicit override can still take effect.
func DefaultConfig() *Config {
	return &Config{MaxRedirects: 10}
}

// Filenames lists the config file names FindAndLoad searches for.
var Filenames = []string{
	".hitcall.config.json",
	"hitcall.config.json",
	".hitcallrc",
	".hitcallrc.json",
}

// Load reads configuration from path, or from whichever of Filenames is
// found in the current directory if path is empty.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFromFile(path)
	}
	return FindAndLoad(".")
}

// FindAndLoad searches dir for one of Filenames, falling back to
// DefaultConfig if none exist.
func FindAndLoad(dir string) (*Config, error) {
	for _, name := range Filenames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return loadFromFile(candidate)
		}
	}
	return DefaultConfig(), nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays other on top of c, with other's explicitly-set fields
// taking precedence; zero-valued scalar fields in other are treated as
// "not set".
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}
	result := *c

	if other.Environment != "" {
		result.Environment = other.Environment
	}
	if other.TimeoutMs > 0 {
		result.TimeoutMs = other.TimeoutMs
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.RateLimit > 0 {
		result.RateLimit = other.RateLimit
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}
	if other.OutputDir != "" {
		result.OutputDir = other.OutputDir
	}
	if len(other.Reporters) > 0 {
		result.Reporters = other.Reporters
	}
	if len(other.Headers) > 0 {
		result.Headers = other.Headers
	}

	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.InsecureSkipTLS != nil {
		result.InsecureSkipTLS = other.InsecureSkipTLS
	}
	if other.Parallel != nil {
		result.Parallel = other.Parallel
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}
