// Package config provides configuration management for the procgen CLI.
//
// Values are layered from lowest to highest precedence: built-in defaults,
// a YAML file (procgen.yaml or procgen.yml in the working directory, or an
// explicit path), PROCGEN_* environment variables and explicitly set
// command-line flags.
package config

import (
	"github.com/wippyai/procgen/runtime"
)

// Defaults.
const (
	DefaultMemory   = 1 << 20
	DefaultChunks   = 4
	DefaultBacking  = string(runtime.BackingHeap)
	DefaultLogLevel = "warn"
	DefaultOutput   = "text"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds all CLI configuration options.
type Config struct {
	Backing          string `koanf:"backing"`
	LogLevel         string `koanf:"log_level"`
	OutputFormat     string `koanf:"output"`
	Memory           uint64 `koanf:"memory"`
	MemoryLimitPages uint32 `koanf:"memory_limit_pages"`
	Chunks           uint32 `koanf:"chunks"`
	Safe             bool   `koanf:"safe"`
}

// RuntimeOptions maps the configuration onto runtime options.
func (c *Config) RuntimeOptions() runtime.Options {
	return runtime.Options{
		Backing:          runtime.Backing(c.Backing),
		Memory:           c.Memory,
		MemoryLimitPages: c.MemoryLimitPages,
		Chunks:           c.Chunks,
		Safe:             c.Safe,
	}
}
