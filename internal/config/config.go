// Package config loads rowbench.json and applies ROWBENCH_* environment
// overrides. Environment beats file, file beats defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "rowbench.json"

// Config is the complete rowbench configuration.
type Config struct {
	// Run configures the benchmark runner.
	Run RunConfig `json:"run,omitempty"`

	// Serve configures the live server.
	Serve ServeConfig `json:"serve,omitempty"`
}

// RunConfig configures one benchmark run.
type RunConfig struct {
	// Rows is the standard table size.
	Rows int `json:"rows,omitempty"`

	// LargeRows is the big-create table size.
	LargeRows int `json:"large_rows,omitempty"`

	// Iterations is the number of measured iterations per step.
	Iterations int `json:"iterations,omitempty"`

	// Warmup is the number of unmeasured iterations per step.
	Warmup int `json:"warmup,omitempty"`

	// Seed fixes the label sequence.
	Seed int64 `json:"seed,omitempty"`

	// Output is the report file path; empty writes to stdout only.
	Output string `json:"output,omitempty"`

	// History is the path of the local report database; empty disables
	// history.
	History string `json:"history,omitempty"`

	// S3Bucket, when set, uploads the report after the run.
	S3Bucket string `json:"s3_bucket,omitempty"`

	// S3Key overrides the derived object key.
	S3Key string `json:"s3_key,omitempty"`
}

// ServeConfig configures the live server.
type ServeConfig struct {
	// Address is the listen address.
	Address string `json:"address,omitempty"`

	// Seed is the base seed for session label sequences.
	Seed int64 `json:"seed,omitempty"`
}

// New returns a config with all defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads ConfigFileName from dir, falling back to defaults when the
// file does not exist, and applies environment overrides.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			cfg := New()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", ConfigFileName, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", ConfigFileName, err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Run.Rows == 0 {
		c.Run.Rows = 1000
	}
	if c.Run.LargeRows == 0 {
		c.Run.LargeRows = 10000
	}
	if c.Run.Iterations == 0 {
		c.Run.Iterations = 10
	}
	if c.Run.Warmup == 0 {
		c.Run.Warmup = 3
	}
	if c.Run.Seed == 0 {
		c.Run.Seed = 1
	}
	if c.Serve.Address == "" {
		c.Serve.Address = ":8080"
	}
	if c.Serve.Seed == 0 {
		c.Serve.Seed = 1
	}
}

func (c *Config) applyEnv() {
	envString("ROWBENCH_ADDRESS", &c.Serve.Address)
	envString("ROWBENCH_OUTPUT", &c.Run.Output)
	envString("ROWBENCH_HISTORY", &c.Run.History)
	envString("ROWBENCH_S3_BUCKET", &c.Run.S3Bucket)
	envString("ROWBENCH_S3_KEY", &c.Run.S3Key)
	envInt("ROWBENCH_ROWS", &c.Run.Rows)
	envInt("ROWBENCH_LARGE_ROWS", &c.Run.LargeRows)
	envInt("ROWBENCH_ITERATIONS", &c.Run.Iterations)
	envInt("ROWBENCH_WARMUP", &c.Run.Warmup)
	envInt64("ROWBENCH_SEED", &c.Run.Seed)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envInt64(key string, dst *int64) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
