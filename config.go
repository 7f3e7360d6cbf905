package workqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of a queue. It can be populated
// from JSON or YAML; LoadConfig starts from DefaultConfig so omitted fields
// keep their defaults.
type Config struct {
	Pool    PoolConfig    `json:"pool" yaml:"pool"`
	Shell   *ShellConfig  `json:"shell,omitempty" yaml:"shell,omitempty"`
	Respawn RespawnConfig `json:"respawn" yaml:"respawn"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

// PoolConfig describes the workers. Size 0 means one worker per CPU.
type PoolConfig struct {
	Size      int               `json:"size" yaml:"size"`
	Program   string            `json:"program,omitempty" yaml:"program,omitempty"`
	Args      []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Dir       string            `json:"dir,omitempty" yaml:"dir,omitempty"`
	Redeliver bool              `json:"redeliver,omitempty" yaml:"redeliver,omitempty"`
}

// ShellConfig runs tasks as shell commands instead of a worker program.
type ShellConfig struct {
	Host        string            `json:"host,omitempty" yaml:"host,omitempty"`
	Credentials string            `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	Env         map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Directory   string            `json:"directory,omitempty" yaml:"directory,omitempty"`
	Timeout     string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// RespawnConfig controls replacement of exited workers.
type RespawnConfig struct {
	OnCleanExit bool    `json:"onCleanExit,omitempty" yaml:"onCleanExit,omitempty"`
	Delay       string  `json:"delay,omitempty" yaml:"delay,omitempty"`
	MaxDelay    string  `json:"maxDelay,omitempty" yaml:"maxDelay,omitempty"`
	Multiplier  float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	MaxAttempts int     `json:"maxAttempts,omitempty" yaml:"maxAttempts,omitempty"`
}

// TracingConfig enables the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Service    string `json:"service,omitempty" yaml:"service,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with the queue defaults.
func DefaultConfig() *Config {
	return &Config{
		Respawn: RespawnConfig{
			Multiplier: defaultMultiplier,
			MaxDelay:   defaultMaxDelay.String(),
		},
		Tracing: TracingConfig{
			Service: "workqueue",
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	var errs []error
	if c.Pool.Size < 0 {
		errs = append(errs, fmt.Errorf("pool.size must be >= 0"))
	}
	if c.Pool.Program == "" && c.Shell == nil {
		errs = append(errs, fmt.Errorf("pool.program or shell is required"))
	}
	if c.Pool.Program != "" && c.Shell != nil {
		errs = append(errs, fmt.Errorf("pool.program and shell are mutually exclusive"))
	}
	if c.Shell != nil {
		if _, err := parseDuration(c.Shell.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("shell.timeout: %w", err))
		}
	}
	if _, err := c.Respawn.policy(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *RespawnConfig) policy() (Respawn, error) {
	ret := Respawn{
		OnCleanExit: r.OnCleanExit,
		Multiplier:  r.Multiplier,
		MaxAttempts: r.MaxAttempts,
	}
	var err error
	if ret.Delay, err = parseDuration(r.Delay); err != nil {
		return ret, fmt.Errorf("respawn.delay: %w", err)
	}
	if ret.MaxDelay, err = parseDuration(r.MaxDelay); err != nil {
		return ret, fmt.Errorf("respawn.maxDelay: %w", err)
	}
	if r.Multiplier != 0 && r.Multiplier < 1 {
		return ret, fmt.Errorf("respawn.multiplier must be >= 1")
	}
	if r.MaxAttempts < 0 {
		return ret, fmt.Errorf("respawn.maxAttempts must be >= 0")
	}
	return ret, nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", value)
	}
	return d, nil
}

// LoadConfig reads a YAML or JSON config from any afs supported URL.
// ${env.NAME} expressions in program, args, env and directories are expanded.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	switch strings.ToLower(path.Ext(URL)) {
	case ".json":
		err = json.Unmarshal(data, ret)
	default:
		err = yaml.Unmarshal(data, ret)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	ret.expand()
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}

func (c *Config) expand() {
	c.Pool.Program = expandEnv(c.Pool.Program)
	c.Pool.Args = expandEnvSlice(c.Pool.Args)
	c.Pool.Env = expandEnvMap(c.Pool.Env)
	c.Pool.Dir = expandEnv(c.Pool.Dir)
	if c.Shell != nil {
		c.Shell.Host = expandEnv(c.Shell.Host)
		c.Shell.Env = expandEnvMap(c.Shell.Env)
		c.Shell.Directory = expandEnv(c.Shell.Directory)
	}
}
