package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/ZacxDev/story-renderer/pkg/types"
)

const envPrefix = "STORY_RENDERER_"

// Config is the file-backed program configuration.
type Config struct {
	AssetsDir      string              `yaml:"assets_dir"`
	Profile        string              `yaml:"profile"`
	LookupKeys     types.LookupKeyMode `yaml:"lookup_keys"`
	ResolveWorkers int                 `yaml:"resolve_workers"`
	HTTPTimeout    time.Duration       `yaml:"http_timeout"`
	TrimTolerance  int                 `yaml:"trim_tolerance"`
	Logging        LoggingConfig       `yaml:"logging"`
}

// Default returns configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		AssetsDir:      DefaultAssetsDir,
		Profile:        DefaultProfile,
		LookupKeys:     types.LookupKeyStable,
		ResolveWorkers: 8,
		HTTPTimeout:    5 * time.Minute,
		TrimTolerance:  10,
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none"},
		},
	}
}

// LoadConfiguration superimposes the YAML file at path (if any) and then
// environment overrides on top of defaults and validates the result.
func LoadConfiguration(path string) (*Config, error) {
	cfg := Default()

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// only fields we defined are accepted
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode configuration data: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envPrefix + "ASSETS_DIR"); v != "" {
		c.AssetsDir = v
	}
	if v := os.Getenv(envPrefix + "PROFILE"); v != "" {
		c.Profile = v
	}
	if v := os.Getenv(envPrefix + "LOOKUP_KEYS"); v != "" {
		c.LookupKeys = types.LookupKeyMode(v)
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.ConsoleLogger.Level = v
	}
	if v := os.Getenv(envPrefix + "RESOLVE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sRESOLVE_WORKERS: %w", envPrefix, err)
		}
		c.ResolveWorkers = n
	}
	if v := os.Getenv(envPrefix + "HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sHTTP_TIMEOUT: %w", envPrefix, err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	var err error
	if c.AssetsDir == "" {
		err = multierr.Append(err, fmt.Errorf("assets_dir is required"))
	}
	switch c.LookupKeys {
	case types.LookupKeyStable, types.LookupKeyLegacy:
	default:
		err = multierr.Append(err, fmt.Errorf("lookup_keys must be %q or %q, got %q", types.LookupKeyStable, types.LookupKeyLegacy, c.LookupKeys))
	}
	if c.ResolveWorkers < 0 {
		err = multierr.Append(err, fmt.Errorf("resolve_workers must not be negative"))
	}
	if c.HTTPTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("http_timeout must be positive"))
	}
	if c.TrimTolerance < 0 || c.TrimTolerance > 255 {
		err = multierr.Append(err, fmt.Errorf("trim_tolerance must be within [0,255]"))
	}
	for name, l := range map[string]LoggerConfig{"console": c.Logging.ConsoleLogger, "file": c.Logging.FileLogger} {
		switch l.Level {
		case "", "none", "normal", "debug":
		default:
			err = multierr.Append(err, fmt.Errorf("logging.%s.level must be one of none, normal, debug", name))
		}
	}
	return err
}

// Dump returns the configuration as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
