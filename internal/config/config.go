// Package config loads combstruct settings from $COMBSTRUCT_HOME/config.yaml,
// applies environment overrides and exposes dotted-key access for the CLI.
// Nothing here changes prices: the pricing table is compiled in.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/combstruct/combstruct/internal/locale"
)

// Output formats accepted by output.default_format.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Environment overrides.
const (
	EnvHome      = "COMBSTRUCT_HOME"
	EnvLocale    = "COMBSTRUCT_LOCALE"
	EnvAddr      = "COMBSTRUCT_ADDR"
	EnvStrict    = "COMBSTRUCT_STRICT"
	EnvLogLevel  = "COMBSTRUCT_LOG_LEVEL"
	EnvLogFormat = "COMBSTRUCT_LOG_FORMAT"
)

const configFileName = "config.yaml"

// Config is the full configuration document.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Estimator EstimatorConfig `yaml:"estimator"`

	configPath string
	loadErr    error
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	DefaultLocale string `yaml:"default_locale"`
	Equivalencies bool   `yaml:"equivalencies"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ServerConfig controls `combstruct serve`.
type ServerConfig struct {
	Address                  string   `yaml:"address"`
	AllowedOrigins           []string `yaml:"allowed_origins"`
	ReadHeaderTimeoutSeconds int      `yaml:"read_header_timeout_seconds"`
	ShutdownTimeoutSeconds   int      `yaml:"shutdown_timeout_seconds"`
}

// EstimatorConfig controls contract enforcement.
type EstimatorConfig struct {
	// Strict rejects out-of-contract selections instead of clamping them.
	Strict bool `yaml:"strict"`
}

// Default returns the built-in configuration without reading files or env.
func Default() *Config {
	path := ""
	if dir, err := GetConfigDir(); err == nil {
		path = filepath.Join(dir, configFileName)
	}
	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			DefaultLocale: locale.DefaultTag,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Address:                  ":8080",
			AllowedOrigins:           []string{"*"},
			ReadHeaderTimeoutSeconds: 5,
			ShutdownTimeoutSeconds:   10,
		},
		Estimator: EstimatorConfig{Strict: true},

		configPath: path,
	}
}

// New returns the effective configuration: defaults, then the config file if
// it exists and parses, then environment overrides. A config file that cannot
// be read or parsed is skipped; LoadError reports why.
func New() *Config {
	cfg := Default()
	if cfg.configPath != "" {
		loaded, err := Load(cfg.configPath)
		if err != nil {
			cfg.loadErr = err
		} else {
			cfg = loaded
		}
	}
	cfg.applyEnvOverrides()
	return cfg
}

// LoadError returns the error that made New fall back to defaults, if any.
func (c *Config) LoadError() error { return c.loadErr }

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLocale); v != "" {
		c.Output.DefaultLocale = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(EnvStrict); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Estimator.Strict = b
		}
	}
}

// ConfigPath returns the file this configuration is saved to.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no config path set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		errs = append(errs, fmt.Errorf("output.default_format: unsupported format %q", c.Output.DefaultFormat))
	}
	if _, err := locale.Default().Lookup(c.Output.DefaultLocale); err != nil {
		errs = append(errs, fmt.Errorf("output.default_locale: %w", err))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil || c.Logging.Level == "" {
		errs = append(errs, fmt.Errorf("logging.level: invalid level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format: must be json or console, got %q", c.Logging.Format))
	}

	if strings.TrimSpace(c.Server.Address) == "" {
		errs = append(errs, errors.New("server.address: must not be empty"))
	}
	for i, o := range c.Server.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, fmt.Errorf("server.allowed_origins[%d]: must not be empty", i))
		}
	}
	if c.Server.ReadHeaderTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("server.read_header_timeout_seconds: must be positive"))
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout_seconds: must be positive"))
	}

	return errors.Join(errs...)
}
