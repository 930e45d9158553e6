// Package config loads the calc server configuration from an optional file
// and the environment.
package config

import (
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/logger"
)

// ServerConfig is the configuration for the HTTP server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`                         // The listen address, e.g. ":3000"
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`         // Limit on reading a whole request
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"` // Grace period for in-flight requests on shutdown
}

// LogConfig is the configuration for the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // One of debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // json or console
}

// EvalConfig is the configuration for expression evaluation.
type EvalConfig struct {
	Validation string `mapstructure:"validation" yaml:"validation"` // grouped, strict, or charset
}

// Config wraps the entire configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Eval   EvalConfig   `mapstructure:"eval" yaml:"eval"`
}

// Logger returns the logger configuration described by c.
func (c *Config) Logger() (logger.Config, error) {
	return logger.ParseConfig(c.Log.Level, c.Log.Format)
}

// Validation returns the validation mode described by c.
func (c *Config) Validation() (calc.ValidationMode, error) {
	m, err := calc.ParseValidation(c.Eval.Validation)
	return m, errors.Wrap(err, "eval.validation")
}

// Validate checks that every field of c holds a usable value.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return errors.Errorf("server.read_timeout must be positive, not %v", c.Server.ReadTimeout)
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.Errorf("server.shutdown_timeout must not be negative, not %v", c.Server.ShutdownTimeout)
	}
	if _, err := c.Logger(); err != nil {
		return err
	}
	if _, err := c.Validation(); err != nil {
		return err
	}
	return nil
}

// Load loads the config from the file path, falling back to env vars and
// defaults if the path is empty or the file does not exist. If the file
// exists, any env vars that are set override the values loaded from it.
func Load(filePath string) (*Config, error) {
	v := newViper()

	if filePath != "" {
		v.SetConfigFile(filePath)
		// If the config file exists, we continue to read it, otherwise we
		// fall back to using environment variables.
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "reading config %s", filePath)
			}
		}
	}

	return unmarshal(v)
}

// LoadEnv loads the config from the environment variables and defaults.
func LoadEnv() (*Config, error) {
	return Load("")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

var (
	// defaults holds the value of every key when neither the file nor the
	// environment sets it.
	defaults = map[string]any{
		"server.addr":             ":3000",
		"server.read_timeout":     5 * time.Second,
		"server.shutdown_timeout": 5 * time.Second,
		"log.level":               "info",
		"log.format":              "json",
		"eval.validation":         calc.ValidateGrouped.String(),
	}

	// envBindings maps each config key to the environment variables that can
	// provide its value, in order of preference.
	envBindings = map[string][]string{
		"server.addr":             {"CALC_SERVER_ADDR"},
		"server.read_timeout":     {"CALC_SERVER_READ_TIMEOUT"},
		"server.shutdown_timeout": {"CALC_SERVER_SHUTDOWN_TIMEOUT"},
		"log.level":               {"CALC_LOG_LEVEL", "LOG_LEVEL"},
		"log.format":              {"CALC_LOG_FORMAT", "LOG_FORMAT"},
		"eval.validation":         {"CALC_EVAL_VALIDATION"},
	}
)

func newViper() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	// BindEnv only fails when given no key.
	if err := bindEnvs(v); err != nil {
		panic(err)
	}
	return v
}

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the config key to the start of the arguments.
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}
