// Package config loads vocat configuration from a YAML file, VOCAT_*
// environment variables and command line flags using viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables, e.g. VOCAT_CATALOG_PATH.
const EnvPrefix = "VOCAT"

// Config is the complete vocat configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" validate:"required"`
	Logging LoggingConfig `mapstructure:"logging" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// CatalogConfig locates the type catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// MetricsConfig controls construction metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"omitempty,alphanum"`
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Loader reads configuration from its sources. Flags bound with BindFlag
// take precedence over the environment, which takes precedence over the
// file and the defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and environment support.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlag makes flag override key when it is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads file, if not empty, and returns the validated configuration.
// Without a file, vocat.yaml is searched in the working directory and
// $HOME/.config/vocat; a missing search result is not an error.
func (l *Loader) Load(file string) (*Config, error) {
	if file != "" {
		l.v.SetConfigFile(file)
	} else {
		l.v.SetConfigName("vocat")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("$HOME/.config/vocat")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ConfigFile returns the file the configuration was read from, if any.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Load reads configuration from file and the environment.
func Load(file string) (*Config, error) {
	return NewLoader().Load(file)
}

// Validate checks the configuration struct tags.
func Validate(cfg *Config) error {
	if err := configValidator.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "catalog.yaml")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "valueobject")
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: %v)",
			fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("validation errors: %s", strings.Join(messages, "; "))
}
