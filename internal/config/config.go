// Package config loads grade-estimator settings from defaults, a config file,
// .env files and GRADES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"grade-estimator/internal/grades"
	"grade-estimator/internal/layout"
	"grade-estimator/internal/store"
)

// EnvPrefix is the prefix of environment overrides, e.g. GRADES_ANCHOR.
const EnvPrefix = "GRADES"

// Config holds all settings.
type Config struct {
	ImagesDir      string        `mapstructure:"images_dir" yaml:"images_dir" json:"images_dir"`
	DBPath         string        `mapstructure:"db_path" yaml:"db_path" json:"db_path"`
	Anchor         string        `mapstructure:"anchor" yaml:"anchor" json:"anchor"`
	Languages      []string      `mapstructure:"languages" yaml:"languages" json:"languages"`
	Scale          []string      `mapstructure:"scale" yaml:"scale" json:"scale"`
	Sources        []string      `mapstructure:"sources" yaml:"sources" json:"sources"`
	ExtractTimeout time.Duration `mapstructure:"extract_timeout" yaml:"extract_timeout" json:"extract_timeout"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Server         ServerConfig  `mapstructure:"server" yaml:"server" json:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port string `mapstructure:"port" yaml:"port" json:"port"`
}

// defaults are kept as plain values so they can be written out as YAML.
func defaults() map[string]any {
	return map[string]any{
		"images_dir":      "AUD",
		"db_path":         store.DefaultPath,
		"anchor":          layout.DefaultAnchor,
		"languages":       []string{"deu", "eng"},
		"scale":           grades.DefaultLabels,
		"sources":         []string{},
		"extract_timeout": "60s",
		"log_level":       "info",
		"server": map[string]any{
			"host": "0.0.0.0",
			"port": "5000",
		},
	}
}

// Load reads the configuration. cfgFile may be empty, in which case
// config.yaml is looked up in the working directory and in
// $HOME/.grade-estimator; a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.grade-estimator")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings that extraction depends on.
func (c *Config) Validate() error {
	if _, err := grades.NewScale(c.Scale); err != nil {
		return err
	}
	if strings.TrimSpace(c.Anchor) == "" {
		return fmt.Errorf("anchor label is required")
	}
	if c.ExtractTimeout < 0 {
		return fmt.Errorf("extract_timeout must not be negative")
	}
	return nil
}

// GradeScale builds the configured grade scale.
func (c *Config) GradeScale() (*grades.Scale, error) {
	return grades.NewScale(c.Scale)
}

// Logger returns a text logger at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Settings returns the configuration keyed like the config file, with
// durations written as strings ("1m0s") so they read back through Load.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		"images_dir":      c.ImagesDir,
		"db_path":         c.DBPath,
		"anchor":          c.Anchor,
		"languages":       c.Languages,
		"scale":           c.Scale,
		"sources":         c.Sources,
		"extract_timeout": c.ExtractTimeout.String(),
		"log_level":       c.LogLevel,
		"server": map[string]any{
			"host": c.Server.Host,
			"port": c.Server.Port,
		},
	}
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(defaults())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# grade-estimator configuration
# Every key can be overridden with a GRADES_ environment variable,
# e.g. GRADES_IMAGES_DIR=AUD or GRADES_SERVER_PORT=8080.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
