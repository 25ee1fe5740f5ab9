// Package config provides Viper-based configuration loading for the heading
// command binaries.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/baditaflorin/go_heading_command/internal/core/domain"
)

// EditorConfig mirrors the host editor settings the command reads.
type EditorConfig struct {
	// TitleHTMLID is the selector of the page title element.
	TitleHTMLID string `mapstructure:"title_html_id"`
	// Language selects the alert language, e.g. "de" or "en".
	Language string `mapstructure:"language"`
	// ModelElements are the element names the command is registered with.
	ModelElements []string `mapstructure:"model_elements"`
}

// NormalizerConfig holds identifier normalization settings.
type NormalizerConfig struct {
	// Compose NFC-composes input before normalizing.
	Compose bool `mapstructure:"compose"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxRequestSize int           `mapstructure:"max_request_size"`
	// Concurrency of 0 means fasthttp's default.
	Concurrency int `mapstructure:"concurrency"`
}

// Addr returns the "host:port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Format is "json" or "text".
	Format string `mapstructure:"format"`
	// File is the log file path; empty means stdout.
	File string `mapstructure:"file"`
}

// Config is the top-level configuration.
type Config struct {
	Editor     EditorConfig     `mapstructure:"editor"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Validate checks all configuration invariants and reports every violation.
func (c Config) Validate() error {
	var errs []string

	if err := validateEditor(c.Editor); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEditor(e EditorConfig) error {
	var errs []string
	if e.TitleHTMLID == "" {
		errs = append(errs, "editor.title_html_id must not be empty")
	}
	if _, err := language.Parse(e.Language); err != nil {
		errs = append(errs, fmt.Sprintf("editor.language %q is not a valid language tag", e.Language))
	}
	if len(e.ModelElements) == 0 {
		errs = append(errs, "editor.model_elements must not be empty")
	}
	for _, name := range e.ModelElements {
		if name != domain.Paragraph && !domain.IsHeading(name) {
			errs = append(errs, fmt.Sprintf("editor.model_elements: unsupported element %q", name))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if s.MaxRequestSize < 1 {
		errs = append(errs, fmt.Sprintf("server.max_request_size must be >= 1, got %d", s.MaxRequestSize))
	}
	if s.Concurrency < 0 {
		errs = append(errs, "server.concurrency must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, text], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from path, applies HEADING_ environment overrides
// and validates the result. An empty path loads defaults and environment
// only.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("HEADING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TitleHTMLID:   "#title",
			Language:      "de",
			ModelElements: append([]string(nil), domain.DefaultModelElements...),
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxRequestSize: 10 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Format: "json",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("editor.title_html_id", d.Editor.TitleHTMLID)
	v.SetDefault("editor.language", d.Editor.Language)
	v.SetDefault("editor.model_elements", d.Editor.ModelElements)

	v.SetDefault("normalizer.compose", d.Normalizer.Compose)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.max_request_size", d.Server.MaxRequestSize)
	v.SetDefault("server.concurrency", d.Server.Concurrency)

	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
}
