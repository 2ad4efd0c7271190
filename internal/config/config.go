// Package config loads taskflow settings from defaults, an optional YAML
// file and TASKFLOW_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TASKFLOW_API_BASE_URL
// for api.base_url.
const EnvPrefix = "TASKFLOW"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	// Token is the bearer token sent with every request. Empty means
	// signed out.
	Token string `mapstructure:"token"`
	// ExpirySkew hides JWTs that expire within this window.
	ExpirySkew time.Duration `mapstructure:"expiry_skew"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the local dev API server.
type ServerConfig struct {
	Addr   string `mapstructure:"addr"`
	DBPath string `mapstructure:"db_path"`
	// JWTSecret, when set, makes the server verify HS256 signatures.
	JWTSecret string `mapstructure:"jwt_secret"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			ExpirySkew: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:   ":8080",
			DBPath: "./taskflow.db",
		},
	}
}

// SetDefaults registers the defaults on v so they apply without a config
// file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("auth.token", d.Auth.Token)
	v.SetDefault("auth.expiry_skew", d.Auth.ExpirySkew)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.db_path", d.Server.DBPath)
	v.SetDefault("server.jwt_secret", d.Server.JWTSecret)
}

// BindEnv makes TASKFLOW_SECTION_KEY override section.key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// Dir returns the user config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskflow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskflow"
	}
	return filepath.Join(home, ".config", "taskflow")
}

type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return "invalid config: " + strings.Join(parts, "; ")
}

var (
	validLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validFormats = []string{"text", "json"}
)

func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Value: c.API.BaseURL, Message: "must be an absolute http(s) URL"})
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "api.timeout", Value: c.API.Timeout, Message: "must be positive"})
	}
	if c.Auth.ExpirySkew < 0 {
		errs = append(errs, ValidationError{Field: "auth.expiry_skew", Value: c.Auth.ExpirySkew, Message: "must not be negative"})
	}
	if !slices.Contains(validLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{Field: "logging.level", Value: c.Logging.Level, Message: "must be one of " + strings.Join(validLevels, ", ")})
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Logging.Format)) {
		errs = append(errs, ValidationError{Field: "logging.format", Value: c.Logging.Format, Message: "must be text or json"})
	}
	return errs
}
