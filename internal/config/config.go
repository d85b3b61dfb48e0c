// Package config loads runtime configuration from an optional pragati.yaml
// plus PRAGATI_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pragati/internal/registry"
)

// Server holds the HTTP surface settings.
type Server struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	EnableCORS bool   `mapstructure:"enable_cors"`
	Debug      bool   `mapstructure:"debug"`
}

// Config is the full runtime configuration.
type Config struct {
	BackendBaseURL       string        `mapstructure:"backend_base_url"`
	SessionDir           string        `mapstructure:"session_dir"`
	AutosaveDebounce     time.Duration `mapstructure:"autosave_debounce"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	ResponseBodyLimit    int64         `mapstructure:"response_body_limit"`
	DefaultLanguage      string        `mapstructure:"default_language"`
	TranslationCacheSize int           `mapstructure:"translation_cache_size"`
	Server               Server        `mapstructure:"server"`
}

// Load reads configuration from the given file (optional; empty means search
// the working directory and ~/.pragati), then applies environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("backend_base_url", "http://localhost:8000")
	v.SetDefault("session_dir", "~/.pragati/sessions")
	v.SetDefault("autosave_debounce", 2*time.Second)
	v.SetDefault("request_timeout", 120*time.Second)
	v.SetDefault("response_body_limit", int64(8<<20))
	v.SetDefault("default_language", registry.DefaultLanguageCode)
	v.SetDefault("translation_cache_size", 256)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.debug", false)

	v.SetEnvPrefix("PRAGATI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pragati")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.pragati")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults plus env carry the day.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BackendBaseURL == "" {
		return fmt.Errorf("backend_base_url must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, ok := registry.LanguageByCode(c.DefaultLanguage); !ok {
		return fmt.Errorf("default_language %q is not a supported language", c.DefaultLanguage)
	}
	return nil
}
