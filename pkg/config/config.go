package config

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all application configuration values
type Config struct {
	StoreURL    string   `mapstructure:"store_url"`
	StoreKey    string   `mapstructure:"store_key"`
	StoreTable  string   `mapstructure:"store_table"`
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	LogLevel    string   `mapstructure:"log_level"`
	LogFormat   string   `mapstructure:"log_format"`
	GinMode     string   `mapstructure:"gin_mode"`
}

// StoreConfigured reports whether both store credentials are present
func (c Config) StoreConfigured() bool {
	return c.StoreURL != "" && c.StoreKey != ""
}

// envNames keeps the variable names the hosting platform already sets
var envNames = map[string]string{
	"store_url":    "SUPABASE_URL",
	"store_key":    "SUPABASE_SERVICE_ROLE_KEY",
	"store_table":  "STORE_TABLE",
	"port":         "PORT",
	"cors_origins": "CORS_ORIGINS",
	"log_level":    "LOG_LEVEL",
	"log_format":   "LOG_FORMAT",
	"gin_mode":     "GIN_MODE",
}

// SetDefaults registers defaults and environment bindings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store_table", "waitlist_signups")
	v.SetDefault("port", "8080")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("gin_mode", "release")

	for key, env := range envNames {
		// BindEnv only errors without a key
		_ = v.BindEnv(key, env)
	}
}

// OpenConfig reads an optional YAML file on top of the environment.
// A missing default file is fine; a missing explicit file is not.
func OpenConfig(v *viper.Viper, file string) error {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/landing/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	log.Debug().Str("section", "init").Str("path", v.ConfigFileUsed()).Msg("Configuration file loaded")
	return nil
}

// LoadConfig decodes v into a Config
func LoadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CORSOrigins = trimList(cfg.CORSOrigins)
	cfg.StoreURL = strings.TrimRight(strings.TrimSpace(cfg.StoreURL), "/")
	cfg.StoreKey = strings.TrimSpace(cfg.StoreKey)
	return &cfg, nil
}

func trimList(list []string) []string {
	var out []string
	for _, part := range list {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
