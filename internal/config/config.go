package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	PowerPay PowerPayConfig `mapstructure:"powerpay"`
	Handoff  HandoffConfig  `mapstructure:"handoff"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// PowerPayConfig locates the report-data service. The bearer token is never
// written to a config file; it comes from the environment.
type PowerPayConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	BearerToken string `mapstructure:"bearer_token"`
}

type HandoffConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml from the working directory when present and merges
// REPORTDESK_* environment variables over it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.listen_addr", ":8383")
	v.SetDefault("powerpay.base_url", "http://localhost:8383")
	v.SetDefault("powerpay.bearer_token", "")
	v.SetDefault("handoff.db_path", "reportdesk.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REPORTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
