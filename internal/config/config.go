// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string  `yaml:"token"`
	Workers     int     `yaml:"workers"` // polling workers
	AdminIDs    []int64 `yaml:"admin_ids"`
	ImageFileID string  `yaml:"image_file_id"` // cached photo shown on the inline card
}

type MarketConfig struct {
	BaseURL       string `yaml:"base_url"` // default https://api.lzt.market
	APIToken      string `yaml:"api_token"`
	MerchantToken string `yaml:"merchant_token"` // shared secret checked on the webhook
	MerchantID    int64  `yaml:"merchant_id"`
	SuccessURL    string `yaml:"success_url"`
	CallbackURL   string `yaml:"callback_url"`
	Comment       string `yaml:"comment"`
}

type WebhookConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	URL        string `yaml:"url"`
	Migrations string `yaml:"migrations"` // path to migration files
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Market   MarketConfig   `yaml:"market"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file once at startup. ${VAR} references in the
// file are expanded from the environment so tokens stay out of the file.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Market.BaseURL == "" {
		cfg.Market.BaseURL = "https://api.lzt.market"
	}
	if cfg.Webhook.Port == 0 {
		cfg.Webhook.Port = 8080
	}
	if cfg.Database.Migrations == "" {
		cfg.Database.Migrations = "migrations"
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if len(cfg.Bot.AdminIDs) == 0 {
		return nil, errors.New("bot.admin_ids is required")
	}
	if cfg.Market.APIToken == "" {
		return nil, errors.New("market.api_token is required")
	}
	if cfg.Market.MerchantToken == "" {
		return nil, errors.New("market.merchant_token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
