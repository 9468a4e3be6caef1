package config

import (
	"time"

	"golang-econ-reporter/pkg/config"
)

// Scheduler holds the report scheduling configuration. The cron spec is
// the single daily tick that evaluates every subscriber's due date.
type Scheduler struct {
	DailyCronSpec string `mapstructure:"daily_cron_spec"`
}

// Aggregator holds data-collection tuning knobs.
type Aggregator struct {
	RecordCacheTTL time.Duration `mapstructure:"record_cache_ttl"`
}

// FRED holds the configuration for the FRED time-series API.
type FRED struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// WorldBank holds the configuration for the World Bank open data API.
type WorldBank struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Indicators points at the static indicator metadata file.
type Indicators struct {
	ConfigPath string `mapstructure:"config_path"`
}

// Config holds the full configuration for the report service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Scheduler  Scheduler       `mapstructure:"scheduler"`
	Aggregator Aggregator      `mapstructure:"aggregator"`
	FRED       FRED            `mapstructure:"fred"`
	Yahoo      YahooFinance    `mapstructure:"yahoo_finance"`
	WorldBank  WorldBank       `mapstructure:"world_bank"`
	Gemini     Gemini          `mapstructure:"gemini"`
	Telegram   Telegram        `mapstructure:"telegram"`
	Indicators Indicators      `mapstructure:"indicators"`
}

// Load loads the report service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
