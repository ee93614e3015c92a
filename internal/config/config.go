package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string   `yaml:"provider" default:"yahoo" validate:"oneof=yahoo rest mock"`
		BaseURL  string   `yaml:"base_url"`
		APIKey   string   `yaml:"api_key"`
		Symbol   string   `yaml:"symbol" default:"AAPL" validate:"required"`
		Symbols  []string `yaml:"symbols" validate:"max=10"`
	} `yaml:"data_source"`
	Schedule struct {
		TickCron        string `yaml:"tick_cron" default:"* * * * * *" validate:"required"`
		MarketOpenHour  int    `yaml:"market_open_hour" default:"9" validate:"gte=0,lte=23"`
		MarketCloseHour int    `yaml:"market_close_hour" default:"16" validate:"gte=1,lte=24"`
	} `yaml:"schedule"`
	Chart struct {
		Period    string `yaml:"period" default:"1mo" validate:"oneof=1d 5d 1wk 1mo 3mo 1y 5y"`
		ShowMA    bool   `yaml:"show_ma" default:"true"`
		ShowRSI   bool   `yaml:"show_rsi"`
		MAWindow  int    `yaml:"ma_window" default:"50" validate:"gte=2"`
		RSIWindow int    `yaml:"rsi_window" default:"14" validate:"gte=2"`
	} `yaml:"chart"`
	Chat struct {
		ThinkDelay time.Duration `yaml:"think_delay" default:"1s" validate:"gte=0"`
	} `yaml:"chat"`
	Recommendation struct {
		Seed uint64 `yaml:"seed"`
	} `yaml:"recommendation"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Output string `yaml:"output" default:"advisor.log"`
	} `yaml:"log"`
	Proxy   string        `yaml:"proxy"`
	Timeout time.Duration `yaml:"timeout" default:"15s" validate:"gt=0"`
}

// DefaultSymbols are the popular tickers bound to keys 1-0.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "JPM", "V", "WMT"}

// Load applies defaults, reads .env and the YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ADVISOR_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RECOMMENDATION_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse RECOMMENDATION_SEED: %w", err)
		}
		cfg.Recommendation.Seed = seed
	}

	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = append([]string(nil), DefaultSymbols...)
	}

	return cfg, nil
}

// Validate checks field constraints and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Schedule.MarketOpenHour >= c.Schedule.MarketCloseHour {
		return fmt.Errorf("schedule.market_open_hour must be before market_close_hour")
	}
	if c.DataSource.Provider == "rest" && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for the rest provider")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether notices should go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
