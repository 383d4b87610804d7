package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL    string   `yaml:"base_url"`
		Symbols    []string `yaml:"symbols"`
		Timeframes []string `yaml:"timeframes"`
		StartDate  string   `yaml:"start_date"` // YYYY-MM-DD
	} `yaml:"data_source"`
	Bands struct {
		Window        int     `yaml:"window"`
		StdDevMult    float64 `yaml:"std_dev"`
		SqueezeWindow int     `yaml:"squeeze_window"`
	} `yaml:"bands"`
	Database struct {
		RawSQLitePath       string `yaml:"raw_sqlite_path"`
		IndicatorSQLitePath string `yaml:"indicator_sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		CollectCron   string `yaml:"collect_cron"`
		CalculateCron string `yaml:"calculate_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

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
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = splitList(v)
	}
	if v := os.Getenv("TIMEFRAMES"); v != "" {
		cfg.DataSource.Timeframes = splitList(v)
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.DataSource.StartDate = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("RAW_SQLITE_PATH"); v != "" {
		cfg.Database.RawSQLitePath = v
	}
	if v := os.Getenv("BOLLINGER_SQLITE_PATH"); v != "" {
		cfg.Database.IndicatorSQLitePath = v
	}

	// Defaults
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = []string{"BTC/USDT", "ETH/USDT", "SOL/USDT", "SOL/BTC", "ETH/BTC"}
	}
	if len(cfg.DataSource.Timeframes) == 0 {
		cfg.DataSource.Timeframes = []string{"4h", "1d"}
	}
	if cfg.DataSource.StartDate == "" {
		cfg.DataSource.StartDate = "2021-01-01"
	}
	if cfg.Bands.Window == 0 {
		cfg.Bands.Window = 20
	}
	if cfg.Bands.StdDevMult == 0 {
		cfg.Bands.StdDevMult = 2
	}
	if cfg.Bands.SqueezeWindow == 0 {
		cfg.Bands.SqueezeWindow = 20
	}
	if cfg.Database.RawSQLitePath == "" {
		cfg.Database.RawSQLitePath = "data/raw_market_data.db"
	}
	if cfg.Database.IndicatorSQLitePath == "" {
		cfg.Database.IndicatorSQLitePath = "data/bollinger_bands_data.db"
	}
	if cfg.Schedule.CollectCron == "" {
		cfg.Schedule.CollectCron = "0 5 */4 * * *"
	}
	if cfg.Schedule.CalculateCron == "" {
		cfg.Schedule.CalculateCron = "0 15 */4 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if len(c.DataSource.Timeframes) == 0 {
		return fmt.Errorf("data_source.timeframes must not be empty")
	}
	if c.Bands.Window <= 0 {
		return fmt.Errorf("bands.window must be positive")
	}
	if c.Bands.StdDevMult <= 0 {
		return fmt.Errorf("bands.std_dev must be positive")
	}
	if c.Bands.SqueezeWindow <= 0 {
		return fmt.Errorf("bands.squeeze_window must be positive")
	}
	if _, err := c.StartTime(); err != nil {
		return fmt.Errorf("data_source.start_date: %w", err)
	}
	return nil
}

// StartTime parses the configured collection start date.
func (c *Config) StartTime() (time.Time, error) {
	return time.Parse("2006-01-02", c.DataSource.StartDate)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
