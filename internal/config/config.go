package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port" validate:"min=1,max=65535"`
		Mode string `yaml:"mode" validate:"oneof=debug release test"`
	} `yaml:"server"`
	Provider struct {
		Bars          string        `yaml:"bars" validate:"oneof=yahoo alpaca mock"`
		News          string        `yaml:"news" validate:"oneof=yahoo google alpaca mock none"`
		Proxy         string        `yaml:"proxy"`
		Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
		YahooBaseURL  string        `yaml:"yahoo_base_url" validate:"omitempty,url"`
		GoogleNewsURL string        `yaml:"google_news_url" validate:"omitempty,url"`
	} `yaml:"provider"`
	Alpaca struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		DataURL   string `yaml:"data_url" validate:"omitempty,url"`
	} `yaml:"alpaca"`
	Catalog struct {
		JSONPath      string `yaml:"json_path" validate:"required"`
		SQLitePath    string `yaml:"sqlite_path"`
		DefaultSymbol string `yaml:"default_symbol"`
	} `yaml:"catalog"`
	Dashboard struct {
		DefaultPeriod string `yaml:"default_period" validate:"oneof=1mo 3mo 6mo ytd 1y 5y max"`
		NewsLimit     int    `yaml:"news_limit" validate:"min=1,max=50"`
		Windows       []int  `yaml:"windows" validate:"min=1,dive,min=1"`
		LexiconPath   string `yaml:"lexicon_path"`
	} `yaml:"dashboard"`
	Probe struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
		Symbol  string `yaml:"symbol" validate:"required"`
	} `yaml:"probe"`
	Logging struct {
		Env string `yaml:"env" validate:"oneof=development production"`
	} `yaml:"logging"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A .env file in the working directory is loaded
// first when present; a missing config file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Probe.Enabled = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Provider.Proxy = v
	}
	if v := firstEnv("ALPACA_API_KEY", "APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := firstEnv("ALPACA_API_SECRET", "APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.JSONPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Catalog.SQLitePath = v
	}
	if v := os.Getenv("BARS_PROVIDER"); v != "" {
		cfg.Provider.Bars = v
	}
	if v := os.Getenv("NEWS_PROVIDER"); v != "" {
		cfg.Provider.News = v
	}
	if v := os.Getenv("PROBE_CRON"); v != "" {
		cfg.Probe.Cron = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Logging.Env = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Provider.Bars == "" {
		cfg.Provider.Bars = "yahoo"
	}
	if cfg.Provider.News == "" {
		cfg.Provider.News = "yahoo"
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
	if cfg.Catalog.JSONPath == "" {
		cfg.Catalog.JSONPath = "configs/ticker.json"
	}
	if cfg.Dashboard.DefaultPeriod == "" {
		cfg.Dashboard.DefaultPeriod = "1y"
	}
	if cfg.Dashboard.NewsLimit == 0 {
		cfg.Dashboard.NewsLimit = 5
	}
	if len(cfg.Dashboard.Windows) == 0 {
		cfg.Dashboard.Windows = []int{50, 200}
	}
	if cfg.Probe.Cron == "" {
		cfg.Probe.Cron = "0 */5 * * * *"
	}
	if cfg.Probe.Symbol == "" {
		cfg.Probe.Symbol = "SPY"
	}
	if cfg.Logging.Env == "" {
		cfg.Logging.Env = "development"
	}
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	usesAlpaca := c.Provider.Bars == "alpaca" || c.Provider.News == "alpaca"
	if usesAlpaca && (c.Alpaca.APIKey == "" || c.Alpaca.APISecret == "") {
		return errors.New("alpaca.api_key and alpaca.api_secret are required for the alpaca provider")
	}
	if c.Probe.Enabled {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Probe.Cron); err != nil {
			return fmt.Errorf("probe.cron %q: %w", c.Probe.Cron, err)
		}
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
