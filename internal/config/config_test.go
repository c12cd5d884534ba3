package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "HTTPS_PROXY", "ALPACA_API_KEY", "APCA_API_KEY_ID", "ALPACA_API_SECRET",
	"APCA_API_SECRET_KEY", "CATALOG_PATH", "SQLITE_PATH", "BARS_PROVIDER",
	"NEWS_PROVIDER", "PROBE_CRON", "APP_ENV",
}

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
  mode: "debug"
provider:
  bars: "alpaca"
  news: "google"
  timeout: 10s
alpaca:
  api_key: "key"
  api_secret: "secret"
catalog:
  json_path: "/tmp/ticker.json"
  sqlite_path: "/tmp/catalog.db"
  default_symbol: "MSFT"
dashboard:
  default_period: "6mo"
  news_limit: 8
  windows: [20, 50]
probe:
  enabled: false
logging:
  env: "production"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), "127.0.0.1:9000")
	}
	if cfg.Provider.Bars != "alpaca" || cfg.Provider.News != "google" {
		t.Errorf("Provider = %q/%q, want alpaca/google", cfg.Provider.Bars, cfg.Provider.News)
	}
	if cfg.Provider.Timeout != 10*time.Second {
		t.Errorf("Provider.Timeout = %v, want 10s", cfg.Provider.Timeout)
	}
	if cfg.Catalog.DefaultSymbol != "MSFT" {
		t.Errorf("Catalog.DefaultSymbol = %q, want MSFT", cfg.Catalog.DefaultSymbol)
	}
	if cfg.Dashboard.DefaultPeriod != "6mo" || cfg.Dashboard.NewsLimit != 8 {
		t.Errorf("Dashboard = %+v", cfg.Dashboard)
	}
	if len(cfg.Dashboard.Windows) != 2 || cfg.Dashboard.Windows[0] != 20 {
		t.Errorf("Dashboard.Windows = %v, want [20 50]", cfg.Dashboard.Windows)
	}
	if cfg.Probe.Enabled {
		t.Error("Probe.Enabled = true, want false")
	}
	if cfg.Logging.Env != "production" {
		t.Errorf("Logging.Env = %q, want production", cfg.Logging.Env)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"port", cfg.Server.Port, 8080},
		{"mode", cfg.Server.Mode, "release"},
		{"bars", cfg.Provider.Bars, "yahoo"},
		{"news", cfg.Provider.News, "yahoo"},
		{"timeout", cfg.Provider.Timeout, 30 * time.Second},
		{"json_path", cfg.Catalog.JSONPath, "configs/ticker.json"},
		{"period", cfg.Dashboard.DefaultPeriod, "1y"},
		{"news_limit", cfg.Dashboard.NewsLimit, 5},
		{"probe_cron", cfg.Probe.Cron, "0 */5 * * * *"},
		{"probe_symbol", cfg.Probe.Symbol, "SPY"},
		{"probe_enabled", cfg.Probe.Enabled, true},
		{"log_env", cfg.Logging.Env, "development"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("APCA_API_KEY_ID", "apca-key")
	t.Setenv("ALPACA_API_SECRET", "alpaca-secret")
	t.Setenv("BARS_PROVIDER", "alpaca")
	t.Setenv("NEWS_PROVIDER", "mock")
	t.Setenv("SQLITE_PATH", "/data/catalog.db")
	t.Setenv("PROBE_CRON", "@every 1m")

	path := writeConfig(t, "server:\n  port: 8000\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Alpaca.APIKey != "apca-key" || cfg.Alpaca.APISecret != "alpaca-secret" {
		t.Errorf("Alpaca = %q/%q", cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	}
	if cfg.Catalog.SQLitePath != "/data/catalog.db" {
		t.Errorf("Catalog.SQLitePath = %q", cfg.Catalog.SQLitePath)
	}
	if cfg.Probe.Cron != "@every 1m" {
		t.Errorf("Probe.Cron = %q", cfg.Probe.Cron)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown provider", "provider:\n  bars: bloomberg\n", "Bars"},
		{"bad period", "dashboard:\n  default_period: 2w\n", "DefaultPeriod"},
		{"zero window", "dashboard:\n  windows: [50, 0]\n", "Windows"},
		{"alpaca without keys", "provider:\n  bars: alpaca\n", "alpaca.api_key"},
		{"bad cron", "probe:\n  cron: \"every five\"\n", "probe.cron"},
		{"bad mode", "server:\n  mode: prod\n", "Mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(writeConfig(t, tt.yaml))
			if err != nil {
				t.Fatalf("Load() returned error: %v", err)
			}
			err = cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Fatal("Load() = nil error, want parse error")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if got := Path(); got != DefaultPath {
		t.Errorf("Path() = %q, want %q", got, DefaultPath)
	}
	t.Setenv("CONFIG_PATH", "/etc/marketmind.yaml")
	if got := Path(); got != "/etc/marketmind.yaml" {
		t.Errorf("Path() = %q", got)
	}
}
