package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesTemplatesAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config.toml template not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "credentials.toml")); err != nil {
		t.Errorf("credentials.toml template not created: %v", err)
	}

	if cfg.Trading.Mode != "paper" {
		t.Errorf("Trading.Mode = %v, want paper default", cfg.Trading.Mode)
	}
	if cfg.Trading.Symbol != "BTCUSDT" {
		t.Errorf("Trading.Symbol = %v, want BTCUSDT", cfg.Trading.Symbol)
	}
	if cfg.Trading.PollIntervalSeconds != 60 {
		t.Errorf("PollIntervalSeconds = %v, want 60", cfg.Trading.PollIntervalSeconds)
	}
	if cfg.Strategy.MACross.FastWindow != 3 || cfg.Strategy.MACross.SlowWindow != 5 {
		t.Errorf("MACross = %d/%d, want 3/5", cfg.Strategy.MACross.FastWindow, cfg.Strategy.MACross.SlowWindow)
	}
	if !cfg.Risk.Enabled || cfg.Risk.StopLossRatio != 0.98 || cfg.Risk.TakeProfitRatio != 1.02 {
		t.Errorf("Risk = %+v, want enabled 0.98/1.02", cfg.Risk)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[trading]
mode = "testnet"
symbol = "ETHUSDT"
base_asset = "ETH"
quote_asset = "USDT"
base_quantity = 0.05

[strategy]
choice = "rsi"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Trading.Mode != "testnet" || cfg.Trading.Symbol != "ETHUSDT" {
		t.Errorf("Trading = %+v", cfg.Trading)
	}
	if cfg.Strategy.Choice != "rsi" {
		t.Errorf("Strategy.Choice = %v, want rsi", cfg.Strategy.Choice)
	}
	// Unset keys still fall back to defaults.
	if cfg.Trading.Lookback != 100 {
		t.Errorf("Lookback = %v, want default 100", cfg.Trading.Lookback)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "env-key")
	t.Setenv("BINANCE_API_SECRET", "env-secret")
	t.Setenv("TRADING_MODE", "paper")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Credentials.APIKey != "env-key" || cfg.Credentials.APISecret != "env-secret" {
		t.Errorf("Credentials = %+v, want env values", cfg.Credentials)
	}
	if cfg.Trading.Mode != "paper" {
		t.Errorf("Trading.Mode = %v, want paper from env", cfg.Trading.Mode)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Trading: TradingConfig{
				Mode:                "paper",
				Symbol:              "BTCUSDT",
				BaseQuantity:        0.001,
				Lookback:            100,
				PollIntervalSeconds: 60,
			},
			Risk: RiskConfig{
				Enabled:         true,
				StopLossRatio:   0.98,
				TakeProfitRatio: 1.02,
			},
			Strategy: StrategyConfig{Choice: "ma_cross"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad mode", func(c *Config) { c.Trading.Mode = "yolo" }, true},
		{"missing symbol", func(c *Config) { c.Trading.Symbol = "" }, true},
		{"zero quantity", func(c *Config) { c.Trading.BaseQuantity = 0 }, true},
		{"zero lookback", func(c *Config) { c.Trading.Lookback = 0 }, true},
		{"zero poll interval", func(c *Config) { c.Trading.PollIntervalSeconds = 0 }, true},
		{"stop loss above 1", func(c *Config) { c.Risk.StopLossRatio = 1.5 }, true},
		{"take profit below 1", func(c *Config) { c.Risk.TakeProfitRatio = 0.9 }, true},
		{"risk disabled skips ratio checks", func(c *Config) {
			c.Risk.Enabled = false
			c.Risk.StopLossRatio = 0
			c.Risk.TakeProfitRatio = 0
		}, false},
		{"bad strategy", func(c *Config) { c.Strategy.Choice = "martingale" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
