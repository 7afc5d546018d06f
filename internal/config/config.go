// Package config provides configuration management for the trading application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading     TradingConfig  `mapstructure:"trading"`
	Risk        RiskConfig     `mapstructure:"risk"`
	Strategy    StrategyConfig `mapstructure:"strategy"`
	Journal     JournalConfig  `mapstructure:"journal"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// TradingConfig holds trading-related configuration.
type TradingConfig struct {
	Mode                string  `mapstructure:"mode"`       // "live", "testnet", "paper"
	Symbol              string  `mapstructure:"symbol"`     // e.g. BTCUSDT
	BaseAsset           string  `mapstructure:"base_asset"` // e.g. BTC
	QuoteAsset          string  `mapstructure:"quote_asset"`
	Interval            string  `mapstructure:"interval"`
	BaseQuantity        float64 `mapstructure:"base_quantity"`
	MinQuantity         float64 `mapstructure:"min_quantity"`
	DustThreshold       float64 `mapstructure:"dust_threshold"`
	Lookback            int     `mapstructure:"lookback"`
	PollIntervalSeconds int     `mapstructure:"poll_interval_seconds"`
}

// RiskConfig holds protective order configuration.
type RiskConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	StopLossRatio   float64 `mapstructure:"stop_loss_ratio"`
	TakeProfitRatio float64 `mapstructure:"take_profit_ratio"`
}

// StrategyConfig selects the strategy variant and its parameters.
type StrategyConfig struct {
	Choice    string          `mapstructure:"choice"` // ma_cross, rsi, bollinger, combined
	MACross   MACrossConfig   `mapstructure:"ma_cross"`
	RSI       RSIConfig       `mapstructure:"rsi"`
	Bollinger BollingerConfig `mapstructure:"bollinger"`
	Combine   []string        `mapstructure:"combine"`
}

// MACrossConfig holds moving-average-cross parameters.
type MACrossConfig struct {
	FastWindow int `mapstructure:"fast_window"`
	SlowWindow int `mapstructure:"slow_window"`
}

// RSIConfig holds RSI threshold parameters.
type RSIConfig struct {
	Period    int     `mapstructure:"period"`
	BuyBelow  float64 `mapstructure:"buy_below"`
	SellAbove float64 `mapstructure:"sell_above"`
}

// BollingerConfig holds Bollinger band parameters.
type BollingerConfig struct {
	Window    int     `mapstructure:"window"`
	StdDevMul float64 `mapstructure:"std_dev_mul"`
}

// JournalConfig holds order journal configuration.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// Credentials holds venue API credentials.
type Credentials struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/binance-trader"
	}
	return filepath.Join(home, ".config", "binance-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			// Template written; continue with defaults.
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("trading.mode", "paper")
	v.SetDefault("trading.symbol", "BTCUSDT")
	v.SetDefault("trading.base_asset", "BTC")
	v.SetDefault("trading.quote_asset", "USDT")
	v.SetDefault("trading.interval", "1m")
	v.SetDefault("trading.base_quantity", 0.001)
	v.SetDefault("trading.min_quantity", 0.0001)
	v.SetDefault("trading.dust_threshold", 0.001)
	v.SetDefault("trading.lookback", 100)
	v.SetDefault("trading.poll_interval_seconds", 60)

	v.SetDefault("risk.enabled", true)
	v.SetDefault("risk.stop_loss_ratio", 0.98)
	v.SetDefault("risk.take_profit_ratio", 1.02)

	v.SetDefault("strategy.choice", "ma_cross")
	v.SetDefault("strategy.ma_cross.fast_window", 3)
	v.SetDefault("strategy.ma_cross.slow_window", 5)
	v.SetDefault("strategy.rsi.period", 14)
	v.SetDefault("strategy.rsi.buy_below", 30.0)
	v.SetDefault("strategy.rsi.sell_above", 70.0)
	v.SetDefault("strategy.bollinger.window", 20)
	v.SetDefault("strategy.bollinger.std_dev_mul", 2.0)
	v.SetDefault("strategy.combine", []string{"ma_cross", "rsi"})

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.db_path", filepath.Join(DefaultConfigDir(), "trader.db"))
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Credentials.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Credentials.APISecret = v
	}
	if v := os.Getenv("TRADING_MODE"); v != "" {
		cfg.Trading.Mode = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Trading.Mode {
	case "live", "testnet", "paper":
	default:
		return fmt.Errorf("invalid trading mode: %s (must be 'live', 'testnet' or 'paper')", c.Trading.Mode)
	}

	if c.Trading.Symbol == "" {
		return fmt.Errorf("trading.symbol is required")
	}
	if c.Trading.BaseQuantity <= 0 {
		return fmt.Errorf("trading.base_quantity must be positive")
	}
	if c.Trading.Lookback <= 0 {
		return fmt.Errorf("trading.lookback must be positive")
	}
	if c.Trading.PollIntervalSeconds <= 0 {
		return fmt.Errorf("trading.poll_interval_seconds must be positive")
	}

	if c.Risk.Enabled {
		if c.Risk.StopLossRatio <= 0 || c.Risk.StopLossRatio >= 1 {
			return fmt.Errorf("risk.stop_loss_ratio must be in (0, 1)")
		}
		if c.Risk.TakeProfitRatio <= 1 {
			return fmt.Errorf("risk.take_profit_ratio must be greater than 1")
		}
	}

	switch c.Strategy.Choice {
	case "ma_cross", "rsi", "bollinger", "combined":
	default:
		return fmt.Errorf("invalid strategy choice: %s", c.Strategy.Choice)
	}

	return nil
}

// IsPaperMode returns true if paper trading mode is enabled.
func (c *Config) IsPaperMode() bool {
	return c.Trading.Mode == "paper"
}

// IsTestnetMode returns true if the venue should use the exchange testnet.
func (c *Config) IsTestnetMode() bool {
	return c.Trading.Mode == "testnet"
}
