package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Binance Trader Configuration

[trading]
# Trading mode: "live", "testnet" or "paper"
mode = "paper"
# Trading pair
symbol = "BTCUSDT"
# Base and quote assets of the pair
base_asset = "BTC"
quote_asset = "USDT"
# Candle interval: 1m, 5m, 15m, 1h, 4h, 1d
interval = "1m"
# Quantity traded per buy, in base asset units
base_quantity = 0.001
# Venue minimum order quantity
min_quantity = 0.0001
# Base-asset balance above which the account counts as in-position
dust_threshold = 0.001
# Number of candles kept in the sliding window
lookback = 100
# Seconds between trading cycles
poll_interval_seconds = 60

[risk]
# Attach a protective OCO order after every buy
enabled = true
# Stop loss at entry price multiplied by this ratio
stop_loss_ratio = 0.98
# Take profit at entry price multiplied by this ratio
take_profit_ratio = 1.02

[strategy]
# Strategy variant: ma_cross, rsi, bollinger, combined
choice = "ma_cross"
# Sub-strategies combined with unanimous-agreement semantics
combine = ["ma_cross", "rsi"]

[strategy.ma_cross]
fast_window = 3
slow_window = 5

[strategy.rsi]
period = 14
buy_below = 30.0
sell_above = 70.0

[strategy.bollinger]
window = 20
std_dev_mul = 2.0

[journal]
# Record every completed order in the SQLite journal
enabled = true
`

const credentialsTemplate = `# Binance Trader Credentials
#
# Keys may also be supplied via the BINANCE_API_KEY and BINANCE_API_SECRET
# environment variables, which take precedence over this file.

api_key = ""
api_secret = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Credentials are secrets, restrict to the owner.
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}
	return nil
}
