// Package cli provides the command-line interface for the trading application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"binance-trader/internal/config"
	"binance-trader/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies shared across commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "trader",
		Short: "Binance Trader - autonomous crypto trading CLI",
		Long: `Binance Trader is an autonomous trading agent for Binance spot markets.

It polls candlestick data at a fixed cadence, evaluates a configurable
strategy (moving-average cross, RSI thresholds, Bollinger bands, or a
combination) and manages a single long position with protective OCO orders.

Use 'trader run' to start the trading loop, or 'trader backtest' to replay
a strategy over historical candles without touching the venue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/binance-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newBacktestCmd(app))
	rootCmd.AddCommand(newBalanceCmd(app))
	rootCmd.AddCommand(newOrdersCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Binance Trader v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Trading Configuration")
	output.Printf("  Mode:            %s\n", cfg.Trading.Mode)
	output.Printf("  Symbol:          %s\n", cfg.Trading.Symbol)
	output.Printf("  Interval:        %s\n", cfg.Trading.Interval)
	output.Printf("  Base Quantity:   %.6f %s\n", cfg.Trading.BaseQuantity, cfg.Trading.BaseAsset)
	output.Printf("  Lookback:        %d candles\n", cfg.Trading.Lookback)
	output.Printf("  Poll Interval:   %ds\n", cfg.Trading.PollIntervalSeconds)
	output.Println()

	output.Bold("Risk Configuration")
	output.Printf("  Protective OCO:  %v\n", cfg.Risk.Enabled)
	output.Printf("  Stop Loss:       %.2f%%\n", (1-cfg.Risk.StopLossRatio)*100)
	output.Printf("  Take Profit:     %.2f%%\n", (cfg.Risk.TakeProfitRatio-1)*100)
	output.Println()

	output.Bold("Strategy Configuration")
	output.Printf("  Choice:          %s\n", cfg.Strategy.Choice)
	switch cfg.Strategy.Choice {
	case "ma_cross":
		output.Printf("  Fast/Slow:       %d/%d\n", cfg.Strategy.MACross.FastWindow, cfg.Strategy.MACross.SlowWindow)
	case "rsi":
		output.Printf("  Period:          %d\n", cfg.Strategy.RSI.Period)
		output.Printf("  Buy/Sell:        %.0f/%.0f\n", cfg.Strategy.RSI.BuyBelow, cfg.Strategy.RSI.SellAbove)
	case "bollinger":
		output.Printf("  Window:          %d\n", cfg.Strategy.Bollinger.Window)
		output.Printf("  Std Dev Mult:    %.1f\n", cfg.Strategy.Bollinger.StdDevMul)
	case "combined":
		output.Printf("  Combine:         %v\n", cfg.Strategy.Combine)
	}
	output.Println()

	output.Bold("Journal")
	output.Printf("  Enabled:         %v\n", cfg.Journal.Enabled)
	output.Printf("  Database:        %s\n", cfg.Journal.DBPath)
}
