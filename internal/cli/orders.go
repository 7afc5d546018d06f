package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"binance-trader/internal/models"
	"binance-trader/internal/store"
	"binance-trader/pkg/utils"
)

func newOrdersCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show recorded orders from the journal",
		Long:  "List the most recent orders recorded in the local order journal, newest first.",
		Example: `  trader orders
  trader orders --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cfg := app.Config

			if !cfg.Journal.Enabled {
				return fmt.Errorf("order journal is disabled in configuration")
			}

			sqlStore, err := store.NewSQLiteStore(cfg.Journal.DBPath)
			if err != nil {
				return fmt.Errorf("opening order journal: %w", err)
			}
			defer sqlStore.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			events, err := sqlStore.ListOrders(ctx, cfg.Trading.Symbol, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(events)
			}

			if len(events) == 0 {
				output.Dim("No orders recorded for %s", cfg.Trading.Symbol)
				return nil
			}

			output.Bold("Orders: %s (%d)", cfg.Trading.Symbol, len(events))
			for _, e := range events {
				label := output.Buy("BUY ")
				if e.Side == models.OrderSideSell {
					label = output.Sell("SELL")
				}
				output.Printf("  %s  %s  %10.6f @ %-12s total %s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"),
					label,
					e.Quantity,
					utils.FormatNumber(e.Price, 2),
					utils.FormatNumber(e.TotalValue, 2))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum orders to show")

	return cmd
}
