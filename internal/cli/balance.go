package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"binance-trader/pkg/utils"
)

func newBalanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show venue balances",
		Long:  "Fetch the free balances of the configured base and quote assets.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cfg := app.Config

			v, err := buildVenue(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			base, err := v.GetBalance(ctx, cfg.Trading.BaseAsset)
			if err != nil {
				return err
			}
			quote, err := v.GetBalance(ctx, cfg.Trading.QuoteAsset)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]float64{
					cfg.Trading.BaseAsset:  base,
					cfg.Trading.QuoteAsset: quote,
				})
			}

			output.Bold("Balances (%s mode)", cfg.Trading.Mode)
			output.Printf("  %-6s %s\n", cfg.Trading.BaseAsset, utils.FormatNumber(base, 6))
			output.Printf("  %-6s %s\n", cfg.Trading.QuoteAsset, utils.FormatNumber(quote, 2))
			return nil
		},
	}
}
