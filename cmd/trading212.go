package cmd

import (
	"fmt"

	"github.com/pit38-assistant/community/internal/record"
	"github.com/pit38-assistant/community/internal/report"
	"github.com/spf13/cobra"
)

var trading212Cmd = &cobra.Command{
	Use:     "trading212 INPUT TRADES_OUTPUT INCOME_OUTPUT",
	Aliases: []string{"t212"},
	Short:   "Convert a Trading 212 history export into manual trade and income files.",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, tradesOutput, incomeOutput := args[0], args[1], args[2]
		svc, err := newService(newStore())
		if err != nil {
			return err
		}

		summary, err := svc.Trading212(cmd.Context(), input, tradesOutput, incomeOutput)
		if err != nil {
			return err
		}

		w := statusWriter(cmd, tradesOutput, incomeOutput)
		if humanReadable {
			if err := report.Render(w, record.TradeCSV(summary.Trades)); err != nil {
				return err
			}
			if err := report.Render(w, record.IncomeCSV(summary.Income)); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "✓ Converted %d trade(s)\n", len(summary.Trades))
		fmt.Fprintf(w, "✓ Trades written to: %s\n", tradesOutput)
		fmt.Fprintf(w, "✓ Converted %d income record(s)\n", len(summary.Income))
		fmt.Fprintf(w, "✓ Income written to: %s\n", incomeOutput)
		return nil
	},
}
