package cmd

import (
	"fmt"

	"github.com/pit38-assistant/community/internal/record"
	"github.com/pit38-assistant/community/internal/report"
	"github.com/spf13/cobra"
)

var bunqCmd = &cobra.Command{
	Use:   "bunq INPUT OUTPUT",
	Short: "Convert a bunq statement export into a manual income file.",
	Long: `Convert a bunq statement export into a manual income file.

Only "bunq Payday" interest payouts are kept; all other statement lines are
skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]
		svc, err := newService(newStore())
		if err != nil {
			return err
		}

		summary, err := svc.Bunq(cmd.Context(), input, output)
		if err != nil {
			return err
		}

		w := statusWriter(cmd, output)
		if humanReadable {
			if err := report.Render(w, record.IncomeCSV(summary.Income)); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "✓ Converted %d interest payment(s)\n", len(summary.Income))
		fmt.Fprintf(w, "✓ Output written to: %s\n", output)
		return nil
	},
}
