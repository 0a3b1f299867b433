package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pit38-assistant/community/internal/csv"
	"github.com/pit38-assistant/community/internal/job"
	"github.com/pit38-assistant/community/internal/worker"
	"github.com/spf13/cobra"
)

var (
	parallel       int
	rate           int
	outputTemplate string
)

var batchCmd = &cobra.Command{
	Use:   "batch MANIFEST",
	Short: "Convert every export listed in a manifest CSV.",
	Long: `Convert every export listed in a manifest CSV.

The manifest needs "broker" (bunq or trading212) and "input" columns.
"income_output" and "trades_output" columns are optional; missing outputs are
named with --output-template, which sees the row's columns plus dir, stem and
kind (income or trades).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := newStore()
		svc, err := newService(store)
		if err != nil {
			return err
		}
		factory, err := job.NewFactory(outputTemplate)
		if err != nil {
			return err
		}

		file, err := store.Open(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to open manifest: %w", err)
		}
		defer func() { _ = file.Close() }()

		records, err := csv.Read(file)
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}
		manifest, err := csv.NewCSV(records)
		if err != nil {
			return fmt.Errorf("failed to parse manifest: %w", err)
		}

		failed := 0
		jobs := make(chan *job.Job, len(manifest.Body))
		for i, row := range manifest.Body {
			j, err := factory.Build(manifest.Header, row)
			if err != nil {
				slog.Warn("skipping manifest line", "line", i+2, "error", err)
				failed++
				continue
			}
			j.Line = i + 2
			jobs <- j
		}
		close(jobs)

		pool := worker.NewPool(svc, parallel, rate, humanReadable, cmd.OutOrStdout())
		results := pool.Run(ctx, jobs)

		converted := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				continue
			}
			converted++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Converted %d file(s)\n", converted)
		if failed > 0 {
			return fmt.Errorf("%d of %d manifest line(s) failed", failed, len(manifest.Body))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Number of parallel conversions")
	batchCmd.Flags().IntVarP(&rate, "rate", "r", 0, "Rate limit in conversions per second")
	batchCmd.Flags().StringVar(&outputTemplate, "output-template", job.DefaultOutputTemplate, "Template for outputs missing from the manifest")
}
