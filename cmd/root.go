package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"
	"unicode/utf8"

	"github.com/pit38-assistant/community/internal/convert"
	internalhttp "github.com/pit38-assistant/community/internal/http"
	"github.com/pit38-assistant/community/internal/storage"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	humanReadable bool
	format        string
	delimiter     string
	timeout       int
)

var rootCmd = &cobra.Command{
	Use:   "pit38",
	Short: "Convert broker and bank exports into manual trade and income CSV files.",
	Long: `Convert broker and bank exports into the manual trade and income CSV files
imported by the PIT-38 assistant.

Inputs may be local paths, "-" for stdin, s3://bucket/key objects or http(s)
URLs. Outputs may be local paths, "-" for stdout or s3://bucket/key objects.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// log level
		var programLevel = new(slog.LevelVar)
		switch {
		case verbose:
			programLevel.Set(slog.LevelDebug)
		default:
			programLevel.Set(slog.LevelInfo)
		}
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel})
		logger := slog.New(handler)
		slog.SetDefault(logger)
		// route the standard logger through slog
		log.SetOutput(slog.NewLogLogger(handler, slog.LevelInfo).Writer())
	},
}

func Execute() {
	ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the root command with args instead of os.Args.
func ExecuteArgs(args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&humanReadable, "human-readable", "H", false, "Print converted records as a table")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", string(convert.FormatCSV), "Output format (csv or xlsx)")
	rootCmd.PersistentFlags().StringVarP(&delimiter, "delimiter", "d", ",", `Input field delimiter ("tab" for \t)`)
	rootCmd.PersistentFlags().IntVarP(&timeout, "timeout", "t", 30, "Download timeout in seconds for http(s) inputs")

	rootCmd.AddCommand(bunqCmd, trading212Cmd, batchCmd)
}

func newStore() *storage.Store {
	return storage.NewStore(internalhttp.NewClient(time.Duration(timeout) * time.Second))
}

func newService(store convert.Storage) (*convert.Service, error) {
	f, err := convert.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	comma, err := parseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	return convert.NewService(store, f, comma), nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

// statusWriter keeps progress lines off stdout when an output is streamed there.
func statusWriter(cmd *cobra.Command, outputs ...string) io.Writer {
	for _, o := range outputs {
		if o == "-" {
			return cmd.ErrOrStderr()
		}
	}
	return cmd.OutOrStdout()
}
