package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/warp/latefee/config"
	"github.com/warp/latefee/fee"
	"github.com/warp/latefee/timesource"
)

const displayLayout = "Mon 2006-01-02 15:04 MST"

type quoteOptions struct {
	due        string
	ret        string
	asOf       string
	configFile string
	maxSpan    int
	breakdown  bool
}

func newQuoteCmd() *cobra.Command {
	var opts quoteOptions

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a late fee without a server",
		Long: `Compute the fee for an item due at --due and returned at --return.
Without --return the fee is an estimate as of --as-of (default now).
The configuration comes from --config-file, or the built-in default.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.due, "due", "", "Due timestamp (required)")
	cmd.Flags().StringVar(&opts.ret, "return", "", "Return timestamp")
	cmd.Flags().StringVar(&opts.asOf, "as-of", "", "Instant to estimate at when --return is empty")
	cmd.Flags().StringVar(&opts.configFile, "config-file", "", "Fee configuration (YAML/JSON)")
	cmd.Flags().IntVar(&opts.maxSpan, "max-span-days", 3650, "Reject spans longer than this many days (0 = no cap)")
	cmd.Flags().BoolVar(&opts.breakdown, "breakdown", true, "Print every charge")
	cmd.MarkFlagRequired("due")
	return cmd
}

func runQuote(out io.Writer, opts quoteOptions) error {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.LoadFile(opts.configFile)
		if err != nil {
			return err
		}
		cfg, _ = loaded.Normalize()
	}

	span, err := timesource.NewManual(cfg.Location()).Span(opts.due, opts.ret, opts.asOf)
	if err != nil {
		return err
	}

	calc := fee.NewCalculator(config.Server{MaxSpanDays: opts.maxSpan}.MaxSpan())
	a, err := calc.Assess(span.Due, span.Return, cfg.Rate, cfg.Schedule)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Due:      %s\n", a.Due.Format(displayLayout))
	if span.Estimate {
		fmt.Fprintf(out, "As of:    %s (estimate)\n", a.Return.Format(displayLayout))
	} else {
		fmt.Fprintf(out, "Returned: %s\n", a.Return.Format(displayLayout))
	}
	fmt.Fprintf(out, "Fee:      %s (%d hourly, %d overnight)\n", cfg.FormatAmount(a.Total), a.HourlyTicks, a.Nights)

	if opts.breakdown && len(a.Charges) > 0 {
		fmt.Fprintln(out)
		for _, c := range a.Charges {
			fmt.Fprintf(out, "  %s  %-9s  %s\n", c.At.Format(displayLayout), c.Kind, cfg.FormatAmount(c.Amount))
		}
	}
	return nil
}
