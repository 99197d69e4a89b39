package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/finsync/date"
	"github.com/etnz/finsync/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date   string
	period string
	raw    bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display account balances and spending per category" }
func (*summaryCmd) Usage() string {
	return `finsync summary [-d <date>] [-p <period>]

  Displays the balance of every account, and the spending per category over
  the period containing the date.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date for the summary.")
	f.StringVar(&c.period, "p", "monthly", "Period of the spending: daily, weekly, monthly, quarterly or yearly.")
	f.BoolVar(&c.raw, "raw", false, "Print markdown instead of rendering it for the terminal.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening collections in %q: %v\n", cfg.DataDir, err)
		return subcommands.ExitFailure
	}

	md := renderer.RenderSummary(renderer.NewSummary(db, on, period))
	if c.raw {
		fmt.Fprint(stdout, md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
