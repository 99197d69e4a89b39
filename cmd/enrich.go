package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/finsync/job"
	"github.com/google/subcommands"
)

type enrichCmd struct{}

func (*enrichCmd) Name() string     { return "enrich" }
func (*enrichCmd) Synopsis() string { return "guess the categories of uncategorized transactions" }
func (*enrichCmd) Usage() string {
	return `finsync enrich

  Asks the model for the categories of every transaction without any, at the
  pace set by FINSYNC_ENRICH_DELAY. Transactions that fail are reported and
  left uncategorized.
`
}

func (c *enrichCmd) SetFlags(f *flag.FlagSet) {}

func (c *enrichCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	g, err := newGuesser(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	todo := len(db.Uncategorized())
	err = job.NewEnricher(db, g, cfg.EnrichDelay).Run(ctx)
	fmt.Fprintf(stdout, "%d transactions categorized, %d left\n", todo-len(db.Uncategorized()), len(db.Uncategorized()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error categorizing: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
