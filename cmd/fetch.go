package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/finsync/job"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	enrich bool
}

func (*fetchCmd) Name() string { return "fetch" }
func (*fetchCmd) Synopsis() string {
	return "pull accounts and new transactions from the bank aggregator"
}
func (*fetchCmd) Usage() string {
	return `finsync fetch [-enrich]

  Fills empty collections, then refreshes accounts and pulls the transactions
  updated since the most recent one stored locally.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.enrich, "enrich", false, "Categorize new transactions afterwards.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	src, err := newSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening collections in %q: %v\n", cfg.DataDir, err)
		return subcommands.ExitFailure
	}

	if err := job.Seed(ctx, db, src); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing data: %v\n", err)
		return subcommands.ExitFailure
	}
	before := db.Transactions.Len()
	fetcher := &job.Fetcher{DB: db, Source: src}
	if err := fetcher.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%d accounts, %d transactions (%d new)\n", db.Accounts.Len(), db.Transactions.Len(), db.Transactions.Len()-before)

	if c.enrich {
		g, err := newGuesser(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := job.NewEnricher(db, g, cfg.EnrichDelay).Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error categorizing: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
