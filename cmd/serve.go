package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/finsync/job"
	"github.com/etnz/finsync/server"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type serveCmd struct {
	addr     string
	noSeed   bool
	noEnrich bool
}

func (*serveCmd) Name() string { return "serve" }
func (*serveCmd) Synopsis() string {
	return "serve the local bank data over HTTP and keep it up to date"
}
func (*serveCmd) Usage() string {
	return `finsync serve [-addr <addr>]

  Fills the empty collections from the bank aggregator, then serves them over
  HTTP. Transactions are pulled and categorized periodically in the
  background, see FINSYNC_FETCH_INTERVAL and FINSYNC_ENRICH_INTERVAL.

  Categorization is disabled when GEMINI_API_KEY is not set.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to $FINSYNC_ADDR or ':3000'.")
	f.BoolVar(&c.noSeed, "no-seed", false, "Do not fill empty collections at start.")
	f.BoolVar(&c.noEnrich, "no-enrich", false, "Do not categorize transactions.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.addr != "" {
		cfg.Addr = c.addr
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

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.noSeed {
		if err := job.Seed(ctx, db, src); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing data: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	fetcher := &job.Fetcher{DB: db, Source: src}
	runs := []func(context.Context) error{fetcher.Run}

	var enricher *job.Enricher
	var guesser job.Guesser
	if !c.noEnrich {
		g, err := newGuesser(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: categorization disabled: %v\n", err)
		} else {
			guesser = g
			enricher = job.NewEnricher(db, g, cfg.EnrichDelay)
			runs = append(runs, enricher.Run)
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	srv := server.New(ctx, db, job.Chain(runs...), guesser)
	group.Go(func() error { return srv.ListenAndServe(ctx, cfg.Addr) })
	group.Go(func() error { return job.Schedule(ctx, cfg.FetchInterval, "fetch", job.Chain(runs...)) })
	if enricher != nil {
		group.Go(func() error {
			// Catch up with transactions seeded or left over by a previous run.
			if err := enricher.Run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: categorization: %v\n", err)
			}
			return job.Schedule(ctx, cfg.EnrichInterval, "enrich", enricher.Run)
		})
	}

	if err := group.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
