package cmd

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/etnz/finsync"
	"github.com/google/subcommands"
)

type guessCmd struct {
	save bool
}

func (*guessCmd) Name() string     { return "guess" }
func (*guessCmd) Synopsis() string { return "guess the categories of one transaction" }
func (*guessCmd) Usage() string {
	return `finsync guess [-save] [<transaction id>]

  Asks the model for the categories of a transaction, a random one when no id
  is given. The guess is only printed, unless -save is set.
`
}

func (c *guessCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.save, "save", false, "Store the guessed categories.")
}

func (c *guessCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: guess expects at most one transaction id\n")
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

	var tx finsync.Transaction
	if f.NArg() == 1 {
		id, err := strconv.ParseUint(f.Arg(0), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid transaction id %q\n", f.Arg(0))
			return subcommands.ExitUsageError
		}
		var ok bool
		if tx, ok = db.Transactions.FindByID(id); !ok {
			fmt.Fprintf(os.Stderr, "Error: transaction %d not found\n", id)
			return subcommands.ExitFailure
		}
	} else {
		transactions := db.Transactions.Snapshot()
		if len(transactions) == 0 {
			fmt.Fprintf(os.Stderr, "Warning: no transaction to guess.\n")
			return subcommands.ExitSuccess
		}
		tx = transactions[rand.IntN(len(transactions))]
	}

	g, err := newGuesser(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	categories, err := g.Guess(ctx, tx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%d %s %s\n%q\n", tx.ID, tx.Value, tx.OriginalWording, categories)

	if c.save {
		extras, _ := db.Extras.FindByID(tx.ID)
		extras.ID = tx.ID
		extras.Categories = categories
		if err := db.Extras.Upsert(extras); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving categories: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
