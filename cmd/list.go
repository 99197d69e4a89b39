package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "print a collection as JSON" }
func (*listCmd) Usage() string {
	return `finsync list <accounts|transactions|extras>

  Prints the records of a collection, in collection order.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: list expects exactly one collection name\n")
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

	var records any
	switch name := f.Arg(0); name {
	case "accounts":
		records = db.Accounts.Snapshot()
	case "transactions":
		records = db.Transactions.Snapshot()
	case "extras":
		records = db.Extras.Snapshot()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown collection %q, want accounts, transactions or extras\n", name)
		return subcommands.ExitUsageError
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
