package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/finsync"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export accounts or transactions as CSV" }
func (*exportCmd) Usage() string {
	return `finsync export [-o <file>] <accounts|transactions>

  Writes the collection in the CSV import format of personal finance
  applications. Transactions not yet posted are skipped.

Usage Examples:
$ finsync export -o transactions.csv transactions
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: export expects exactly one collection name\n")
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

	var encode func(io.Writer) error
	switch name := f.Arg(0); name {
	case "accounts":
		encode = func(w io.Writer) error { return finsync.EncodeAccountsCSV(w, db.Accounts.Snapshot()) }
	case "transactions":
		encode = func(w io.Writer) error { return finsync.EncodeTransactionsCSV(w, db.TransactionRows()) }
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown collection %q, want accounts or transactions\n", name)
		return subcommands.ExitUsageError
	}

	w := stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := encode(w); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
