package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/finsync"
	"github.com/etnz/finsync/date"
	"github.com/etnz/finsync/store"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// setup points the commands to a populated data folder and captures their
// output.
func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "db")
	db, err := finsync.OpenDB(dir, store.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Accounts.Upsert(finsync.Account{ID: 1, Name: "Checking", Balance: decimal.RequireFromString("42"), Currency: finsync.Currency{ID: "EUR"}, Type: finsync.AccountChecking}); err != nil {
		t.Fatal(err)
	}
	if err := db.Transactions.Upsert(finsync.Transaction{ID: 7, IDAccount: 1, Date: date.MustParse("2024-02-03"), Value: decimal.RequireFromString("-9.99"), Wording: "CINEMA"}); err != nil {
		t.Fatal(err)
	}
	if err := db.Extras.Upsert(finsync.TransactionExtras{ID: 7, Categories: []string{"Leisure", "Culture"}}); err != nil {
		t.Fatal(err)
	}

	oldDir, oldOut := *dataDir, stdout
	var out bytes.Buffer
	*dataDir, stdout = dir, &out
	t.Cleanup(func() { *dataDir, stdout = oldDir, oldOut })
	return &out
}

// run parses args for c then executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatal(err)
	}
	return c.Execute(context.Background(), f)
}

func TestExportCmd(t *testing.T) {
	out := setup(t)
	if got := run(t, &exportCmd{}, "transactions"); got != subcommands.ExitSuccess {
		t.Fatalf("export = %v", got)
	}
	want := "date,amount,name,category,tags,account,notes\n2024-02-03,-9.99,CINEMA,Culture,,Checking,\n"
	if out.String() != want {
		t.Errorf("export transactions = %q, want %q", out, want)
	}

	file := filepath.Join(t.TempDir(), "accounts.csv")
	if got := run(t, &exportCmd{}, "-o", file, "accounts"); got != subcommands.ExitSuccess {
		t.Fatalf("export -o = %v", got)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Checking,42.00,EUR") {
		t.Errorf("export accounts = %q", data)
	}
}

func TestExportCmd_Usage(t *testing.T) {
	setup(t)
	for _, args := range [][]string{nil, {"extras"}, {"accounts", "transactions"}} {
		if got := run(t, &exportCmd{}, args...); got != subcommands.ExitUsageError {
			t.Errorf("export %v = %v, want usage error", args, got)
		}
	}
}

func TestListCmd(t *testing.T) {
	out := setup(t)
	if got := run(t, &listCmd{}, "extras"); got != subcommands.ExitSuccess {
		t.Fatalf("list = %v", got)
	}
	for _, want := range []string{`"id": 7`, `"Leisure"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list extras does not contain %q:\n%s", want, out)
		}
	}
	if got := run(t, &listCmd{}, "securities"); got != subcommands.ExitUsageError {
		t.Errorf("list securities = %v, want usage error", got)
	}
}

func TestSummaryCmd(t *testing.T) {
	out := setup(t)
	if got := run(t, &summaryCmd{}, "-raw", "-d", "2024-02-10", "-p", "yearly"); got != subcommands.ExitSuccess {
		t.Fatalf("summary = %v", got)
	}
	for _, want := range []string{"# Summary on 2024-02-10", "| Checking | checking |", "## Yearly spending (2024)", "| Culture | 1 |"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary does not contain %q:\n%s", want, out)
		}
	}
	if got := run(t, &summaryCmd{}, "-p", "hourly"); got != subcommands.ExitUsageError {
		t.Errorf("summary -p hourly = %v, want usage error", got)
	}
}

func TestCompletion(t *testing.T) {
	fs := flag.NewFlagSet("finsync", flag.ContinueOnError)
	fs.String("data-dir", "", "")
	c := Completion(fs)
	if _, ok := c.Flags["data-dir"]; !ok {
		t.Error("global flag data-dir is not completed")
	}
	for _, cmd := range Commands {
		if _, ok := c.Sub[cmd.Name()]; !ok {
			t.Errorf("command %q is not completed", cmd.Name())
		}
	}
	if _, ok := c.Sub["export"].Flags["o"]; !ok {
		t.Error("export -o is not completed")
	}
}
