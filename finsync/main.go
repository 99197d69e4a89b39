// Command finsync mirrors bank accounts and transactions into local JSON
// files, categorizes transactions, and serves them over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/finsync/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	// Answers shell completion requests, then exits. Does nothing otherwise.
	cmd.Completion(flag.CommandLine).Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
