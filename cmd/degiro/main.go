// Command degiro runs a single DeGiro operation and prints its result.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var format = flag.String("format", "", "output format, json or msgpack (overrides OUTPUT_FORMAT)")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&loginCmd{}, "session")
	commander.Register(&accountCmd{}, "account")
	commander.Register(&transactionsCmd{}, "account")
	commander.Register(&productsCmd{}, "account")
	commander.Register(&portfolioCmd{}, "account")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
